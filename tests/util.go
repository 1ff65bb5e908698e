package testutil

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/student"
	logsvc "github.com/trezcool/mahudhurio/services/logger"
	"github.com/trezcool/mahudhurio/storage/database"
)

// PrepareSQLDB opens a migrated in-memory SQLite database, closed when the test ends.
func PrepareSQLDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("database.OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db); err != nil {
		t.Fatalf("database.Migrate() failed: %v", err)
	}
	return db
}

// NewLogger returns a logger that reports nothing to rollbar and prints nowhere.
func NewLogger() core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), &core.Config{
		Env:      "TEST",
		Build:    "test",
		AppName:  "mahudhurio",
		TestMode: true,
	})
	logger.Enable(false)
	return logger
}

func CreateClass(t *testing.T, repo class.Repository, name, teacherID string) class.Class {
	t.Helper()

	cls, err := repo.CreateClass(context.Background(), class.Class{Name: name, TeacherID: teacherID})
	if err != nil {
		t.Fatalf("createClass() failed: %v", err)
	}
	return cls
}

// CreateStudent stores a student as is, bypassing registration number allocation.
func CreateStudent(t *testing.T, repo student.Repository, classID, name, regNo, rollNumber string) student.Student {
	t.Helper()

	std, err := repo.CreateStudent(context.Background(), student.Student{
		Name:       name,
		RegNo:      regNo,
		RollNumber: rollNumber,
		ClassID:    classID,
	})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return std
}
