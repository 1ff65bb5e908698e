package inmemdb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/class"
)

type classRepository struct {
	db       *classTable
	students *studentTable
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *DB) class.Repository {
	return &classRepository{db: db.class, students: db.student}
}

func (repo *classRepository) query() []class.Class {
	classes := make([]class.Class, 0, len(repo.db.table))
	for _, cls := range repo.db.table {
		classes = append(classes, *cls)
	}
	return classes
}

func (repo *classRepository) CheckNameUniqueness(_ context.Context, name string, excluded ...class.Class) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, cls := range repo.query() {
		if strings.EqualFold(cls.Name, name) && !isExcludedClass(cls, excluded) {
			return class.ErrNameExists
		}
	}
	return nil
}

func (repo *classRepository) CreateClass(_ context.Context, cls class.Class) (class.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	cls.ID = uuid.New().String()
	repo.db.table[cls.ID] = &cls
	return cls, nil
}

func (repo *classRepository) QueryClasses(_ context.Context, teacherID string) ([]class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]class.Class, 0)
	for _, cls := range repo.query() {
		if teacherID == "" || cls.TeacherID == teacherID {
			classes = append(classes, cls)
		}
	}
	return classes, nil
}

func (repo *classRepository) GetClassByID(_ context.Context, id string) (class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cls, ok := repo.db.table[id]; ok {
		return *cls, nil
	}
	return class.Class{}, core.NewNotFoundError("class", id)
}

func (repo *classRepository) GetClassByName(_ context.Context, name string) (class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, cls := range repo.query() {
		if strings.EqualFold(cls.Name, name) {
			return cls, nil
		}
	}
	return class.Class{}, core.NewNotFoundError("class", name)
}

func (repo *classRepository) UpdateClass(_ context.Context, cls class.Class) (class.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[cls.ID]; !ok {
		return class.Class{}, core.NewNotFoundError("class", cls.ID)
	}
	repo.db.table[cls.ID] = &cls
	return cls, nil
}

func (repo *classRepository) DeleteClass(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return core.NewNotFoundError("class", id)
	}
	delete(repo.db.table, id)

	// ON DELETE CASCADE
	repo.students.Lock()
	defer repo.students.Unlock()
	for stdID, std := range repo.students.table {
		if std.ClassID == id {
			delete(repo.students.table, stdID)
		}
	}
	return nil
}

func isExcludedClass(cls class.Class, excluded []class.Class) bool {
	for _, ex := range excluded {
		if ex.ID == cls.ID {
			return true
		}
	}
	return false
}
