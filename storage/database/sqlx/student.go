package sqlxrepos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/student"
)

const studentColumns = "id, name, reg_no, roll_number, class_id, date_of_birth, gender, guardian_name, guardian_contact"

type studentRepository struct {
	db core.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db core.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo studentRepository) CheckRollNumberUniqueness(ctx context.Context, classID, rollNumber string, excluded ...student.Student) error {
	var ids []string
	q := repo.db.Rebind("SELECT id FROM students WHERE class_id = ? AND roll_number = ?")
	if err := sqlx.SelectContext(ctx, repo.db, &ids, q, classID, rollNumber); err != nil {
		return errors.Wrap(err, "checking roll number uniqueness")
	}
	for _, id := range ids {
		if !isExcludedStudent(id, excluded) {
			return student.ErrRollNumberExists
		}
	}
	return nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std.ID = uuid.New().String()
	q := "INSERT INTO students (" + studentColumns + `) VALUES
		(:id, :name, :reg_no, :roll_number, :class_id, :date_of_birth, :gender, :guardian_name, :guardian_contact)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, std); err != nil {
		return student.Student{}, trapStudentConstraintErr(err, "inserting student")
	}
	return std, nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	students := make([]student.Student, 0)
	q := "SELECT " + studentColumns + " FROM students"
	var args []interface{}
	if filter.ClassID != "" {
		q += " WHERE class_id = ?"
		args = append(args, filter.ClassID)
	}
	q += orderBy(
		core.DBOrdering{Field: "class_id", Ascending: true},
		core.DBOrdering{Field: "reg_no", Ascending: true},
	)

	if err := sqlx.SelectContext(ctx, repo.db, &students, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, filter student.GetFilter) (student.Student, error) {
	var (
		std      student.Student
		key, col string
	)
	switch {
	case filter.ID != "":
		key, col = filter.ID, "id"
	case filter.RegNo != "":
		key, col = filter.RegNo, "reg_no"
	default:
		return student.Student{}, core.NewNotFoundError("student", "")
	}

	q := repo.db.Rebind("SELECT " + studentColumns + " FROM students WHERE " + col + " = ?")
	if err := sqlx.GetContext(ctx, repo.db, &std, q, key); err != nil {
		return student.Student{}, trapNoRowsErr(err, "student", key, "finding student")
	}
	return std, nil
}

func (repo studentRepository) QueryRegNos(ctx context.Context, prefix string) ([]string, error) {
	var found []string
	q := repo.db.Rebind("SELECT reg_no FROM students WHERE reg_no LIKE ?")
	if err := sqlx.SelectContext(ctx, repo.db, &found, q, prefix+"%"); err != nil {
		return nil, errors.Wrap(err, "querying registration numbers")
	}

	// LIKE treats '_' as a wildcard
	regNos := make([]string, 0, len(found))
	for _, regNo := range found {
		if strings.HasPrefix(regNo, prefix) {
			regNos = append(regNos, regNo)
		}
	}
	return regNos, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	q := `UPDATE students SET name = :name, roll_number = :roll_number, class_id = :class_id,
		date_of_birth = :date_of_birth, gender = :gender, guardian_name = :guardian_name,
		guardian_contact = :guardian_contact
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.db, q, std)
	if err != nil {
		return student.Student{}, trapStudentConstraintErr(err, "updating student")
	}
	if err = checkAffected(res, "student", std.ID); err != nil {
		return student.Student{}, err
	}
	return repo.GetStudent(ctx, student.GetFilter{ID: std.ID})
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind("DELETE FROM students WHERE id = ?"), id)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return checkAffected(res, "student", id)
}

func trapStudentConstraintErr(err error, msg string) error {
	if constraint, ok := uniqueViolation(err); ok {
		if strings.Contains(constraint, "reg_no") {
			return student.ErrRegNoExists
		}
		return student.ErrRollNumberExists
	}
	return errors.Wrap(err, msg)
}

func isExcludedStudent(id string, excluded []student.Student) bool {
	for _, ex := range excluded {
		if ex.ID == id {
			return true
		}
	}
	return false
}
