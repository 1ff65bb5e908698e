package inmemdb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, std := range repo.db.table {
		students = append(students, *std)
	}
	return students
}

func (repo *studentRepository) CheckRollNumberUniqueness(_ context.Context, classID, rollNumber string, excluded ...student.Student) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return repo.checkRollNumber(classID, rollNumber, excluded...)
}

// checkRollNumber mirrors the (class_id, roll_number) unique constraint; callers hold the table lock.
func (repo *studentRepository) checkRollNumber(classID, rollNumber string, excluded ...student.Student) error {
	for _, std := range repo.db.table {
		if std.ClassID == classID && std.RollNumber == rollNumber && !isExcludedStudent(*std, excluded) {
			return student.ErrRollNumberExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, s := range repo.db.table {
		if s.RegNo == std.RegNo {
			return student.Student{}, student.ErrRegNoExists
		}
	}
	if err := repo.checkRollNumber(std.ClassID, std.RollNumber); err != nil {
		return student.Student{}, err
	}
	std.ID = uuid.New().String()
	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter student.QueryFilter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0)
	for _, std := range repo.query() {
		if filter.ClassID == "" || std.ClassID == filter.ClassID {
			students = append(students, std)
		}
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, filter student.GetFilter) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter.ID != "" {
		if std, ok := repo.db.table[filter.ID]; ok {
			return *std, nil
		}
		return student.Student{}, core.NewNotFoundError("student", filter.ID)
	}
	for _, std := range repo.query() {
		if filter.RegNo != "" && std.RegNo == filter.RegNo {
			return std, nil
		}
	}
	return student.Student{}, core.NewNotFoundError("student", filter.RegNo)
}

func (repo *studentRepository) QueryRegNos(_ context.Context, prefix string) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	regNos := make([]string, 0)
	for _, std := range repo.db.table {
		if strings.HasPrefix(std.RegNo, prefix) {
			regNos = append(regNos, std.RegNo)
		}
	}
	return regNos, nil
}

func (repo *studentRepository) UpdateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[std.ID]
	if !ok {
		return student.Student{}, core.NewNotFoundError("student", std.ID)
	}
	std.RegNo = orig.RegNo // immutable
	if err := repo.checkRollNumber(std.ClassID, std.RollNumber, std); err != nil {
		return student.Student{}, err
	}
	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return core.NewNotFoundError("student", id)
	}
	delete(repo.db.table, id)
	return nil
}

func isExcludedStudent(std student.Student, excluded []student.Student) bool {
	for _, ex := range excluded {
		if ex.ID == std.ID {
			return true
		}
	}
	return false
}
