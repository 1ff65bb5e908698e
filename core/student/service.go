package student

import (
	"context"
	"errors"
	"sync"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/class"
)

var (
	// errors
	ErrRollNumberExists = errors.New("roll number already exists in this class")
	ErrRegNoExists      = errors.New("a student with this registration number already exists")
)

type (
	Repository interface {
		// CheckRollNumberUniqueness returns ErrRollNumberExists if a student of classID (not in excluded) uses rollNumber.
		CheckRollNumberUniqueness(ctx context.Context, classID, rollNumber string, excluded ...Student) error
		// CreateStudent assigns the ID; it fails with ErrRegNoExists on a duplicate RegNo.
		CreateStudent(ctx context.Context, std Student) (Student, error)
		QueryStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		GetStudent(ctx context.Context, filter GetFilter) (Student, error)
		// QueryRegNos lists every registration number starting with prefix.
		QueryRegNos(ctx context.Context, prefix string) ([]string, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudent(ctx context.Context, id string) error
	}

	ClassGetter interface {
		GetByID(ctx context.Context, id string) (class.Class, error)
	}

	// Service is the student directory.
	Service struct {
		repo    Repository
		classes ClassGetter
		mu      sync.Mutex // serializes enrolment writes: roll number checks and registration number allocation
	}
)

func NewService(repo Repository, classes ClassGetter) *Service {
	return &Service{repo: repo, classes: classes}
}

func (svc *Service) checkRollNumber(ctx context.Context, classID, rollNumber string, excluded ...Student) error {
	if _, err := svc.classes.GetByID(ctx, classID); err != nil {
		if core.IsNotFound(err) {
			return core.NewValidationError(err, core.FieldError{Field: "class_id", Error: err.Error()})
		}
		return err
	}
	return trapUniquenessErr(svc.repo.CheckRollNumberUniqueness(ctx, classID, rollNumber, excluded...))
}

// trapUniquenessErr turns the repository's uniqueness errors into typed ones.
func trapUniquenessErr(err error) error {
	switch {
	case errors.Is(err, ErrRollNumberExists):
		return core.NewValidationError(err, core.FieldError{Field: "roll_number", Error: ErrRollNumberExists.Error()})
	case errors.Is(err, ErrRegNoExists):
		return core.NewConflictError(err)
	}
	return err
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if err := ns.Validate(ctx, svc); err != nil {
		return Student{}, err
	}
	cls, err := svc.classes.GetByID(ctx, ns.ClassID)
	if err != nil {
		return Student{}, err
	}

	prefix := regNoPrefix(cls.Name)
	taken, err := svc.repo.QueryRegNos(ctx, prefix)
	if err != nil {
		return Student{}, err
	}
	regNo, err := nextRegNo(prefix, taken)
	if err != nil {
		return Student{}, err
	}

	std, err := svc.repo.CreateStudent(ctx, Student{
		Name:            ns.Name,
		RegNo:           regNo,
		RollNumber:      ns.RollNumber,
		ClassID:         ns.ClassID,
		DateOfBirth:     ns.DateOfBirth,
		Gender:          ns.Gender,
		GuardianName:    ns.GuardianName,
		GuardianContact: ns.GuardianContact,
	})
	if err != nil {
		return Student{}, trapUniquenessErr(err)
	}
	return std, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	students, err := svc.repo.QueryStudents(ctx, QueryFilter{})
	if err != nil {
		return nil, err
	}
	SortByRoll(students)
	return students, nil
}

// GetEnrolledStudents returns the roster of a class ordered by roll number.
func (svc *Service) GetEnrolledStudents(ctx context.Context, classID string) ([]Student, error) {
	if _, err := svc.classes.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	students, err := svc.repo.QueryStudents(ctx, QueryFilter{ClassID: classID})
	if err != nil {
		return nil, err
	}
	SortByRoll(students)
	return students, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	if id = core.CleanString(id); id == "" {
		return Student{}, core.NewNotFoundError("student", id)
	}
	return svc.repo.GetStudent(ctx, GetFilter{ID: id})
}

func (svc *Service) GetStudentByRegNo(ctx context.Context, regNo string) (Student, error) {
	if regNo = core.CleanString(regNo); regNo == "" {
		return Student{}, core.NewNotFoundError("student", regNo)
	}
	return svc.repo.GetStudent(ctx, GetFilter{RegNo: regNo})
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	orig, err := svc.GetByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if err := us.Validate(ctx, orig, svc); err != nil {
		return Student{}, err
	}
	std := orig
	std.Name = us.Name
	std.RollNumber = us.RollNumber
	std.ClassID = us.ClassID
	std.DateOfBirth = us.DateOfBirth
	std.Gender = us.Gender
	std.GuardianName = us.GuardianName
	std.GuardianContact = us.GuardianContact

	std, err = svc.repo.UpdateStudent(ctx, std)
	if err != nil {
		return Student{}, trapUniquenessErr(err)
	}
	return std, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteStudent(ctx, id)
}
