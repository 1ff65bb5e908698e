package student

import (
	"context"

	"github.com/trezcool/mahudhurio/core"
)

type Gender string

// Genders
const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Student is owned by the student directory. RegNo never changes once assigned.
type Student struct {
	ID              string `json:"id" db:"id"`
	Name            string `json:"name" db:"name"`
	RegNo           string `json:"reg_no" db:"reg_no"`
	RollNumber      string `json:"roll_number" db:"roll_number"`
	ClassID         string `json:"class_id" db:"class_id"`
	DateOfBirth     string `json:"date_of_birth" db:"date_of_birth"` // YYYY-MM-DD
	Gender          Gender `json:"gender" db:"gender"`
	GuardianName    string `json:"guardian_name" db:"guardian_name"`
	GuardianContact string `json:"guardian_contact" db:"guardian_contact"`
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	Name            string `json:"name" validate:"required,max=100"`
	RollNumber      string `json:"roll_number" validate:"required,max=10,alphanum"`
	ClassID         string `json:"class_id" validate:"required"`
	DateOfBirth     string `json:"date_of_birth" validate:"omitempty,isodate"`
	Gender          Gender `json:"gender" validate:"omitempty,gender"`
	GuardianName    string `json:"guardian_name" validate:"max=100"`
	GuardianContact string `json:"guardian_contact" validate:"max=30"`
}

func (ns *NewStudent) Validate(ctx context.Context, svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.RollNumber = core.CleanString(ns.RollNumber)
	ns.ClassID = core.CleanString(ns.ClassID)
	ns.DateOfBirth = core.CleanString(ns.DateOfBirth)
	ns.GuardianName = core.CleanString(ns.GuardianName)
	ns.GuardianContact = core.CleanString(ns.GuardianContact)

	if err := core.ValidateStruct(ns); err != nil {
		return err
	}
	return svc.checkRollNumber(ctx, ns.ClassID, ns.RollNumber)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Empty fields keep their current value.
type UpdateStudent struct {
	Name            string `json:"name" validate:"max=100"`
	RollNumber      string `json:"roll_number" validate:"omitempty,max=10,alphanum"`
	ClassID         string `json:"class_id"`
	DateOfBirth     string `json:"date_of_birth" validate:"omitempty,isodate"`
	Gender          Gender `json:"gender" validate:"omitempty,gender"`
	GuardianName    string `json:"guardian_name" validate:"max=100"`
	GuardianContact string `json:"guardian_contact" validate:"max=30"`
}

func (us *UpdateStudent) Validate(ctx context.Context, orig Student, svc *Service) error {
	pick := func(val, origVal string) string {
		if val = core.CleanString(val); val != "" {
			return val
		}
		return origVal
	}
	us.Name = pick(us.Name, orig.Name)
	us.RollNumber = pick(us.RollNumber, orig.RollNumber)
	us.ClassID = pick(us.ClassID, orig.ClassID)
	us.DateOfBirth = pick(us.DateOfBirth, orig.DateOfBirth)
	us.Gender = Gender(pick(string(us.Gender), string(orig.Gender)))
	us.GuardianName = pick(us.GuardianName, orig.GuardianName)
	us.GuardianContact = pick(us.GuardianContact, orig.GuardianContact)

	if err := core.ValidateStruct(us); err != nil {
		return err
	}
	if us.ClassID == orig.ClassID && us.RollNumber == orig.RollNumber {
		return nil
	}
	return svc.checkRollNumber(ctx, us.ClassID, us.RollNumber, orig)
}

type QueryFilter struct {
	ClassID string
}

// GetFilter selects one Student: by ID if set, otherwise by RegNo.
type GetFilter struct {
	ID    string
	RegNo string
}
