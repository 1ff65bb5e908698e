package class

import (
	"context"

	"github.com/trezcool/mahudhurio/core"
)

type Teacher struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Class struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	TeacherID string `json:"teacher_id" db:"teacher_id"`
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name      string `json:"name" validate:"required,max=100"`
	TeacherID string `json:"teacher_id" validate:"required"`
}

func (nc *NewClass) Validate(ctx context.Context, svc *Service) error {
	nc.Name = core.CleanString(nc.Name)
	nc.TeacherID = core.CleanString(nc.TeacherID)

	if err := core.ValidateStruct(nc); err != nil {
		return err
	}
	return svc.checkUniqueness(ctx, nc.Name)
}

// UpdateClass defines what information may be provided to modify an existing Class.
type UpdateClass struct {
	Name      string `json:"name" validate:"omitempty,max=100"`
	TeacherID string `json:"teacher_id"`
}

func (uc *UpdateClass) Validate(ctx context.Context, origCls Class, svc *Service) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = origCls.Name
	}
	if tid := core.CleanString(uc.TeacherID); tid != "" {
		uc.TeacherID = tid
	} else {
		uc.TeacherID = origCls.TeacherID
	}

	if err := core.ValidateStruct(uc); err != nil {
		return err
	}
	return svc.checkUniqueness(ctx, uc.Name, origCls)
}
