package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/class"
)

const classColumns = "id, name, teacher_id"

type classRepository struct {
	db core.DB
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db core.DB) class.Repository {
	return &classRepository{db: db}
}

func (repo classRepository) CheckNameUniqueness(ctx context.Context, name string, excluded ...class.Class) error {
	var ids []string
	q := repo.db.Rebind("SELECT id FROM classes WHERE LOWER(name) = LOWER(?)")
	if err := sqlx.SelectContext(ctx, repo.db, &ids, q, name); err != nil {
		return errors.Wrap(err, "checking class name uniqueness")
	}
	for _, id := range ids {
		if !isExcludedClass(id, excluded) {
			return class.ErrNameExists
		}
	}
	return nil
}

func (repo classRepository) CreateClass(ctx context.Context, cls class.Class) (class.Class, error) {
	cls.ID = uuid.New().String()
	q := "INSERT INTO classes (" + classColumns + ") VALUES (:id, :name, :teacher_id)"
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, cls); err != nil {
		if _, ok := uniqueViolation(err); ok {
			return class.Class{}, class.ErrNameExists
		}
		return class.Class{}, errors.Wrap(err, "inserting class")
	}
	return cls, nil
}

func (repo classRepository) QueryClasses(ctx context.Context, teacherID string) ([]class.Class, error) {
	classes := make([]class.Class, 0)
	q := "SELECT " + classColumns + " FROM classes"
	var args []interface{}
	if teacherID != "" {
		q += " WHERE teacher_id = ?"
		args = append(args, teacherID)
	}
	q += orderBy(core.DBOrdering{Field: "name", Ascending: true})

	if err := sqlx.SelectContext(ctx, repo.db, &classes, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	return classes, nil
}

func (repo classRepository) GetClassByID(ctx context.Context, id string) (class.Class, error) {
	var cls class.Class
	q := repo.db.Rebind("SELECT " + classColumns + " FROM classes WHERE id = ?")
	if err := sqlx.GetContext(ctx, repo.db, &cls, q, id); err != nil {
		return class.Class{}, trapNoRowsErr(err, "class", id, "finding class by ID")
	}
	return cls, nil
}

func (repo classRepository) GetClassByName(ctx context.Context, name string) (class.Class, error) {
	var cls class.Class
	q := repo.db.Rebind("SELECT " + classColumns + " FROM classes WHERE LOWER(name) = LOWER(?)")
	if err := sqlx.GetContext(ctx, repo.db, &cls, q, name); err != nil {
		return class.Class{}, trapNoRowsErr(err, "class", name, "finding class by name")
	}
	return cls, nil
}

func (repo classRepository) UpdateClass(ctx context.Context, cls class.Class) (class.Class, error) {
	q := "UPDATE classes SET name = :name, teacher_id = :teacher_id WHERE id = :id"
	res, err := sqlx.NamedExecContext(ctx, repo.db, q, cls)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return class.Class{}, class.ErrNameExists
		}
		return class.Class{}, errors.Wrap(err, "updating class")
	}
	if err = checkAffected(res, "class", cls.ID); err != nil {
		return class.Class{}, err
	}
	return cls, nil
}

func (repo classRepository) DeleteClass(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind("DELETE FROM classes WHERE id = ?"), id)
	if err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return checkAffected(res, "class", id)
}

func isExcludedClass(id string, excluded []class.Class) bool {
	for _, ex := range excluded {
		if ex.ID == id {
			return true
		}
	}
	return false
}
