package class

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/mahudhurio/core"
)

var (
	// errors
	ErrNameExists = errors.New("a class with this name already exists")

	suggestMinSim = .6
	suggestLimit  = 3
)

type (
	Repository interface {
		// CheckNameUniqueness returns ErrNameExists if another class (not in excluded) uses name.
		CheckNameUniqueness(ctx context.Context, name string, excluded ...Class) error
		CreateClass(ctx context.Context, cls Class) (Class, error)
		QueryClasses(ctx context.Context, teacherID string) ([]Class, error)
		GetClassByID(ctx context.Context, id string) (Class, error)
		GetClassByName(ctx context.Context, name string) (Class, error)
		UpdateClass(ctx context.Context, cls Class) (Class, error)
		DeleteClass(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(ctx context.Context, name string, excluded ...Class) error {
	if err := svc.repo.CheckNameUniqueness(ctx, name, excluded...); err != nil {
		if err == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nc NewClass) (Class, error) {
	if err := nc.Validate(ctx, svc); err != nil {
		return Class{}, err
	}
	return svc.repo.CreateClass(ctx, Class{Name: nc.Name, TeacherID: nc.TeacherID})
}

// QueryByTeacher lists the classes of a teacher, all classes if teacherID is empty.
func (svc *Service) QueryByTeacher(ctx context.Context, teacherID string) ([]Class, error) {
	classes, err := svc.repo.QueryClasses(ctx, core.CleanString(teacherID))
	if err != nil {
		return nil, err
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Class, error) {
	if id = core.CleanString(id); id == "" {
		return Class{}, core.NewNotFoundError("class", id)
	}
	return svc.repo.GetClassByID(ctx, id)
}

func (svc *Service) GetByName(ctx context.Context, name string) (Class, error) {
	return svc.repo.GetClassByName(ctx, core.CleanString(name))
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateClass) (Class, error) {
	orig, err := svc.GetByID(ctx, id)
	if err != nil {
		return Class{}, err
	}
	if err := uc.Validate(ctx, orig, svc); err != nil {
		return Class{}, err
	}
	orig.Name = uc.Name
	orig.TeacherID = uc.TeacherID
	return svc.repo.UpdateClass(ctx, orig)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteClass(ctx, id)
}

// Suggest returns up to 3 class names resembling name, most similar first.
func (svc *Service) Suggest(ctx context.Context, name string) ([]string, error) {
	name = strings.ToLower(core.CleanString(name))
	if name == "" {
		return nil, nil
	}
	classes, err := svc.repo.QueryClasses(ctx, "")
	if err != nil {
		return nil, err
	}

	type match struct {
		name  string
		ratio float64
	}
	matches := make([]match, 0, len(classes))
	for _, cls := range classes {
		ratio := difflib.NewMatcher(
			strings.Split(name, ""),
			strings.Split(strings.ToLower(cls.Name), ""),
		).Ratio()
		if ratio >= suggestMinSim {
			matches = append(matches, match{name: cls.Name, ratio: ratio})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].ratio == matches[j].ratio {
			return matches[i].name < matches[j].name
		}
		return matches[i].ratio > matches[j].ratio
	})

	if len(matches) > suggestLimit {
		matches = matches[:suggestLimit]
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.name)
	}
	return names, nil
}
