package student_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/student"
	inmemdb "github.com/trezcool/mahudhurio/storage/database/inmem"
	sqlxrepos "github.com/trezcool/mahudhurio/storage/database/sqlx"
	"github.com/trezcool/mahudhurio/tests"
)

func setup(t *testing.T) (*student.Service, student.Repository, class.Class) {
	db := inmemdb.Open()
	clsRepo := inmemdb.NewClassRepository(db)
	repo := inmemdb.NewStudentRepository(db)
	svc := student.NewService(repo, class.NewService(clsRepo))
	cls := testutil.CreateClass(t, clsRepo, "CS 101", "t-1")
	testutil.CreateClass(t, clsRepo, "Maths", "t-1")

	reset := student.SetNow(func() time.Time { return time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC) })
	t.Cleanup(reset)
	return svc, repo, cls
}

func TestService_Create(t *testing.T) {
	svc, _, cls := setup(t)
	ctx := context.Background()

	std, err := svc.Create(ctx, student.NewStudent{
		Name:        " Alice ",
		RollNumber:  "1",
		ClassID:     cls.ID,
		DateOfBirth: "2010-05-04",
		Gender:      student.GenderFemale,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, std.ID)
	assert.Equal(t, "Alice", std.Name)
	assert.Equal(t, "CS102024001", std.RegNo)

	std2, err := svc.Create(ctx, student.NewStudent{Name: "Bob", RollNumber: "2", ClassID: cls.ID})
	require.NoError(t, err)
	assert.Equal(t, "CS102024002", std2.RegNo)

	tests := []struct {
		name      string
		ns        student.NewStudent
		wantKind  string
		wantField string
	}{
		{name: "no name", ns: student.NewStudent{RollNumber: "3", ClassID: cls.ID}, wantKind: core.KindValidation, wantField: "name"},
		{name: "no roll", ns: student.NewStudent{Name: "Dan", ClassID: cls.ID}, wantKind: core.KindValidation, wantField: "roll_number"},
		{name: "no class", ns: student.NewStudent{Name: "Dan", RollNumber: "3"}, wantKind: core.KindValidation, wantField: "class_id"},
		{name: "unknown class", ns: student.NewStudent{Name: "Dan", RollNumber: "3", ClassID: "nope"}, wantKind: core.KindValidation, wantField: "class_id"},
		{name: "duplicate roll", ns: student.NewStudent{Name: "Dan", RollNumber: "2", ClassID: cls.ID}, wantKind: core.KindValidation, wantField: "roll_number"},
		{name: "invalid roll", ns: student.NewStudent{Name: "Dan", RollNumber: "3-a", ClassID: cls.ID}, wantKind: core.KindValidation, wantField: "roll_number"},
		{name: "invalid dob", ns: student.NewStudent{Name: "Dan", RollNumber: "3", ClassID: cls.ID, DateOfBirth: "04/05/2010"}, wantKind: core.KindValidation, wantField: "date_of_birth"},
		{name: "invalid gender", ns: student.NewStudent{Name: "Dan", RollNumber: "3", ClassID: cls.ID, Gender: "M"}, wantKind: core.KindValidation, wantField: "gender"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.ns)
			assert.Equal(t, tt.wantKind, core.KindOf(err), "error: %v", err)

			var vErr *core.ValidationError
			if assert.True(t, errors.As(err, &vErr)) {
				assert.Equal(t, tt.wantField, vErr.Fields[0].Field)
			}
		})
	}
}

func TestService_Create_serialReuse(t *testing.T) {
	svc, repo, cls := setup(t)
	ctx := context.Background()

	// a deleted student frees its serial
	testutil.CreateStudent(t, repo, cls.ID, "Old", "CS102024001", "9")
	old3 := testutil.CreateStudent(t, repo, cls.ID, "Older", "CS102024003", "8")
	require.NoError(t, svc.Delete(ctx, old3.ID))

	std, err := svc.Create(ctx, student.NewStudent{Name: "Alice", RollNumber: "1", ClassID: cls.ID})
	require.NoError(t, err)
	assert.Equal(t, "CS102024002", std.RegNo)

	std, err = svc.Create(ctx, student.NewStudent{Name: "Bob", RollNumber: "2", ClassID: cls.ID})
	require.NoError(t, err)
	assert.Equal(t, "CS102024003", std.RegNo)
}

func TestService_GetEnrolledStudents(t *testing.T) {
	svc, repo, cls := setup(t)
	ctx := context.Background()

	testutil.CreateStudent(t, repo, cls.ID, "Carol", "R3", "10")
	testutil.CreateStudent(t, repo, cls.ID, "Alice", "R1", "1")
	testutil.CreateStudent(t, repo, cls.ID, "Bob", "R2", "2")
	testutil.CreateStudent(t, repo, "other-class", "Eve", "R9", "1")

	students, err := svc.GetEnrolledStudents(ctx, cls.ID)
	require.NoError(t, err)
	require.Len(t, students, 3)
	assert.Equal(t, "R1", students[0].RegNo)
	assert.Equal(t, "R2", students[1].RegNo)
	assert.Equal(t, "R3", students[2].RegNo)

	_, err = svc.GetEnrolledStudents(ctx, "nope")
	assert.True(t, core.IsNotFound(err), "error: %v", err)

	all, err := svc.QueryAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestService_GetStudent(t *testing.T) {
	svc, repo, cls := setup(t)
	ctx := context.Background()
	std := testutil.CreateStudent(t, repo, cls.ID, "Alice", "R1", "1")

	got, err := svc.GetStudentByRegNo(ctx, " R1 ")
	require.NoError(t, err)
	assert.Equal(t, std, got)

	got, err = svc.GetByID(ctx, std.ID)
	require.NoError(t, err)
	assert.Equal(t, std, got)

	for _, key := range []string{"", "nope"} {
		_, err = svc.GetStudentByRegNo(ctx, key)
		assert.True(t, core.IsNotFound(err), "GetStudentByRegNo(%q) error: %v", key, err)
		_, err = svc.GetByID(ctx, key)
		assert.True(t, core.IsNotFound(err), "GetByID(%q) error: %v", key, err)
	}
}

func TestService_Update(t *testing.T) {
	svc, repo, cls := setup(t)
	ctx := context.Background()
	alice := testutil.CreateStudent(t, repo, cls.ID, "Alice", "R1", "1")
	testutil.CreateStudent(t, repo, cls.ID, "Bob", "R2", "2")

	t.Run("keeps empty fields", func(t *testing.T) {
		std, err := svc.Update(ctx, alice.ID, student.UpdateStudent{GuardianName: "Eve"})
		require.NoError(t, err)
		assert.Equal(t, "Alice", std.Name)
		assert.Equal(t, "1", std.RollNumber)
		assert.Equal(t, "Eve", std.GuardianName)
		assert.Equal(t, "R1", std.RegNo)
	})

	t.Run("renumber", func(t *testing.T) {
		std, err := svc.Update(ctx, alice.ID, student.UpdateStudent{RollNumber: "3"})
		require.NoError(t, err)
		assert.Equal(t, "3", std.RollNumber)
	})

	t.Run("same roll is not a duplicate of itself", func(t *testing.T) {
		_, err := svc.Update(ctx, alice.ID, student.UpdateStudent{Name: "Alicia", RollNumber: "3"})
		require.NoError(t, err)
	})

	t.Run("duplicate roll", func(t *testing.T) {
		_, err := svc.Update(ctx, alice.ID, student.UpdateStudent{RollNumber: "2"})
		assert.True(t, core.IsValidation(err), "error: %v", err)
	})

	t.Run("unknown class", func(t *testing.T) {
		_, err := svc.Update(ctx, alice.ID, student.UpdateStudent{ClassID: "nope"})
		assert.True(t, core.IsValidation(err), "error: %v", err)
	})

	t.Run("unknown student", func(t *testing.T) {
		_, err := svc.Update(ctx, "nope", student.UpdateStudent{Name: "X"})
		assert.True(t, core.IsNotFound(err), "error: %v", err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, alice.ID))
		_, err := svc.GetByID(ctx, alice.ID)
		assert.True(t, core.IsNotFound(err), "error: %v", err)
		assert.True(t, core.IsNotFound(svc.Delete(ctx, alice.ID)))
	})
}

// slowClasses answers like a remote lookup would.
type slowClasses struct {
	student.ClassGetter
}

func (c slowClasses) GetByID(ctx context.Context, id string) (class.Class, error) {
	time.Sleep(time.Millisecond)
	return c.ClassGetter.GetByID(ctx, id)
}

func TestService_Create_concurrent(t *testing.T) {
	db := inmemdb.Open()
	clsRepo := inmemdb.NewClassRepository(db)
	svc := student.NewService(inmemdb.NewStudentRepository(db), slowClasses{class.NewService(clsRepo)})
	cls := testutil.CreateClass(t, clsRepo, "CS 101", "t-1")
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Create(ctx, student.NewStudent{Name: fmt.Sprintf("Student %d", i), RollNumber: "7", ClassID: cls.ID})
			if err != nil {
				assert.True(t, core.IsValidation(err), "error: %v", err)
				return
			}
			mu.Lock()
			created++
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, created)

	students, err := svc.GetEnrolledStudents(ctx, cls.ID)
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

// lateRepo skips the roll number pre-check, as if another enrolment landed right after it.
type lateRepo struct {
	student.Repository
}

func (lateRepo) CheckRollNumberUniqueness(context.Context, string, string, ...student.Student) error {
	return nil
}

func TestService_rollNumberConstraint(t *testing.T) {
	db := testutil.PrepareSQLDB(t)
	clsRepo := sqlxrepos.NewClassRepository(db)
	svc := student.NewService(lateRepo{sqlxrepos.NewStudentRepository(db)}, class.NewService(clsRepo))
	cls := testutil.CreateClass(t, clsRepo, "CS 101", "t-1")
	ctx := context.Background()

	_, err := svc.Create(ctx, student.NewStudent{Name: "Alice", RollNumber: "1", ClassID: cls.ID})
	require.NoError(t, err)
	bob, err := svc.Create(ctx, student.NewStudent{Name: "Bob", RollNumber: "2", ClassID: cls.ID})
	require.NoError(t, err)

	tests := []struct {
		name string
		call func() error
	}{
		{name: "create", call: func() error {
			_, err := svc.Create(ctx, student.NewStudent{Name: "Carol", RollNumber: "1", ClassID: cls.ID})
			return err
		}},
		{name: "update", call: func() error {
			_, err := svc.Update(ctx, bob.ID, student.UpdateStudent{RollNumber: "1"})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.True(t, core.IsValidation(err), "error: %v", err)

			var vErr *core.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, "roll_number", vErr.Fields[0].Field)
		})
	}
}
