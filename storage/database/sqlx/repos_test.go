package sqlxrepos_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/student"
	sqlxrepos "github.com/trezcool/mahudhurio/storage/database/sqlx"
	"github.com/trezcool/mahudhurio/tests"
)

type repos struct {
	classes    class.Repository
	students   student.Repository
	attendance attendance.Repository
}

func setup(t *testing.T) repos {
	db := testutil.PrepareSQLDB(t)
	return repos{
		classes:    sqlxrepos.NewClassRepository(db),
		students:   sqlxrepos.NewStudentRepository(db),
		attendance: sqlxrepos.NewAttendanceRepository(db),
	}
}

func TestClassRepository(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	cs := testutil.CreateClass(t, r.classes, "CS101", "t-1")
	testutil.CreateClass(t, r.classes, "Maths", "t-2")
	testutil.CreateClass(t, r.classes, "Art", "t-1")

	_, err := r.classes.CreateClass(ctx, class.Class{Name: "cs101", TeacherID: "t-3"})
	assert.Equal(t, class.ErrNameExists, err)

	assert.Equal(t, class.ErrNameExists, r.classes.CheckNameUniqueness(ctx, "CS101"))
	assert.NoError(t, r.classes.CheckNameUniqueness(ctx, "cs101", cs))
	assert.NoError(t, r.classes.CheckNameUniqueness(ctx, "Physics"))

	all, err := r.classes.QueryClasses(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Art", all[0].Name)

	mine, err := r.classes.QueryClasses(ctx, "t-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	got, err := r.classes.GetClassByID(ctx, cs.ID)
	require.NoError(t, err)
	assert.Equal(t, cs, got)

	got, err = r.classes.GetClassByName(ctx, "cs101")
	require.NoError(t, err)
	assert.Equal(t, cs, got)

	_, err = r.classes.GetClassByID(ctx, "nope")
	assert.True(t, core.IsNotFound(err), "error: %v", err)

	cs.TeacherID = "t-9"
	_, err = r.classes.UpdateClass(ctx, cs)
	require.NoError(t, err)
	got, err = r.classes.GetClassByID(ctx, cs.ID)
	require.NoError(t, err)
	assert.Equal(t, "t-9", got.TeacherID)

	_, err = r.classes.UpdateClass(ctx, class.Class{ID: cs.ID, Name: "MATHS", TeacherID: "t-9"})
	assert.Equal(t, class.ErrNameExists, err)
	_, err = r.classes.UpdateClass(ctx, class.Class{ID: "nope", Name: "X", TeacherID: "t"})
	assert.True(t, core.IsNotFound(err), "error: %v", err)

	require.NoError(t, r.classes.DeleteClass(ctx, cs.ID))
	assert.True(t, core.IsNotFound(r.classes.DeleteClass(ctx, cs.ID)))
}

func TestStudentRepository(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	cs := testutil.CreateClass(t, r.classes, "CS_1", "t-1")
	maths := testutil.CreateClass(t, r.classes, "Maths", "t-1")

	alice := testutil.CreateStudent(t, r.students, cs.ID, "Alice", "CS_12024001", "1")
	testutil.CreateStudent(t, r.students, cs.ID, "Bob", "CS_12024002", "2")
	testutil.CreateStudent(t, r.students, maths.ID, "Carol", "MATH2024001", "1")
	testutil.CreateStudent(t, r.students, maths.ID, "Dan", "CSX12024001", "2") // '_' must not act as a wildcard

	_, err := r.students.CreateStudent(ctx, student.Student{Name: "Dup", RegNo: "CS_12024001", RollNumber: "3", ClassID: cs.ID})
	assert.Equal(t, student.ErrRegNoExists, err)
	_, err = r.students.CreateStudent(ctx, student.Student{Name: "Dup", RegNo: "CS_12024003", RollNumber: "2", ClassID: cs.ID})
	assert.Equal(t, student.ErrRollNumberExists, err)

	assert.Equal(t, student.ErrRollNumberExists, r.students.CheckRollNumberUniqueness(ctx, cs.ID, "2"))
	assert.NoError(t, r.students.CheckRollNumberUniqueness(ctx, cs.ID, "1", alice))
	assert.NoError(t, r.students.CheckRollNumberUniqueness(ctx, cs.ID, "3"))

	regNos, err := r.students.QueryRegNos(ctx, "CS_12024")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"CS_12024001", "CS_12024002"}, regNos)

	students, err := r.students.QueryStudents(ctx, student.QueryFilter{ClassID: cs.ID})
	require.NoError(t, err)
	assert.Len(t, students, 2)
	all, err := r.students.QueryStudents(ctx, student.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	got, err := r.students.GetStudent(ctx, student.GetFilter{RegNo: "CS_12024001"})
	require.NoError(t, err)
	assert.Equal(t, alice, got)
	got, err = r.students.GetStudent(ctx, student.GetFilter{ID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, alice, got)
	_, err = r.students.GetStudent(ctx, student.GetFilter{RegNo: "nope"})
	assert.True(t, core.IsNotFound(err), "error: %v", err)
	_, err = r.students.GetStudent(ctx, student.GetFilter{})
	assert.True(t, core.IsNotFound(err), "error: %v", err)

	// reg no never changes
	alice.RegNo = "HACK2024001"
	alice.Name = "Alicia"
	alice.Gender = student.GenderFemale
	updated, err := r.students.UpdateStudent(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "CS_12024001", updated.RegNo)
	assert.Equal(t, "Alicia", updated.Name)
	assert.Equal(t, student.GenderFemale, updated.Gender)

	alice.RollNumber = "2"
	_, err = r.students.UpdateStudent(ctx, alice)
	assert.Equal(t, student.ErrRollNumberExists, err)

	require.NoError(t, r.students.DeleteStudent(ctx, alice.ID))
	assert.True(t, core.IsNotFound(r.students.DeleteStudent(ctx, alice.ID)))

	// deleting a class drops its students
	require.NoError(t, r.classes.DeleteClass(ctx, maths.ID))
	all, err = r.students.QueryStudents(ctx, student.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func day(date string, statuses map[string]attendance.Status) []attendance.Record {
	records := make([]attendance.Record, 0, len(statuses))
	for regNo, st := range statuses {
		records = append(records, attendance.Record{RegNo: regNo, StudentName: "Student " + regNo, Status: st})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].RegNo < records[j].RegNo })
	return records
}

func statuses(records []attendance.Record) map[string]attendance.Status {
	m := make(map[string]attendance.Status, len(records))
	for _, rec := range records {
		m[rec.RegNo] = rec.Status
	}
	return m
}

func TestAttendanceRepository(t *testing.T) {
	r := setup(t)
	repo := r.attendance
	ctx := context.Background()
	const (
		P = attendance.Present
		A = attendance.Absent
	)

	first := map[string]attendance.Status{"S1": P, "S2": A, "S3": P}
	saved, err := repo.ReplaceRecords(ctx, "c1", "2024-01-15", day("2024-01-15", first))
	require.NoError(t, err)
	require.Len(t, saved, 3)
	for _, rec := range saved {
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, "c1", rec.ClassID)
		assert.Equal(t, "2024-01-15", rec.Date)
	}

	_, err = repo.ReplaceRecords(ctx, "c1", "2024-01-16", day("2024-01-16", map[string]attendance.Status{"S1": A}))
	require.NoError(t, err)
	_, err = repo.ReplaceRecords(ctx, "c2", "2024-01-15", day("2024-01-15", map[string]attendance.Status{"S9": P}))
	require.NoError(t, err)

	t.Run("failed replace leaves the day untouched", func(t *testing.T) {
		dup := append(day("2024-01-15", map[string]attendance.Status{"S1": A}), attendance.Record{RegNo: "S1", Status: P})
		_, err := repo.ReplaceRecords(ctx, "c1", "2024-01-15", dup)
		assert.Error(t, err)

		invalid := day("2024-01-15", map[string]attendance.Status{"S1": "LATE"})
		_, err = repo.ReplaceRecords(ctx, "c1", "2024-01-15", invalid)
		assert.Error(t, err)

		got, err := repo.ReadRecords(ctx, "c1", "2024-01-15")
		require.NoError(t, err)
		assert.Equal(t, first, statuses(got))
	})

	t.Run("replace drops students left out", func(t *testing.T) {
		second := map[string]attendance.Status{"S1": A, "S2": P}
		_, err := repo.ReplaceRecords(ctx, "c1", "2024-01-15", day("2024-01-15", second))
		require.NoError(t, err)

		got, err := repo.ReadRecords(ctx, "c1", "2024-01-15")
		require.NoError(t, err)
		assert.Equal(t, second, statuses(got))
		assert.Equal(t, "Student S1", got[0].StudentName)
	})

	t.Run("reads", func(t *testing.T) {
		inRange, err := repo.ReadRecordsInRange(ctx, "c1", attendance.DateRange{Start: "2024-01-16", End: "2024-01-16"})
		require.NoError(t, err)
		require.Len(t, inRange, 1)
		assert.Equal(t, "2024-01-16", inRange[0].Date)

		all, err := repo.ReadRecordsInRange(ctx, "c1", attendance.DateRange{})
		require.NoError(t, err)
		assert.Len(t, all, 3)

		before, err := repo.ReadRecordsInRange(ctx, "c1", attendance.DateRange{End: "2024-01-15"})
		require.NoError(t, err)
		assert.Len(t, before, 2)

		mine, err := repo.ReadStudentRecords(ctx, "S1")
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, "2024-01-15", mine[0].Date)

		none, err := repo.ReadRecords(ctx, "c3", "2024-01-15")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("update record", func(t *testing.T) {
		got, err := repo.ReadRecords(ctx, "c1", "2024-01-16")
		require.NoError(t, err)
		require.Len(t, got, 1)

		rec, err := repo.UpdateRecord(ctx, got[0].ID, P)
		require.NoError(t, err)
		assert.Equal(t, P, rec.Status)
		assert.Equal(t, got[0].ID, rec.ID)
		assert.Equal(t, "S1", rec.RegNo)

		_, err = repo.UpdateRecord(ctx, "nope", P)
		assert.True(t, core.IsNotFound(err), "error: %v", err)
	})

	t.Run("clear day", func(t *testing.T) {
		_, err := repo.ReplaceRecords(ctx, "c1", "2024-01-16", nil)
		require.NoError(t, err)
		got, err := repo.ReadRecords(ctx, "c1", "2024-01-16")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
