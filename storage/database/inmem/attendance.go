package inmemdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

type attendanceRepository struct {
	db    *attendanceTable
	fails func(op string) error
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance, fails: db.maybeFail}
}

func dayKey(classID, date string) string {
	return classID + "|" + date
}

func (repo *attendanceRepository) filter(keep func(rec *attendance.Record) bool) []attendance.Record {
	records := make([]attendance.Record, 0)
	for _, rec := range repo.db.table {
		if keep(rec) {
			records = append(records, *rec)
		}
	}
	return records
}

func (repo *attendanceRepository) ReadRecords(_ context.Context, classID, date string) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	day := repo.db.days[dayKey(classID, date)]
	records := make([]attendance.Record, 0, len(day))
	for _, id := range day {
		records = append(records, *repo.db.table[id])
	}
	return records, nil
}

func (repo *attendanceRepository) ReadRecordsInRange(_ context.Context, classID string, rng attendance.DateRange) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return repo.filter(func(rec *attendance.Record) bool {
		return rec.ClassID == classID && rng.Contains(rec.Date)
	}), nil
}

func (repo *attendanceRepository) ReadStudentRecords(_ context.Context, regNo string) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return repo.filter(func(rec *attendance.Record) bool {
		return rec.RegNo == regNo
	}), nil
}

func (repo *attendanceRepository) ReplaceRecords(_ context.Context, classID, date string, records []attendance.Record) ([]attendance.Record, error) {
	if err := repo.fails("replacing records"); err != nil {
		return nil, err
	}

	// build the new day before touching the table
	day := make(map[string]string, len(records))
	committed := make([]attendance.Record, 0, len(records))
	for _, rec := range records {
		if _, dup := day[rec.RegNo]; dup {
			return nil, fmt.Errorf("duplicate record for %s on %s", rec.RegNo, date)
		}
		rec.ID = uuid.New().String()
		rec.ClassID = classID
		rec.Date = date
		day[rec.RegNo] = rec.ID
		committed = append(committed, rec)
	}

	repo.db.Lock()
	defer repo.db.Unlock()

	key := dayKey(classID, date)
	for _, id := range repo.db.days[key] {
		delete(repo.db.table, id)
	}
	for i := range committed {
		rec := committed[i]
		repo.db.table[rec.ID] = &rec
	}
	repo.db.days[key] = day
	return committed, nil
}

func (repo *attendanceRepository) UpdateRecord(_ context.Context, id string, status attendance.Status) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	rec, ok := repo.db.table[id]
	if !ok {
		return attendance.Record{}, core.NewNotFoundError("attendance record", id)
	}
	if err := repo.fails("updating record"); err != nil {
		return attendance.Record{}, err
	}
	rec.Status = status
	return *rec, nil
}
