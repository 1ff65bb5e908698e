package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

const recordColumns = "id, class_id, date, reg_no, student_name, status"

type attendanceRepository struct {
	db core.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db core.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo attendanceRepository) selectRecords(ctx context.Context, exec core.DBExecutor, where string, args ...interface{}) ([]attendance.Record, error) {
	records := make([]attendance.Record, 0)
	q := "SELECT " + recordColumns + " FROM attendance_records WHERE " + where
	q += orderBy(
		core.DBOrdering{Field: "date", Ascending: true},
		core.DBOrdering{Field: "reg_no", Ascending: true},
	)
	if err := sqlx.SelectContext(ctx, exec, &records, exec.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	return records, nil
}

func (repo attendanceRepository) ReadRecords(ctx context.Context, classID, date string) ([]attendance.Record, error) {
	return repo.selectRecords(ctx, repo.db, "class_id = ? AND date = ?", classID, date)
}

func (repo attendanceRepository) ReadRecordsInRange(ctx context.Context, classID string, rng attendance.DateRange) ([]attendance.Record, error) {
	where := "class_id = ?"
	args := []interface{}{classID}
	if rng.Start != "" {
		where += " AND date >= ?"
		args = append(args, rng.Start)
	}
	if rng.End != "" {
		where += " AND date <= ?"
		args = append(args, rng.End)
	}
	return repo.selectRecords(ctx, repo.db, where, args...)
}

func (repo attendanceRepository) ReadStudentRecords(ctx context.Context, regNo string) ([]attendance.Record, error) {
	return repo.selectRecords(ctx, repo.db, "reg_no = ?", regNo)
}

func (repo attendanceRepository) ReplaceRecords(ctx context.Context, classID, date string, records []attendance.Record) ([]attendance.Record, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}
	defer rollback(tx)

	q := tx.Rebind("DELETE FROM attendance_records WHERE class_id = ? AND date = ?")
	if _, err = tx.ExecContext(ctx, q, classID, date); err != nil {
		return nil, errors.Wrap(err, "clearing attendance day")
	}

	saved := make([]attendance.Record, 0, len(records))
	insert := "INSERT INTO attendance_records (" + recordColumns + `) VALUES
		(:id, :class_id, :date, :reg_no, :student_name, :status)`
	for _, rec := range records {
		rec.ID = uuid.New().String()
		rec.ClassID = classID
		rec.Date = date
		if _, err = tx.NamedExecContext(ctx, insert, rec); err != nil {
			return nil, errors.Wrapf(err, "inserting attendance record of %s", rec.RegNo)
		}
		saved = append(saved, rec)
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing attendance day")
	}
	return saved, nil
}

func (repo attendanceRepository) UpdateRecord(ctx context.Context, id string, status attendance.Status) (attendance.Record, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "beginning transaction")
	}
	defer rollback(tx)

	res, err := tx.ExecContext(ctx, tx.Rebind("UPDATE attendance_records SET status = ? WHERE id = ?"), status, id)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "updating attendance record")
	}
	if err = checkAffected(res, "attendance record", id); err != nil {
		return attendance.Record{}, err
	}

	records, err := repo.selectRecords(ctx, tx, "id = ?", id)
	if err != nil {
		return attendance.Record{}, err
	}
	if len(records) == 0 {
		return attendance.Record{}, core.NewNotFoundError("attendance record", id)
	}

	if err = tx.Commit(); err != nil {
		return attendance.Record{}, errors.Wrap(err, "committing attendance record")
	}
	return records[0], nil
}
