package attendance

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/student"
)

type Service struct {
	dir    Directory
	repo   Repository
	logger core.Logger
	locks  *keyLocks
}

func NewService(dir Directory, repo Repository, logger core.Logger) *Service {
	return &Service{
		dir:    dir,
		repo:   repo,
		logger: logger,
		locks:  newKeyLocks(),
	}
}

// storeErr keeps typed errors as they are and marks any other store failure as a core.StoreError.
func storeErr(op string, err error) error {
	if err == nil || core.IsTyped(err) {
		return err
	}
	return core.NewStoreError(op, err)
}

// ResolveRoster merges the class roster with the stored records of date.
// Students without a record are ABSENT; records of students no longer enrolled are ignored.
func (svc *Service) ResolveRoster(ctx context.Context, classID, date string) ([]RosterEntry, error) {
	key := dayKey{ClassID: core.CleanString(classID), Date: core.CleanString(date)}
	if err := core.ValidateStruct(key); err != nil {
		return nil, err
	}

	students, err := svc.dir.GetEnrolledStudents(ctx, key.ClassID)
	if err != nil {
		return nil, errors.Wrap(err, "getting enrolled students")
	}
	records, err := svc.repo.ReadRecords(ctx, key.ClassID, key.Date)
	if err != nil {
		return nil, storeErr("reading records", err)
	}

	statuses := make(map[string]Status, len(records))
	for _, rec := range records {
		statuses[rec.RegNo] = rec.Status
	}

	students = append([]student.Student(nil), students...)
	student.SortByRoll(students)

	roster := make([]RosterEntry, 0, len(students))
	for _, std := range students {
		status, ok := statuses[std.RegNo]
		if !ok {
			status = Absent
		}
		roster = append(roster, RosterEntry{Student: std, Status: status})
	}
	return roster, nil
}

// CommitDay replaces every record of (classID, date) with one record per entry.
// Commits on the same day are serialized; the last one to complete wins.
// Once the store is called, cancelling ctx no longer aborts the commit.
func (svc *Service) CommitDay(ctx context.Context, classID, date string, entries []Entry) ([]Record, error) {
	commit := dayCommit{
		ClassID: core.CleanString(classID),
		Date:    core.CleanString(date),
		Entries: cleanEntries(entries),
	}
	if err := core.ValidateStruct(commit); err != nil {
		return nil, err
	}

	students, err := svc.dir.GetEnrolledStudents(ctx, commit.ClassID)
	if err != nil {
		return nil, errors.Wrap(err, "getting enrolled students")
	}
	names := make(map[string]string, len(students))
	for _, std := range students {
		names[std.RegNo] = std.Name
	}

	records := make([]Record, 0, len(commit.Entries))
	for _, e := range commit.Entries {
		records = append(records, Record{
			ClassID:     commit.ClassID,
			Date:        commit.Date,
			RegNo:       e.RegNo,
			StudentName: names[e.RegNo],
			Status:      e.Status,
		})
	}

	key := dayKey{ClassID: commit.ClassID, Date: commit.Date}
	unlock := svc.locks.lock(key.String())
	defer unlock()

	committed, err := svc.repo.ReplaceRecords(context.WithoutCancel(ctx), commit.ClassID, commit.Date, records)
	if err != nil {
		err = storeErr("replacing records", err)
		svc.logger.Warn("attendance commit failed", err, map[string]interface{}{
			"class_id": commit.ClassID,
			"date":     commit.Date,
		})
		return nil, err
	}

	svc.logger.Info("attendance committed", map[string]interface{}{
		"class_id": commit.ClassID,
		"date":     commit.Date,
		"records":  len(committed),
	})
	return committed, nil
}

func cleanEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	cleaned := make([]Entry, 0, len(entries))
	for _, e := range entries {
		cleaned = append(cleaned, Entry{
			RegNo:  core.CleanString(e.RegNo),
			Status: Status(strings.ToUpper(core.CleanString(string(e.Status)))),
		})
	}
	return cleaned
}

// UpdateSingleStatus changes the status of one existing record, bypassing the roster.
func (svc *Service) UpdateSingleStatus(ctx context.Context, recordID string, status Status) (Record, error) {
	upd := statusUpdate{
		RecordID: core.CleanString(recordID),
		Status:   Status(strings.ToUpper(core.CleanString(string(status)))),
	}
	if err := core.ValidateStruct(upd); err != nil {
		return Record{}, err
	}

	rec, err := svc.repo.UpdateRecord(ctx, upd.RecordID, upd.Status)
	if err != nil {
		return Record{}, storeErr("updating record", err)
	}
	svc.logger.Info("attendance record updated", map[string]interface{}{
		"record_id": rec.ID,
		"status":    rec.Status,
	})
	return rec, nil
}

// ComputeStats aggregates the records of classID within rng (nil means all dates).
func (svc *Service) ComputeStats(ctx context.Context, classID string, rng *DateRange) (Stats, error) {
	key := struct {
		ClassID string `json:"class_id" validate:"required"`
	}{ClassID: core.CleanString(classID)}
	if err := core.ValidateStruct(key); err != nil {
		return Stats{}, err
	}
	var r DateRange
	if rng != nil {
		r = *rng
	}
	if err := r.clean(); err != nil {
		return Stats{}, err
	}

	records, err := svc.repo.ReadRecordsInRange(ctx, key.ClassID, r)
	if err != nil {
		return Stats{}, storeErr("reading records", err)
	}
	return computeStats(records)
}

// StudentHistory lists the records of one student, newest first.
func (svc *Service) StudentHistory(ctx context.Context, regNo string) ([]Record, error) {
	std, err := svc.dir.GetStudentByRegNo(ctx, regNo)
	if err != nil {
		return nil, errors.Wrap(err, "getting student")
	}
	records, err := svc.repo.ReadStudentRecords(ctx, std.RegNo)
	if err != nil {
		return nil, storeErr("reading records", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		return records[i].ClassID < records[j].ClassID
	})
	return records, nil
}

// StudentStats aggregates the records of one student within rng (nil means all dates).
func (svc *Service) StudentStats(ctx context.Context, regNo string, rng *DateRange) (Stats, error) {
	var r DateRange
	if rng != nil {
		r = *rng
	}
	if err := r.clean(); err != nil {
		return Stats{}, err
	}

	std, err := svc.dir.GetStudentByRegNo(ctx, regNo)
	if err != nil {
		return Stats{}, errors.Wrap(err, "getting student")
	}
	records, err := svc.repo.ReadStudentRecords(ctx, std.RegNo)
	if err != nil {
		return Stats{}, storeErr("reading records", err)
	}

	inRange := make([]Record, 0, len(records))
	for _, rec := range records {
		if r.Contains(rec.Date) {
			inRange = append(inRange, rec)
		}
	}
	return computeStats(inRange)
}
