package attendance

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/student"
)

type Status string

// Statuses
const (
	Present Status = "PRESENT"
	Absent  Status = "ABSENT"
)

// ParseStatus accepts "present" or "absent" in any case.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(core.CleanString(s)))
	if !status.Valid() {
		err := errors.Errorf("invalid status %q: must be PRESENT or ABSENT", s)
		return "", core.NewValidationError(err, core.FieldError{Field: "status", Error: err.Error()})
	}
	return status, nil
}

func (s Status) Valid() bool {
	switch s {
	case Present, Absent:
		return true
	default:
		return false
	}
}

func (s Status) String() string { return string(s) }

func (s *Status) UnmarshalText(text []byte) error {
	status, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// Record is one stored (class, date, student, status) fact.
// The store holds at most one Record per (ClassID, Date, RegNo).
type Record struct {
	ID          string `json:"id" db:"id"`
	ClassID     string `json:"class_id" db:"class_id"`
	Date        string `json:"date" db:"date"` // YYYY-MM-DD
	RegNo       string `json:"reg_no" db:"reg_no"`
	StudentName string `json:"student_name" db:"student_name"`
	Status      Status `json:"status" db:"status"`
}

// RosterEntry pairs an enrolled student with its resolved status for one day.
type RosterEntry struct {
	Student student.Student `json:"student"`
	Status  Status          `json:"status"`
}

// Entry is one line of a full-day commit.
type Entry struct {
	RegNo  string `json:"reg_no" validate:"required"`
	Status Status `json:"status" validate:"required,attstatus"`
}

// EntriesFromRoster turns a (possibly edited) roster into a commit set.
func EntriesFromRoster(roster []RosterEntry) []Entry {
	entries := make([]Entry, 0, len(roster))
	for _, re := range roster {
		entries = append(entries, Entry{RegNo: re.Student.RegNo, Status: re.Status})
	}
	return entries
}

// DateRange is an inclusive [Start, End] filter on record dates. Empty bounds are open.
type DateRange struct {
	Start string `json:"start" validate:"omitempty,isodate"`
	End   string `json:"end" validate:"omitempty,isodate"`
}

// Contains compares ISO dates lexically.
func (r DateRange) Contains(date string) bool {
	if r.Start != "" && date < r.Start {
		return false
	}
	if r.End != "" && date > r.End {
		return false
	}
	return true
}

func (r *DateRange) clean() error {
	r.Start = core.CleanString(r.Start)
	r.End = core.CleanString(r.End)
	if err := core.ValidateStruct(r); err != nil {
		return err
	}
	if r.Start != "" && r.End != "" && r.Start > r.End {
		err := errors.New("start must not be after end")
		return core.NewValidationError(err, core.FieldError{Field: "start", Error: err.Error()})
	}
	return nil
}

// Stats aggregates records of a class (or a student) over a date range.
// TotalDays counts distinct dates; PresentDays and AbsentDays count records.
type Stats struct {
	TotalDays      int     `json:"totalDays"`
	PresentDays    int     `json:"presentDays"`
	AbsentDays     int     `json:"absentDays"`
	AttendanceRate float64 `json:"attendanceRate"` // percentage of PRESENT records
}

// RosterSummary holds the live counts of a roster being edited.
type RosterSummary struct {
	Total   int     `json:"total"`
	Present int     `json:"present"`
	Absent  int     `json:"absent"`
	Rate    float64 `json:"rate"`
}

type dayKey struct {
	ClassID string `json:"class_id" validate:"required"`
	Date    string `json:"date" validate:"required,isodate"`
}

func (k dayKey) String() string { return k.ClassID + "|" + k.Date }

type dayCommit struct {
	ClassID string  `json:"class_id" validate:"required"`
	Date    string  `json:"date" validate:"required,isodate"`
	Entries []Entry `json:"entries" validate:"required,min=1,unique=RegNo,dive"`
}

type statusUpdate struct {
	RecordID string `json:"record_id" validate:"required"`
	Status   Status `json:"status" validate:"required,attstatus"`
}
