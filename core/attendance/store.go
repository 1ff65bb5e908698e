package attendance

import (
	"context"

	"github.com/trezcool/mahudhurio/core/student"
)

type (
	// Repository is the persistence collaborator holding attendance records.
	// Implementations assign record IDs and keep (ClassID, Date, RegNo) unique.
	Repository interface {
		ReadRecords(ctx context.Context, classID, date string) ([]Record, error)
		ReadRecordsInRange(ctx context.Context, classID string, rng DateRange) ([]Record, error)
		ReadStudentRecords(ctx context.Context, regNo string) ([]Record, error)
		// ReplaceRecords atomically swaps every record of (classID, date) for records.
		// It either fully succeeds or leaves the day untouched.
		ReplaceRecords(ctx context.Context, classID, date string, records []Record) ([]Record, error)
		// UpdateRecord sets the status of an existing record. It never creates one.
		UpdateRecord(ctx context.Context, id string, status Status) (Record, error)
	}

	// Directory resolves class rosters. Unknown classes and students yield a core.NotFoundError.
	Directory interface {
		GetEnrolledStudents(ctx context.Context, classID string) ([]student.Student, error)
		GetStudentByRegNo(ctx context.Context, regNo string) (student.Student, error)
	}
)
