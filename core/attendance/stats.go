package attendance

import (
	"fmt"

	"github.com/trezcool/mahudhurio/core"
)

// percent returns part/total as a percentage rounded half-up to 2 decimals.
// Integer arithmetic keeps 2/3 at exactly 66.67.
func percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	hundredths := (part*20000 + total) / (2 * total)
	return float64(hundredths) / 100
}

// computeStats counts records, not days: the rate is PRESENT records over all records.
func computeStats(records []Record) (Stats, error) {
	var stats Stats
	days := make(map[string]struct{})
	for _, rec := range records {
		switch rec.Status {
		case Present:
			stats.PresentDays++
		case Absent:
			stats.AbsentDays++
		default:
			return Stats{}, core.NewStoreError("computing stats", fmt.Errorf("record %s has invalid status %q", rec.ID, rec.Status))
		}
		days[rec.Date] = struct{}{}
	}
	stats.TotalDays = len(days)
	stats.AttendanceRate = percent(stats.PresentDays, stats.PresentDays+stats.AbsentDays)
	return stats, nil
}

// Summarize counts the statuses of a roster.
func Summarize(roster []RosterEntry) RosterSummary {
	var sum RosterSummary
	for _, re := range roster {
		switch re.Status {
		case Present:
			sum.Present++
		case Absent:
			sum.Absent++
		default:
			continue
		}
		sum.Total++
	}
	sum.Rate = percent(sum.Present, sum.Total)
	return sum
}
