package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/mahudhurio/core"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		part, total int
		want        float64
	}{
		{part: 0, total: 0, want: 0},
		{part: 0, total: 3, want: 0},
		{part: 3, total: 3, want: 100},
		{part: 2, total: 3, want: 66.67},
		{part: 1, total: 3, want: 33.33},
		{part: 1, total: 8, want: 12.5},
		{part: 1, total: 6, want: 16.67},
		{part: 5, total: 9, want: 55.56},
		{part: 1, total: 2000, want: 0.05}, // 0.05 exactly
		{part: 1, total: 4000, want: 0.03}, // 0.025 rounds half up
		{part: 1, total: 20001, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, percent(tt.part, tt.total), "percent(%d, %d)", tt.part, tt.total)
	}
}

func TestComputeStats(t *testing.T) {
	records := []Record{
		{ID: "1", Date: "2024-01-15", RegNo: "S1", Status: Present},
		{ID: "2", Date: "2024-01-15", RegNo: "S2", Status: Present},
		{ID: "3", Date: "2024-01-15", RegNo: "S3", Status: Absent},
		{ID: "4", Date: "2024-01-16", RegNo: "S1", Status: Absent},
	}

	stats, err := computeStats(records)
	assert.NoError(t, err)
	assert.Equal(t, Stats{TotalDays: 2, PresentDays: 2, AbsentDays: 2, AttendanceRate: 50}, stats)

	stats, err = computeStats(nil)
	assert.NoError(t, err)
	assert.Equal(t, Stats{}, stats)

	_, err = computeStats(append(records, Record{ID: "5", Date: "2024-01-16", Status: "LATE"}))
	assert.True(t, core.IsStore(err))
}

func TestSummarize(t *testing.T) {
	roster := []RosterEntry{{Status: Present}, {Status: Present}, {Status: Absent}}
	assert.Equal(t, RosterSummary{Total: 3, Present: 2, Absent: 1, Rate: 66.67}, Summarize(roster))
	assert.Equal(t, RosterSummary{}, Summarize(nil))
}
