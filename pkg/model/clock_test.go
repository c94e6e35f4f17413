package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "morning", input: "09:00", want: 9 * 60},
		{name: "midnight", input: "00:00", want: 0},
		{name: "last minute of day", input: "23:59", want: 23*60 + 59},
		{name: "hour out of range", input: "25:00", wantErr: true},
		{name: "missing minutes", input: "09", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "09:05", FormatClock(9*60+5))
	assert.Equal(t, "00:00", FormatClock(-10))
	assert.Equal(t, "23:59", FormatClock(24*60+30))
}

func TestWorkSchedule_CoversDate(t *testing.T) {
	tests := []struct {
		name     string
		schedule WorkSchedule
		date     string
		want     bool
	}{
		{
			name:     "inside bounded period",
			schedule: WorkSchedule{StartDate: "2026-03-01", EndDate: "2026-03-31"},
			date:     "2026-03-15",
			want:     true,
		},
		{
			name:     "start date itself counts",
			schedule: WorkSchedule{StartDate: "2026-03-01", EndDate: "2026-03-31"},
			date:     "2026-03-01",
			want:     true,
		},
		{
			name:     "end date itself counts",
			schedule: WorkSchedule{StartDate: "2026-03-01", EndDate: "2026-03-31"},
			date:     "2026-03-31",
			want:     true,
		},
		{
			name:     "before period",
			schedule: WorkSchedule{StartDate: "2026-03-01", EndDate: "2026-03-31"},
			date:     "2026-02-28",
			want:     false,
		},
		{
			name:     "after period",
			schedule: WorkSchedule{StartDate: "2026-03-01", EndDate: "2026-03-31"},
			date:     "2026-04-01",
			want:     false,
		},
		{
			name:     "open ended both sides matches everything",
			schedule: WorkSchedule{},
			date:     "1999-01-01",
			want:     true,
		},
		{
			name:     "open start bounded end",
			schedule: WorkSchedule{EndDate: "2026-03-31"},
			date:     "2026-04-01",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.schedule.CoversDate(tt.date))
		})
	}
}

func TestOrder_OccupiesMaster(t *testing.T) {
	assert.True(t, (&Order{Status: OrderStatusConfirmed}).OccupiesMaster())
	assert.True(t, (&Order{Status: OrderStatusInProgress}).OccupiesMaster())
	assert.False(t, (&Order{Status: OrderStatusNew}).OccupiesMaster())
	assert.False(t, (&Order{Status: OrderStatusCompleted}).OccupiesMaster())
	assert.False(t, (&Order{Status: OrderStatusCancelled}).OccupiesMaster())
}

func TestOrder_EffectiveDurationMin(t *testing.T) {
	assert.Equal(t, 90, (&Order{EstimatedDurationMin: 90}).EffectiveDurationMin(60))
	assert.Equal(t, 60, (&Order{}).EffectiveDurationMin(60))
}
