package validator

import (
	"strings"
	"testing"
	"time"

	"grafik/pkg/logger"
	"grafik/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func validSchedule() *model.WorkSchedule {
	return &model.WorkSchedule{
		MasterID:     "507f1f77bcf86cd799439011",
		ScheduleType: model.ScheduleTypeWeekly,
		StartDate:    "2025-01-01",
		EndDate:      "2025-12-31",
		StartTime:    "09:00",
		EndTime:      "18:00",
		IsActive:     true,
	}
}

func TestValidateClockWindow(t *testing.T) {
	v := NewWorkScheduleValidator(testLogger())

	tests := []struct {
		name      string
		startTime string
		endTime   string
		wantError bool
	}{
		{name: "standard business hours", startTime: "09:00", endTime: "18:00", wantError: false},
		{name: "exactly twelve hours", startTime: "08:00", endTime: "20:00", wantError: false},
		{name: "one minute over twelve hours", startTime: "08:00", endTime: "20:01", wantError: true},
		{name: "exactly one hour", startTime: "09:00", endTime: "10:00", wantError: false},
		{name: "one minute under an hour", startTime: "09:00", endTime: "09:59", wantError: true},
		{name: "end before start", startTime: "18:00", endTime: "09:00", wantError: true},
		{name: "zero-length window", startTime: "09:00", endTime: "09:00", wantError: true},
		{name: "hour out of range", startTime: "25:00", endTime: "18:00", wantError: true},
		{name: "accepts hour without leading zero", startTime: "9:00", endTime: "18:00", wantError: false},
		{name: "dash instead of colon", startTime: "09-00", endTime: "18:00", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := validSchedule()
			ws.StartTime = tt.startTime
			ws.EndTime = tt.endTime

			err := v.Validate(ws)
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidatePeriod(t *testing.T) {
	v := NewWorkScheduleValidator(testLogger())

	tests := []struct {
		name      string
		startDate string
		endDate   string
		wantError bool
	}{
		{name: "ordinary year", startDate: "2025-01-01", endDate: "2025-12-31", wantError: false},
		{name: "single day period", startDate: "2025-06-01", endDate: "2025-06-01", wantError: false},
		{name: "end precedes start", startDate: "2025-06-01", endDate: "2025-05-31", wantError: true},
		{name: "exactly 365 days", startDate: "2025-01-01", endDate: "2026-01-01", wantError: false},
		{name: "366 days", startDate: "2025-01-01", endDate: "2026-01-02", wantError: true},
		{name: "open-ended start", startDate: "", endDate: "2025-12-31", wantError: false},
		{name: "open-ended end", startDate: "2025-01-01", endDate: "", wantError: false},
		{name: "fully open-ended", startDate: "", endDate: "", wantError: false},
		{name: "impossible calendar date", startDate: "2025-13-45", endDate: "", wantError: true},
		{name: "wrong date format", startDate: "01/01/2025", endDate: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := validSchedule()
			ws.StartDate = tt.startDate
			ws.EndDate = tt.endDate

			err := v.Validate(ws)
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateCustomDays(t *testing.T) {
	v := NewWorkScheduleValidator(testLogger())

	tests := []struct {
		name         string
		scheduleType string
		customDays   string
		wantError    bool
	}{
		{name: "valid custom days", scheduleType: model.ScheduleTypeCustom, customDays: "1,3,5", wantError: false},
		{name: "custom without days", scheduleType: model.ScheduleTypeCustom, customDays: "", wantError: true},
		{name: "non-numeric token", scheduleType: model.ScheduleTypeCustom, customDays: "x,3", wantError: true},
		{name: "weekday zero", scheduleType: model.ScheduleTypeCustom, customDays: "0,3", wantError: true},
		{name: "weekday eight", scheduleType: model.ScheduleTypeCustom, customDays: "8", wantError: true},
		{name: "all seven days is valid input", scheduleType: model.ScheduleTypeCustom, customDays: "1,2,3,4,5,6,7", wantError: false},
		{name: "spaces around tokens", scheduleType: model.ScheduleTypeCustom, customDays: " 1 , 3 ,5 ", wantError: false},
		{name: "weekly ignores custom days", scheduleType: model.ScheduleTypeWeekly, customDays: "garbage", wantError: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := validSchedule()
			ws.ScheduleType = tt.scheduleType
			ws.CustomDays = tt.customDays

			err := v.Validate(ws)
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateRequiredFields(t *testing.T) {
	v := NewWorkScheduleValidator(testLogger())

	tests := []struct {
		name     string
		mutate   func(ws *model.WorkSchedule)
		errorMsg string
	}{
		{
			name:     "missing master_id",
			mutate:   func(ws *model.WorkSchedule) { ws.MasterID = "" },
			errorMsg: "MasterID",
		},
		{
			name:     "master_id not an object ID",
			mutate:   func(ws *model.WorkSchedule) { ws.MasterID = "not-an-object-id" },
			errorMsg: "MasterID",
		},
		{
			name:     "missing schedule_type",
			mutate:   func(ws *model.WorkSchedule) { ws.ScheduleType = "" },
			errorMsg: "ScheduleType",
		},
		{
			name:     "unknown schedule_type",
			mutate:   func(ws *model.WorkSchedule) { ws.ScheduleType = "quarterly" },
			errorMsg: "ScheduleType",
		},
		{
			name:     "missing start_time",
			mutate:   func(ws *model.WorkSchedule) { ws.StartTime = "" },
			errorMsg: "StartTime",
		},
		{
			name:     "missing end_time",
			mutate:   func(ws *model.WorkSchedule) { ws.EndTime = "" },
			errorMsg: "EndTime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := validSchedule()
			tt.mutate(ws)

			err := v.Validate(ws)
			if err == nil {
				t.Fatal("Validate() expected an error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("expected error to mention %q, got %q", tt.errorMsg, err.Error())
			}
		})
	}
}

func TestValidateCreateRejectsPastStart(t *testing.T) {
	v := NewWorkScheduleValidator(testLogger())

	yesterday := model.DateString(time.Now().AddDate(0, 0, -1))
	today := model.DateString(time.Now())
	tomorrow := model.DateString(time.Now().AddDate(0, 0, 1))

	tests := []struct {
		name      string
		startDate string
		wantError bool
	}{
		{name: "yesterday", startDate: yesterday, wantError: true},
		{name: "today", startDate: today, wantError: false},
		{name: "tomorrow", startDate: tomorrow, wantError: false},
		{name: "open-ended start", startDate: "", wantError: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := validSchedule()
			ws.StartDate = tt.startDate
			ws.EndDate = ""

			err := v.ValidateCreate(ws)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateCreate() error = %v, wantError %v", err, tt.wantError)
			}

			// The same schedule must stay editable regardless of how old
			// its start date is.
			if err := v.Validate(ws); err != nil {
				t.Errorf("Validate() on stored schedule = %v, want nil", err)
			}
		})
	}
}
