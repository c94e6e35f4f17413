package model

import "time"

const (
	ScheduleTypeWeekly  = "weekly"
	ScheduleTypeMonthly = "monthly"
	ScheduleTypeCustom  = "custom"
)

// WorkSchedule describes when a master is on shift. StartDate/EndDate bound
// the period ("" means open-ended on that side), CustomDays carries the
// "1,3,5" ISO weekday list for the custom type and is ignored otherwise.
type WorkSchedule struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	MasterID     string    `json:"master_id" bson:"master_id" validate:"required,mongodb"`
	ScheduleType string    `json:"schedule_type" bson:"schedule_type" validate:"required,oneof=weekly monthly custom"`
	StartDate    string    `json:"start_date,omitempty" bson:"start_date" validate:"omitempty,valid_date"`
	EndDate      string    `json:"end_date,omitempty" bson:"end_date" validate:"omitempty,valid_date"`
	CustomDays   string    `json:"custom_days,omitempty" bson:"custom_days" validate:"omitempty,max=30"`
	StartTime    string    `json:"start_time" bson:"start_time" validate:"required,valid_clock"`
	EndTime      string    `json:"end_time" bson:"end_time" validate:"required,valid_clock"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type WorkScheduleUpdate struct {
	ScheduleType string  `json:"schedule_type,omitempty" validate:"omitempty,oneof=weekly monthly custom"`
	StartDate    *string `json:"start_date,omitempty" validate:"omitempty"`
	EndDate      *string `json:"end_date,omitempty" validate:"omitempty"`
	CustomDays   *string `json:"custom_days,omitempty" validate:"omitempty,max=30"`
	StartTime    string  `json:"start_time,omitempty" validate:"omitempty,valid_clock"`
	EndTime      string  `json:"end_time,omitempty" validate:"omitempty,valid_clock"`
	IsActive     *bool   `json:"is_active,omitempty" validate:"omitempty"`
}

// Period returns the schedule bounds in a shape the conflict checks consume,
// with "" meaning unbounded on that side.
func (s *WorkSchedule) Period() (start, end string) {
	return s.StartDate, s.EndDate
}

// CoversDate reports whether date (a DateLayout string) falls inside the
// schedule period. Open-ended sides always match. ISO date strings order
// lexicographically, so plain comparisons are enough here.
func (s *WorkSchedule) CoversDate(date string) bool {
	if s.StartDate != "" && date < s.StartDate {
		return false
	}
	if s.EndDate != "" && date > s.EndDate {
		return false
	}
	return true
}
