package model

// AvailabilityStatus answers "is this master working at that moment" together
// with the schedule that produced the answer. ScheduleID is empty when no
// applicable schedule exists, which is a normal state and not an error.
type AvailabilityStatus struct {
	MasterID   string `json:"master_id"`
	Date       string `json:"date"`
	Time       string `json:"time,omitempty"`
	Working    bool   `json:"working"`
	ScheduleID string `json:"schedule_id,omitempty"`
}

// ScheduleConflict describes an existing schedule a new one collides with.
// The colliding period is always included so callers can report exactly
// which dates are already covered.
type ScheduleConflict struct {
	ScheduleID string `json:"schedule_id"`
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Weekdays   string `json:"weekdays"`
}

// OrderConflict describes an already-assigned order occupying the requested
// interval of the master's day.
type OrderConflict struct {
	OrderID   string `json:"order_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
}

// Assignment rejection reasons.
const (
	ReasonMasterNotWorking = "master_not_working"
	ReasonOrderConflict    = "order_conflict"
)

// AssignmentDecision is the verdict on placing an order with a master. A
// disallowed decision is a business outcome that travels in response bodies,
// not an application error.
type AssignmentDecision struct {
	Allowed        bool            `json:"allowed"`
	Reason         string          `json:"reason,omitempty"`
	ScheduleID     string          `json:"schedule_id,omitempty"`
	OrderConflicts []OrderConflict `json:"order_conflicts,omitempty"`
}
