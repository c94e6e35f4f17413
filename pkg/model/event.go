package model

import "time"

// Event types carried in the event-type message header and the payload.
const (
	EventScheduleCreated = "schedule.created"
	EventScheduleUpdated = "schedule.updated"
	EventScheduleDeleted = "schedule.deleted"

	EventOrderCreated  = "order.created"
	EventOrderUpdated  = "order.updated"
	EventOrderAssigned = "order.assigned"
	EventOrderDeleted  = "order.deleted"
)

// ScheduleEvent announces a change to a master's work schedule. Consumers
// key invalidation off MasterID.
type ScheduleEvent struct {
	Type       string    `json:"type"`
	ScheduleID string    `json:"schedule_id"`
	MasterID   string    `json:"master_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// OrderEvent announces a change to an order. MasterID is empty until the
// order has been assigned.
type OrderEvent struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	AutoServiceID string    `json:"auto_service_id"`
	MasterID      string    `json:"master_id,omitempty"`
	Date          string    `json:"date,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
