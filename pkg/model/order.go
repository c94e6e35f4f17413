package model

import "time"

const (
	OrderStatusNew        = "new"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// ActiveOrderStatuses are the statuses that occupy a master's time and take
// part in assignment conflict checks.
var ActiveOrderStatuses = []string{OrderStatusConfirmed, OrderStatusInProgress}

type Order struct {
	ID                   string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	AutoServiceID        string    `json:"auto_service_id" bson:"auto_service_id" validate:"required,mongodb"`
	MasterID             string    `json:"master_id,omitempty" bson:"master_id" validate:"omitempty,mongodb"`
	ClientName           string    `json:"client_name" bson:"client_name" validate:"required,min=2,max=100"`
	ClientPhone          string    `json:"client_phone" bson:"client_phone" validate:"required,e164"`
	CarInfo              string    `json:"car_info" bson:"car_info" validate:"required,min=2,max=200"`
	Description          string    `json:"description,omitempty" bson:"description" validate:"omitempty,max=2000"`
	PreferredDate        string    `json:"preferred_date" bson:"preferred_date" validate:"required,valid_date"`
	PreferredTime        string    `json:"preferred_time" bson:"preferred_time" validate:"required,valid_clock"`
	EstimatedDurationMin int       `json:"estimated_duration_min,omitempty" bson:"estimated_duration_min" validate:"omitempty,min=5,max=720"`
	Status               string    `json:"status" bson:"status" validate:"required,oneof=new confirmed in_progress completed cancelled"`
	CreatedAt            time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt            time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type OrderUpdate struct {
	MasterID             string  `json:"master_id,omitempty" validate:"omitempty,mongodb"`
	ClientName           string  `json:"client_name,omitempty" validate:"omitempty,min=2,max=100"`
	ClientPhone          string  `json:"client_phone,omitempty" validate:"omitempty,e164"`
	CarInfo              string  `json:"car_info,omitempty" validate:"omitempty,min=2,max=200"`
	Description          *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	PreferredDate        string  `json:"preferred_date,omitempty" validate:"omitempty,valid_date"`
	PreferredTime        string  `json:"preferred_time,omitempty" validate:"omitempty,valid_clock"`
	EstimatedDurationMin *int    `json:"estimated_duration_min,omitempty" validate:"omitempty,min=5,max=720"`
	Status               string  `json:"status,omitempty" validate:"omitempty,oneof=new confirmed in_progress completed cancelled"`
}

// IsOrderStatus reports whether s is one of the known order statuses.
func IsOrderStatus(s string) bool {
	switch s {
	case OrderStatusNew, OrderStatusConfirmed, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// OccupiesMaster reports whether the order blocks the assigned master's time.
func (o *Order) OccupiesMaster() bool {
	for _, s := range ActiveOrderStatuses {
		if o.Status == s {
			return true
		}
	}
	return false
}

// EffectiveDurationMin returns the order duration, falling back to the
// platform default when the field was never set.
func (o *Order) EffectiveDurationMin(defaultMin int) int {
	if o.EstimatedDurationMin > 0 {
		return o.EstimatedDurationMin
	}
	return defaultMin
}
