package kafka

// Topics shared by the schedule and order services (producers) and the
// dispatch service (consumer). Every topic ships with a DLQ counterpart.
const (
	TopicScheduleEvents    = "schedule-events"
	TopicScheduleEventsDLQ = "dlq-schedule-events"

	TopicOrderEvents    = "order-events"
	TopicOrderEventsDLQ = "dlq-order-events"
)
