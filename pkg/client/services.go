package client

// Set bundles the platform's service HTTP clients for consumers that
// orchestrate across them.
type Set struct {
	Schedules    *ScheduleClient
	Orders       *OrderClient
	AutoServices *AutoServiceClient
}

func NewSet(schedulesURL, ordersURL, autoServicesURL string) *Set {
	return &Set{
		Schedules:    NewScheduleClient(schedulesURL),
		Orders:       NewOrderClient(ordersURL),
		AutoServices: NewAutoServiceClient(autoServicesURL),
	}
}
