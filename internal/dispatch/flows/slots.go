package flows

import (
	"fmt"
	"net/http"
	"sort"

	"grafik/internal/availability"
	"grafik/pkg/model"
)

// daySlot is one bookable opening in a master's day.
type daySlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	SlotToken string `json:"slot_token,omitempty"`
}

// applicableSchedule picks the first schedule covering the date. The cache
// hands schedules back oldest first, so the pick matches what the schedules
// service itself would answer.
func applicableSchedule(schedules []*model.WorkSchedule, date string) *model.WorkSchedule {
	for _, s := range schedules {
		if availability.IsWorkingDay(s, date) {
			return s
		}
	}
	return nil
}

// busyIntervals lists the occupying orders of the day as closed intervals,
// sorted by start time. Orders with unparsable times are skipped the same way
// the overlap scan skips them.
func busyIntervals(date string, orders []model.Order, defaultDurationMin int) []model.OrderConflict {
	var busy []model.OrderConflict
	for i := range orders {
		o := &orders[i]
		if !o.OccupiesMaster() || o.PreferredDate != date {
			continue
		}
		startMin, err := model.ParseClock(o.PreferredTime)
		if err != nil {
			continue
		}
		busy = append(busy, model.OrderConflict{
			OrderID:   o.ID,
			Date:      o.PreferredDate,
			StartTime: model.FormatClock(startMin),
			EndTime:   model.FormatClock(startMin + o.EffectiveDurationMin(defaultDurationMin)),
			Status:    o.Status,
		})
	}
	sort.Slice(busy, func(i, j int) bool {
		if busy[i].StartTime != busy[j].StartTime {
			return busy[i].StartTime < busy[j].StartTime
		}
		return busy[i].OrderID < busy[j].OrderID
	})
	return busy
}

// freeSlots walks the schedule's daily window in stepMin increments and keeps
// every start where a durationMin placement ends inside the window without
// touching an occupying order. Day-level schedules have no window and yield
// no slots; unparsable stored windows are treated the same way.
func freeSlots(s *model.WorkSchedule, date string, orders []model.Order, durationMin, stepMin, defaultDurationMin int) []daySlot {
	if s.StartTime == "" || s.EndTime == "" {
		return nil
	}
	windowStart, err := model.ParseClock(s.StartTime)
	if err != nil {
		return nil
	}
	windowEnd, err := model.ParseClock(s.EndTime)
	if err != nil {
		return nil
	}

	var slots []daySlot
	for start := windowStart; start+durationMin <= windowEnd; start += stepMin {
		if len(availability.FindOrderOverlaps(date, start, durationMin, "", orders, defaultDurationMin)) > 0 {
			continue
		}
		slots = append(slots, daySlot{
			StartTime: model.FormatClock(start),
			EndTime:   model.FormatClock(start + durationMin),
		})
	}
	return slots
}

// fetchMasterOrders pulls every order filed for the master on the date. The
// overlap scan filters by status itself, so no status filter is pushed down.
func fetchMasterOrders(deps *Deps, masterID, date string) ([]model.Order, error) {
	var orders []model.Order
	var offset int64
	for {
		resp, err := deps.Clients.Orders.Search("", masterID, date, "", fetchPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("orders search failed: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("orders search answered %d", resp.StatusCode)
		}
		page, meta, err := deps.Clients.Orders.DecodeOrders(resp)
		if err != nil {
			return nil, err
		}
		for _, o := range page {
			orders = append(orders, *o)
		}
		offset += int64(len(page))
		if len(page) == 0 || offset >= meta.TotalCount {
			return orders, nil
		}
	}
}
