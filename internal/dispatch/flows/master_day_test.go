package flows

import (
	"errors"
	"testing"

	"grafik/internal/dispatch/core"
	"grafik/pkg/model"
)

func TestMasterDayFlow(t *testing.T) {
	t.Run("computes busy intervals and sealed free slots", func(t *testing.T) {
		backend := newFakeBackend()
		backend.schedules[testMasterID] = []*model.WorkSchedule{weeklySchedule(testMasterID, "09:00", "12:00")}
		backend.orders[testMasterID] = []*model.Order{confirmedOrder(testOrderID, testMasterID, monday, "10:00", 60)}
		deps := newTestDeps(t, backend)

		ctx, err := runFlow(t, deps, "master_day", map[string]any{
			"master_id": testMasterID,
			"date":      monday,
		})
		if err != nil {
			t.Fatalf("flow failed: %v", err)
		}

		if ctx.Output["working"] != true {
			t.Fatalf("working = %v", ctx.Output["working"])
		}
		if ctx.Output["schedule_id"] != testScheduleID {
			t.Fatalf("schedule_id = %v", ctx.Output["schedule_id"])
		}
		if ctx.Output["start_time"] != "09:00" || ctx.Output["end_time"] != "12:00" {
			t.Fatalf("window = %v-%v", ctx.Output["start_time"], ctx.Output["end_time"])
		}

		busy := ctx.Output["busy"].([]model.OrderConflict)
		if len(busy) != 1 || busy[0].OrderID != testOrderID || busy[0].StartTime != "10:00" || busy[0].EndTime != "11:00" {
			t.Fatalf("busy = %+v", busy)
		}

		slots := ctx.Output["free_slots"].([]daySlot)
		if len(slots) != 2 || slots[0].StartTime != "09:00" || slots[1].StartTime != "11:00" {
			t.Fatalf("free_slots = %+v", slots)
		}
		for _, slot := range slots {
			masterID, date, clock, err := deps.Sealer.ParseSlot(slot.SlotToken)
			if err != nil || masterID != testMasterID || date != monday || clock != slot.StartTime {
				t.Fatalf("token for %s round-tripped to %s %s %s, %v", slot.StartTime, masterID, date, clock, err)
			}
		}
	})

	t.Run("a day off skips the order fetch", func(t *testing.T) {
		backend := newFakeBackend()
		deps := newTestDeps(t, backend)

		ctx, err := runFlow(t, deps, "master_day", map[string]any{
			"master_id": testMasterID,
			"date":      monday,
		})
		if err != nil {
			t.Fatalf("flow failed: %v", err)
		}

		if ctx.Output["working"] != false {
			t.Fatalf("working = %v", ctx.Output["working"])
		}
		if len(ctx.Output["free_slots"].([]daySlot)) != 0 {
			t.Fatalf("free_slots = %v", ctx.Output["free_slots"])
		}
		if backend.orderSearchCalls != 0 {
			t.Fatalf("orders were fetched %d times for a day off", backend.orderSearchCalls)
		}
	})

	t.Run("a requested duration narrows the slots", func(t *testing.T) {
		backend := newFakeBackend()
		backend.schedules[testMasterID] = []*model.WorkSchedule{weeklySchedule(testMasterID, "09:00", "12:00")}
		deps := newTestDeps(t, backend)

		ctx, err := runFlow(t, deps, "master_day", map[string]any{
			"master_id":    testMasterID,
			"date":         monday,
			"duration_min": float64(180),
		})
		if err != nil {
			t.Fatalf("flow failed: %v", err)
		}

		slots := ctx.Output["free_slots"].([]daySlot)
		if len(slots) != 1 || slots[0].StartTime != "09:00" || slots[0].EndTime != "12:00" {
			t.Fatalf("free_slots = %+v", slots)
		}
	})

	t.Run("input mistakes are flagged as bad input", func(t *testing.T) {
		backend := newFakeBackend()
		deps := newTestDeps(t, backend)

		cases := []struct {
			name  string
			input map[string]any
		}{
			{"missing master_id", map[string]any{"date": monday}},
			{"missing date", map[string]any{"master_id": testMasterID}},
			{"malformed date", map[string]any{"master_id": testMasterID, "date": "16.03.2026"}},
			{"non-positive duration", map[string]any{"master_id": testMasterID, "date": monday, "duration_min": float64(-30)}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := runFlow(t, deps, "master_day", tc.input)
				if !errors.Is(err, core.ErrBadInput) {
					t.Fatalf("expected a bad input error, got %v", err)
				}
			})
		}
	})
}
