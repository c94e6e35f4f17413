package flows

import (
	"errors"
	"testing"

	"grafik/internal/dispatch/core"
	"grafik/pkg/model"
)

func testRoster() []*model.Master {
	return []*model.Master{
		{ID: testMasterID, AutoServiceID: testAutoServiceID, FullName: "Ivan Petrov", Specialization: "engine", IsActive: true},
		{ID: otherMasterID, AutoServiceID: testAutoServiceID, FullName: "Pavel Sidorov", Specialization: "brakes", IsActive: true},
		{ID: thirdMasterID, AutoServiceID: testAutoServiceID, FullName: "Semyon Orlov", Specialization: "engine", IsActive: true},
	}
}

func TestFindMastersFlow(t *testing.T) {
	t.Run("returns only masters free at the requested time", func(t *testing.T) {
		backend := newFakeBackend()
		backend.roster = testRoster()
		backend.schedules[testMasterID] = []*model.WorkSchedule{weeklySchedule(testMasterID, "09:00", "18:00")}
		backend.schedules[thirdMasterID] = []*model.WorkSchedule{weeklySchedule(thirdMasterID, "09:00", "18:00")}
		backend.orders[thirdMasterID] = []*model.Order{confirmedOrder(otherOrderID, thirdMasterID, monday, "10:00", 60)}
		deps := newTestDeps(t, backend)

		ctx, err := runFlow(t, deps, "find_masters", map[string]any{
			"auto_service_id": testAutoServiceID,
			"date":            monday,
			"time":            "10:00",
		})
		if err != nil {
			t.Fatalf("flow failed: %v", err)
		}

		masters := ctx.Output["masters"].([]availableMaster)
		if len(masters) != 1 || masters[0].MasterID != testMasterID {
			t.Fatalf("masters = %+v", masters)
		}
		if masters[0].ScheduleID != testScheduleID {
			t.Fatalf("schedule_id = %q", masters[0].ScheduleID)
		}

		masterID, date, clock, err := deps.Sealer.ParseSlot(masters[0].SlotToken)
		if err != nil || masterID != testMasterID || date != monday || clock != "10:00" {
			t.Fatalf("token round-tripped to %s %s %s, %v", masterID, date, clock, err)
		}

		if ctx.Output["masters_checked"] != 3 {
			t.Fatalf("masters_checked = %v", ctx.Output["masters_checked"])
		}
		if ctx.Output["checks_failed"] != 0 {
			t.Fatalf("checks_failed = %v", ctx.Output["checks_failed"])
		}
	})

	t.Run("a day query checks no orders and seals no tokens", func(t *testing.T) {
		backend := newFakeBackend()
		backend.roster = testRoster()
		backend.schedules[testMasterID] = []*model.WorkSchedule{weeklySchedule(testMasterID, "09:00", "18:00")}
		backend.schedules[thirdMasterID] = []*model.WorkSchedule{weeklySchedule(thirdMasterID, "09:00", "18:00")}
		backend.orders[thirdMasterID] = []*model.Order{confirmedOrder(otherOrderID, thirdMasterID, monday, "10:00", 60)}
		deps := newTestDeps(t, backend)

		ctx, err := runFlow(t, deps, "find_masters", map[string]any{
			"auto_service_id": testAutoServiceID,
			"date":            monday,
		})
		if err != nil {
			t.Fatalf("flow failed: %v", err)
		}

		masters := ctx.Output["masters"].([]availableMaster)
		if len(masters) != 2 {
			t.Fatalf("masters = %+v", masters)
		}
		if masters[0].FullName != "Ivan Petrov" || masters[1].FullName != "Semyon Orlov" {
			t.Fatalf("masters are not sorted by name: %+v", masters)
		}
		for _, m := range masters {
			if m.SlotToken != "" {
				t.Fatalf("day query sealed a token for %s", m.MasterID)
			}
		}
		if backend.orderSearchCalls != 0 {
			t.Fatalf("orders were searched %d times without a time filter", backend.orderSearchCalls)
		}
	})

	t.Run("a failing schedule lookup skips the master and counts it", func(t *testing.T) {
		backend := newFakeBackend()
		backend.roster = testRoster()
		backend.schedules[testMasterID] = []*model.WorkSchedule{weeklySchedule(testMasterID, "09:00", "18:00")}
		backend.schedules[thirdMasterID] = []*model.WorkSchedule{weeklySchedule(thirdMasterID, "09:00", "18:00")}
		backend.scheduleFailFor[thirdMasterID] = true
		deps := newTestDeps(t, backend)

		ctx, err := runFlow(t, deps, "find_masters", map[string]any{
			"auto_service_id": testAutoServiceID,
			"date":            monday,
		})
		if err != nil {
			t.Fatalf("flow failed: %v", err)
		}

		masters := ctx.Output["masters"].([]availableMaster)
		if len(masters) != 1 || masters[0].MasterID != testMasterID {
			t.Fatalf("masters = %+v", masters)
		}
		if ctx.Output["checks_failed"] != 1 {
			t.Fatalf("checks_failed = %v", ctx.Output["checks_failed"])
		}
	})

	t.Run("specialization filters are sanitized before the roster call", func(t *testing.T) {
		backend := newFakeBackend()
		deps := newTestDeps(t, backend)

		_, err := runFlow(t, deps, "find_masters", map[string]any{
			"auto_service_id": testAutoServiceID,
			"date":            monday,
			"specializations": "Engine Repair, BRAKES",
		})
		if err != nil {
			t.Fatalf("flow failed: %v", err)
		}

		if got := backend.masterQuery.Get("specializations"); got != "engine-repair,brakes" {
			t.Fatalf("specializations forwarded as %q", got)
		}
		if got := backend.masterQuery.Get("active"); got != "true" {
			t.Fatalf("active forwarded as %q", got)
		}
	})

	t.Run("input mistakes are flagged as bad input", func(t *testing.T) {
		backend := newFakeBackend()
		deps := newTestDeps(t, backend)

		cases := []struct {
			name  string
			input map[string]any
		}{
			{"missing auto_service_id", map[string]any{"date": monday}},
			{"missing date", map[string]any{"auto_service_id": testAutoServiceID}},
			{"malformed time", map[string]any{"auto_service_id": testAutoServiceID, "date": monday, "time": "25:77"}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := runFlow(t, deps, "find_masters", tc.input)
				if !errors.Is(err, core.ErrBadInput) {
					t.Fatalf("expected a bad input error, got %v", err)
				}
			})
		}
	})
}
