package flows

import (
	"fmt"

	"grafik/internal/dispatch/core"
	"grafik/pkg/model"
)

// masterDayFlow assembles a master's day sheet: the applicable schedule, the
// intervals already taken by orders and the free slots still open for the
// requested duration. Every free slot carries a sealed token that the
// assign_order flow accepts in place of a raw master id.
func masterDayFlow(deps *Deps) core.Flow {
	return core.Flow{
		Name: "master_day",
		Steps: []core.Step{
			{
				Name: "load_inputs",
				Execute: func(ctx *core.FlowContext) error {
					masterID, err := ctx.RequireString("master_id")
					if err != nil {
						return err
					}
					date, err := ctx.RequireString("date")
					if err != nil {
						return err
					}
					if _, err := model.ParseDate(date); err != nil {
						return core.BadInputErr("param [date] must be a YYYY-MM-DD date")
					}

					durationMin := deps.DefaultDurationMin
					if v, ok := ctx.ExtractInt("duration_min"); ok {
						if v <= 0 {
							return core.BadInputErr("param [duration_min] must be positive")
						}
						durationMin = v
					}

					ctx.Process["master_id"] = masterID
					ctx.Process["date"] = date
					ctx.Process["duration_min"] = durationMin
					return nil
				},
			},
			{
				Name: "fetch_schedule",
				Execute: func(ctx *core.FlowContext) error {
					masterID := ctx.Process["master_id"].(string)
					date := ctx.Process["date"].(string)

					schedules, err := deps.Schedules.ActiveForMaster(ctx.Ctx, masterID)
					if err != nil {
						return fmt.Errorf("schedule lookup failed: %w", err)
					}

					if s := applicableSchedule(schedules, date); s != nil {
						ctx.Process["schedule"] = s
					}
					return nil
				},
			},
			{
				Name: "fetch_orders",
				Execute: func(ctx *core.FlowContext) error {
					if _, working := ctx.Process["schedule"]; !working {
						return nil
					}
					masterID := ctx.Process["master_id"].(string)
					date := ctx.Process["date"].(string)

					orders, err := fetchMasterOrders(deps, masterID, date)
					if err != nil {
						return err
					}
					ctx.Process["orders"] = orders
					return nil
				},
			},
			{
				Name: "compute_day",
				Execute: func(ctx *core.FlowContext) error {
					masterID := ctx.Process["master_id"].(string)
					date := ctx.Process["date"].(string)

					ctx.Output["master_id"] = masterID
					ctx.Output["date"] = date

					raw, working := ctx.Process["schedule"]
					if !working {
						ctx.Output["working"] = false
						ctx.Output["busy"] = []model.OrderConflict{}
						ctx.Output["free_slots"] = []daySlot{}
						return nil
					}

					s := raw.(*model.WorkSchedule)
					durationMin := ctx.Process["duration_min"].(int)
					orders, _ := ctx.Process["orders"].([]model.Order)

					slots := freeSlots(s, date, orders, durationMin, deps.SlotStepMin, deps.DefaultDurationMin)
					for i := range slots {
						token, err := deps.Sealer.SealSlot(masterID, date, slots[i].StartTime)
						if err != nil {
							return fmt.Errorf("could not seal slot token: %w", err)
						}
						slots[i].SlotToken = token
					}
					if slots == nil {
						slots = []daySlot{}
					}

					busy := busyIntervals(date, orders, deps.DefaultDurationMin)
					if busy == nil {
						busy = []model.OrderConflict{}
					}

					ctx.Output["working"] = true
					ctx.Output["schedule_id"] = s.ID
					if s.StartTime != "" && s.EndTime != "" {
						ctx.Output["start_time"] = s.StartTime
						ctx.Output["end_time"] = s.EndTime
					}
					ctx.Output["busy"] = busy
					ctx.Output["free_slots"] = slots
					return nil
				},
			},
		},
	}
}
