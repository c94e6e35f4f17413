package flows

import (
	"fmt"
	"net/http"

	"grafik/internal/availability"
	"grafik/internal/dispatch/core"
	"grafik/pkg/model"
)

// assignOrderFlow places an order with a master. The caller names the master
// directly or hands back a slot token from master_day; a token that points at
// a different date or time than the order moves the order there first. A
// read-side precheck against the cached schedules runs before the orders
// service is asked, so obviously doomed assignments never spend the write
// call. The orders service stays the authority: its verdict is marked
// authoritative, a precheck verdict is not.
func assignOrderFlow(deps *Deps) core.Flow {
	return core.Flow{
		Name: "assign_order",
		Steps: []core.Step{
			{
				Name: "load_inputs",
				Execute: func(ctx *core.FlowContext) error {
					orderID, err := ctx.RequireString("order_id")
					if err != nil {
						return err
					}

					masterID := ctx.ExtractString("master_id")
					token := ctx.ExtractString("slot_token")
					switch {
					case masterID == "" && token == "":
						return core.BadInputErr("one of [master_id] or [slot_token] is required")
					case masterID != "" && token != "":
						return core.BadInputErr("params [master_id] and [slot_token] are mutually exclusive")
					}

					if token != "" {
						tokenMaster, tokenDate, tokenClock, err := deps.Sealer.ParseSlot(token)
						if err != nil {
							return core.BadInputErr("param [slot_token] is not a valid slot token")
						}
						masterID = tokenMaster
						ctx.Process["token_date"] = tokenDate
						ctx.Process["token_clock"] = tokenClock
					}

					ctx.Process["order_id"] = orderID
					ctx.Process["master_id"] = masterID
					return nil
				},
			},
			{
				Name: "fetch_order",
				Execute: func(ctx *core.FlowContext) error {
					orderID := ctx.Process["order_id"].(string)

					resp, err := deps.Clients.Orders.GetByID(orderID)
					if err != nil {
						return fmt.Errorf("order lookup failed: %w", err)
					}
					switch resp.StatusCode {
					case http.StatusOK:
					case http.StatusNotFound:
						return core.BadInputErr("order %s does not exist", orderID)
					case http.StatusBadRequest:
						return core.BadInputErr("param [order_id] is not a valid id")
					default:
						return fmt.Errorf("orders service answered %d", resp.StatusCode)
					}

					ord, err := deps.Clients.Orders.DecodeOrder(resp)
					if err != nil {
						return err
					}
					ctx.Process["order"] = ord
					return nil
				},
			},
			{
				Name: "reschedule",
				Execute: func(ctx *core.FlowContext) error {
					tokenDate, hasToken := ctx.Process["token_date"].(string)
					if !hasToken {
						return nil
					}
					tokenClock := ctx.Process["token_clock"].(string)
					ord := ctx.Process["order"].(*model.Order)
					if ord.PreferredDate == tokenDate && ord.PreferredTime == tokenClock {
						return nil
					}

					resp, err := deps.Clients.Orders.Update(ord.ID, model.OrderUpdate{
						PreferredDate: tokenDate,
						PreferredTime: tokenClock,
					})
					if err != nil {
						return fmt.Errorf("order reschedule failed: %w", err)
					}
					switch resp.StatusCode {
					case http.StatusNoContent, http.StatusOK:
					case http.StatusConflict:
						return core.BadInputErr("the slot is no longer available for this order")
					default:
						return fmt.Errorf("orders service answered %d to reschedule", resp.StatusCode)
					}

					ord.PreferredDate = tokenDate
					ord.PreferredTime = tokenClock
					ctx.Process["rescheduled"] = true
					deps.Log.Info("Order moved to slot before assignment",
						"order_id", ord.ID,
						"date", tokenDate,
						"time", tokenClock,
					)
					return nil
				},
			},
			{
				Name: "precheck",
				Execute: func(ctx *core.FlowContext) error {
					ord := ctx.Process["order"].(*model.Order)
					masterID := ctx.Process["master_id"].(string)

					schedules, err := deps.Schedules.ActiveForMaster(ctx.Ctx, masterID)
					if err != nil {
						return fmt.Errorf("schedule lookup failed: %w", err)
					}

					s := applicableSchedule(schedules, ord.PreferredDate)
					if s == nil || !availability.IsWorkingAtTime(s, ord.PreferredDate, ord.PreferredTime) {
						decision := &model.AssignmentDecision{
							Allowed: false,
							Reason:  model.ReasonMasterNotWorking,
						}
						if s != nil {
							decision.ScheduleID = s.ID
						}
						ctx.Process["precheck"] = decision
						return nil
					}

					orders, err := fetchMasterOrders(deps, masterID, ord.PreferredDate)
					if err != nil {
						return err
					}
					startMin, err := model.ParseClock(ord.PreferredTime)
					if err != nil {
						return core.BadInputErr("order %s carries an unparsable preferred time", ord.ID)
					}
					conflicts := availability.FindOrderOverlaps(
						ord.PreferredDate,
						startMin,
						ord.EffectiveDurationMin(deps.DefaultDurationMin),
						ord.ID,
						orders,
						deps.DefaultDurationMin,
					)
					if len(conflicts) > 0 {
						ctx.Process["precheck"] = &model.AssignmentDecision{
							Allowed:        false,
							Reason:         model.ReasonOrderConflict,
							ScheduleID:     s.ID,
							OrderConflicts: conflicts,
						}
						return nil
					}
					return nil
				},
			},
			{
				Name: "assign",
				Execute: func(ctx *core.FlowContext) error {
					ord := ctx.Process["order"].(*model.Order)
					masterID := ctx.Process["master_id"].(string)
					_, rescheduled := ctx.Process["rescheduled"]

					ctx.Output["order_id"] = ord.ID
					ctx.Output["master_id"] = masterID
					ctx.Output["rescheduled"] = rescheduled

					if raw, rejected := ctx.Process["precheck"]; rejected {
						decision := raw.(*model.AssignmentDecision)
						deps.Log.Info("Assignment skipped, read-side precheck rejected",
							"order_id", ord.ID,
							"master_id", masterID,
							"reason", decision.Reason,
						)
						writeDecision(ctx, decision, false)
						return nil
					}

					resp, err := deps.Clients.Orders.Assign(ord.ID, masterID)
					if err != nil {
						return fmt.Errorf("assign call failed: %w", err)
					}
					switch resp.StatusCode {
					case http.StatusOK:
					case http.StatusBadRequest, http.StatusNotFound:
						return core.BadInputErr("orders service rejected the assignment request with status %d", resp.StatusCode)
					default:
						return fmt.Errorf("orders service answered %d to assign", resp.StatusCode)
					}

					decision, err := deps.Clients.Orders.DecodeDecision(resp)
					if err != nil {
						return err
					}
					writeDecision(ctx, decision, true)
					return nil
				},
			},
		},
	}
}

// writeDecision copies an assignment decision into the flow output. The
// authoritative flag tells callers whether the orders service ruled or only
// the read-side precheck did.
func writeDecision(ctx *core.FlowContext, d *model.AssignmentDecision, authoritative bool) {
	ctx.Output["allowed"] = d.Allowed
	ctx.Output["authoritative"] = authoritative
	if d.Reason != "" {
		ctx.Output["reason"] = d.Reason
	}
	if d.ScheduleID != "" {
		ctx.Output["schedule_id"] = d.ScheduleID
	}
	if len(d.OrderConflicts) > 0 {
		ctx.Output["order_conflicts"] = d.OrderConflicts
	}
}
