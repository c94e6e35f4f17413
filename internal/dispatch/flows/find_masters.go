package flows

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"grafik/internal/availability"
	"grafik/internal/dispatch/core"
	"grafik/pkg/model"
	"grafik/pkg/sanitizer"
)

// availableMaster is one roster hit in the find_masters output.
type availableMaster struct {
	MasterID       string `json:"master_id"`
	FullName       string `json:"full_name"`
	Specialization string `json:"specialization,omitempty"`
	ScheduleID     string `json:"schedule_id"`
	SlotToken      string `json:"slot_token,omitempty"`
}

// findMastersFlow lists the masters of an auto service who can take a visit
// on a date, optionally at a specific time for a specific duration. The
// per-master checks fan out under the shared limiter; a master whose check
// fails is skipped and counted rather than sinking the whole flow.
func findMastersFlow(deps *Deps) core.Flow {
	return core.Flow{
		Name: "find_masters",
		Steps: []core.Step{
			{
				Name: "load_inputs",
				Execute: func(ctx *core.FlowContext) error {
					autoServiceID, err := ctx.RequireString("auto_service_id")
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

					clock := ctx.ExtractString("time")
					if clock != "" {
						if _, err := model.ParseClock(clock); err != nil {
							return core.BadInputErr("param [time] must be an HH:MM clock value")
						}
					}

					durationMin := deps.DefaultDurationMin
					if v, ok := ctx.ExtractInt("duration_min"); ok {
						if v <= 0 {
							return core.BadInputErr("param [duration_min] must be positive")
						}
						durationMin = v
					}

					specs := ""
					if raw := ctx.ExtractString("specializations"); raw != "" {
						tokens := sanitizer.SanitizeSlice(strings.Split(raw, ","), sanitizer.SanitizeSlug)
						specs = strings.Join(tokens, ",")
					}

					ctx.Process["auto_service_id"] = autoServiceID
					ctx.Process["date"] = date
					ctx.Process["clock"] = clock
					ctx.Process["duration_min"] = durationMin
					ctx.Process["specializations"] = specs
					return nil
				},
			},
			{
				Name: "list_masters",
				Execute: func(ctx *core.FlowContext) error {
					autoServiceID := ctx.Process["auto_service_id"].(string)
					specs := ctx.Process["specializations"].(string)

					var masters []*model.Master
					var offset int64
					for {
						resp, err := deps.Clients.AutoServices.SearchMasters(autoServiceID, "true", specs, fetchPageSize, offset)
						if err != nil {
							return fmt.Errorf("masters search failed: %w", err)
						}
						if resp.StatusCode != http.StatusOK {
							return fmt.Errorf("auto services service answered %d", resp.StatusCode)
						}
						page, meta, err := deps.Clients.AutoServices.DecodeMasters(resp)
						if err != nil {
							return err
						}
						masters = append(masters, page...)
						offset += int64(len(page))
						if len(page) == 0 || offset >= meta.TotalCount {
							break
						}
					}

					ctx.Process["masters"] = masters
					return nil
				},
			},
			{
				Name: "check_masters",
				Execute: func(ctx *core.FlowContext) error {
					masters := ctx.Process["masters"].([]*model.Master)
					date := ctx.Process["date"].(string)
					clock := ctx.Process["clock"].(string)
					durationMin := ctx.Process["duration_min"].(int)

					var (
						mu        sync.Mutex
						wg        sync.WaitGroup
						available []availableMaster
						failed    int
					)

					for _, m := range masters {
						wg.Add(1)
						go func(m *model.Master) {
							defer wg.Done()
							deps.Limiter.Run(func() {
								hit, err := checkMaster(ctx.Ctx, deps, m, date, clock, durationMin)
								mu.Lock()
								defer mu.Unlock()
								if err != nil {
									failed++
									deps.Log.Warn("Master availability check failed",
										"master_id", m.ID,
										"date", date,
										"error", err,
									)
									return
								}
								if hit != nil {
									available = append(available, *hit)
								}
							})
						}(m)
					}
					wg.Wait()

					sort.Slice(available, func(i, j int) bool {
						if available[i].FullName != available[j].FullName {
							return available[i].FullName < available[j].FullName
						}
						return available[i].MasterID < available[j].MasterID
					})

					ctx.Process["available"] = available
					ctx.Process["failed"] = failed
					return nil
				},
			},
			{
				Name: "build_output",
				Execute: func(ctx *core.FlowContext) error {
					available := ctx.Process["available"].([]availableMaster)
					if available == nil {
						available = []availableMaster{}
					}

					ctx.Output["auto_service_id"] = ctx.Process["auto_service_id"]
					ctx.Output["date"] = ctx.Process["date"]
					if clock := ctx.Process["clock"].(string); clock != "" {
						ctx.Output["time"] = clock
						ctx.Output["duration_min"] = ctx.Process["duration_min"]
					}
					ctx.Output["masters"] = available
					ctx.Output["masters_checked"] = len(ctx.Process["masters"].([]*model.Master))
					ctx.Output["checks_failed"] = ctx.Process["failed"]
					return nil
				},
			},
		},
	}
}

// checkMaster answers whether one master can take the requested visit. A nil
// hit with a nil error means the master is simply unavailable. With a time
// the answer covers the whole [time, time+duration) interval and the hit
// carries a sealed token for that slot; without one it covers the day.
func checkMaster(ctx context.Context, deps *Deps, m *model.Master, date, clock string, durationMin int) (*availableMaster, error) {
	schedules, err := deps.Schedules.ActiveForMaster(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	s := applicableSchedule(schedules, date)
	if s == nil {
		return nil, nil
	}
	if clock != "" && !availability.IsWorkingAtTime(s, date, clock) {
		return nil, nil
	}

	hit := &availableMaster{
		MasterID:       m.ID,
		FullName:       m.FullName,
		Specialization: m.Specialization,
		ScheduleID:     s.ID,
	}
	if clock == "" {
		return hit, nil
	}

	orders, err := fetchMasterOrders(deps, m.ID, date)
	if err != nil {
		return nil, err
	}
	startMin, err := model.ParseClock(clock)
	if err != nil {
		return nil, err
	}
	if len(availability.FindOrderOverlaps(date, startMin, durationMin, "", orders, deps.DefaultDurationMin)) > 0 {
		return nil, nil
	}

	token, err := deps.Sealer.SealSlot(m.ID, date, clock)
	if err != nil {
		return nil, err
	}
	hit.SlotToken = token
	return hit, nil
}
