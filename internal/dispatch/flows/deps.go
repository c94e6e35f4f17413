// Package flows holds the dispatch service's orchestration flows. Each flow
// is a step pipeline over the schedule, order and registry APIs plus the
// Redis-backed schedule cache; the pipelines only read and compose, every
// write goes through the owning service.
package flows

import (
	"grafik/internal/dispatch/cache"
	"grafik/internal/dispatch/core"
	"grafik/pkg/client"
	"grafik/pkg/logger"
	"grafik/pkg/sealer"
)

// Page size for walking paginated service listings.
const fetchPageSize = 200

// Deps carries everything a flow step may touch. Flows close over a single
// Deps value instead of smuggling clients through the flow context, so the
// context stays plain data.
type Deps struct {
	Clients            *client.Set
	Schedules          *cache.ScheduleCache
	Sealer             *sealer.Sealer
	Limiter            *core.Limiter
	Log                *logger.Logger
	DefaultDurationMin int
	SlotStepMin        int
}

// All builds every flow the dispatch service exposes.
func All(deps *Deps) []core.Flow {
	return []core.Flow{
		masterDayFlow(deps),
		assignOrderFlow(deps),
		findMastersFlow(deps),
	}
}
