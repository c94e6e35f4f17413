package core

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"grafik/pkg/logger"
	"grafik/pkg/metrics"
)

// ErrUnknownFlow is returned when a caller names a flow the engine does not
// carry.
var ErrUnknownFlow = errors.New("unknown flow")

// Step is one stage of a flow. Execute reads and writes the shared context.
type Step struct {
	Name    string
	Execute func(ctx *FlowContext) error
}

// Flow is an ordered step list registered under a name.
type Flow struct {
	Name  string
	Steps []Step
}

type Engine struct {
	flows map[string]Flow
	log   *logger.Logger
}

func NewEngine(log *logger.Logger, flows ...Flow) *Engine {
	m := make(map[string]Flow, len(flows))
	for _, f := range flows {
		m[f.Name] = f
	}
	return &Engine{flows: m, log: log}
}

// Run executes the named flow's steps in order, stopping at the first
// failure. Durations and failures are recorded per flow.
func (e *Engine) Run(flowName string, ctx *FlowContext) error {
	flow, exists := e.flows[flowName]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownFlow, flowName)
	}

	start := time.Now()
	for _, step := range flow.Steps {
		if err := step.Execute(ctx); err != nil {
			metrics.IncFlowFailures(flowName, step.Name)
			metrics.ObserveFlowDuration(flowName, time.Since(start).Seconds())
			e.log.Warn("Flow step failed",
				"flow", flowName,
				"step", step.Name,
				"error", err,
			)
			return fmt.Errorf("step %s failed: %w", step.Name, err)
		}
	}

	metrics.ObserveFlowDuration(flowName, time.Since(start).Seconds())
	return nil
}

// Flows lists the registered flow names, sorted for stable output.
func (e *Engine) Flows() []string {
	names := make([]string, 0, len(e.flows))
	for name := range e.flows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
