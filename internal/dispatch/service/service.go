// Package service fronts the flow engine for the dispatch handlers: it
// builds the flow context, runs the named flow and maps engine failures onto
// the shared application error codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"grafik/internal/dispatch/core"
	"grafik/pkg/config"
	apperrors "grafik/pkg/errors"
)

type DispatchService interface {
	Execute(ctx context.Context, flowName string, input map[string]any) (map[string]any, error)
	Flows() []string
}

type dispatchService struct {
	engine *core.Engine
	cfg    *config.Config
}

func NewDispatch(engine *core.Engine, cfg *config.Config) DispatchService {
	return &dispatchService{engine: engine, cfg: cfg}
}

// Execute runs the named flow over the caller's input and returns the flow
// output. Input mistakes come back as validation errors with the failing
// step's message; everything else is internal.
func (s *dispatchService) Execute(ctx context.Context, flowName string, input map[string]any) (map[string]any, error) {
	flowName = strings.TrimSpace(flowName)
	if flowName == "" {
		return nil, apperrors.InvalidInput("Flow name is required")
	}

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	flowCtx := core.NewFlowContext(runCtx, input, s.cfg.Log)
	err := s.engine.Run(flowName, flowCtx)
	if err == nil {
		return flowCtx.Output, nil
	}

	switch {
	case errors.Is(err, core.ErrUnknownFlow):
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown flow %q", flowName)).
			WithDetails(map[string]any{"flows": s.engine.Flows()})
	case errors.Is(err, core.ErrBadInput):
		return nil, apperrors.Validation("Flow input is invalid", map[string]any{
			"error": err.Error(),
		})
	default:
		return nil, apperrors.Internal("Flow execution failed", err)
	}
}

// Flows lists the flow names the engine carries.
func (s *dispatchService) Flows() []string {
	return s.engine.Flows()
}
