package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"grafik/internal/dispatch/core"
	"grafik/pkg/config"
	apperrors "grafik/pkg/errors"
	"grafik/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Log:         logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"}),
		ReadTimeout: 5 * time.Second,
	}
}

func newTestService(flows ...core.Flow) DispatchService {
	cfg := testConfig()
	return NewDispatch(core.NewEngine(cfg.Log, flows...), cfg)
}

func TestExecute(t *testing.T) {
	t.Run("returns the flow output", func(t *testing.T) {
		svc := newTestService(core.Flow{
			Name: "echo",
			Steps: []core.Step{{
				Name: "copy",
				Execute: func(ctx *core.FlowContext) error {
					ctx.Output["echo"] = ctx.Input["value"]
					return nil
				},
			}},
		})

		out, err := svc.Execute(context.Background(), "echo", map[string]any{"value": "ping"})
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if out["echo"] != "ping" {
			t.Fatalf("output = %v", out)
		}
	})

	t.Run("maps bad input to a validation error", func(t *testing.T) {
		svc := newTestService(core.Flow{
			Name: "picky",
			Steps: []core.Step{{
				Name: "inputs",
				Execute: func(ctx *core.FlowContext) error {
					_, err := ctx.RequireString("date")
					return err
				},
			}},
		})

		_, err := svc.Execute(context.Background(), "picky", nil)
		if got := apperrors.AsAppError(err).Code; got != apperrors.CodeValidation {
			t.Fatalf("code = %q, want %q", got, apperrors.CodeValidation)
		}
	})

	t.Run("maps unknown flows to invalid input", func(t *testing.T) {
		svc := newTestService()

		_, err := svc.Execute(context.Background(), "nope", nil)
		if got := apperrors.AsAppError(err).Code; got != apperrors.CodeInvalidInput {
			t.Fatalf("code = %q, want %q", got, apperrors.CodeInvalidInput)
		}
	})

	t.Run("maps other step failures to internal errors", func(t *testing.T) {
		svc := newTestService(core.Flow{
			Name: "doomed",
			Steps: []core.Step{{
				Name:    "explode",
				Execute: func(*core.FlowContext) error { return errors.New("downstream broke") },
			}},
		})

		_, err := svc.Execute(context.Background(), "doomed", nil)
		if got := apperrors.AsAppError(err).Code; got != apperrors.CodeInternal {
			t.Fatalf("code = %q, want %q", got, apperrors.CodeInternal)
		}
	})

	t.Run("rejects a blank flow name", func(t *testing.T) {
		svc := newTestService()

		_, err := svc.Execute(context.Background(), "  ", nil)
		if got := apperrors.AsAppError(err).Code; got != apperrors.CodeInvalidInput {
			t.Fatalf("code = %q, want %q", got, apperrors.CodeInvalidInput)
		}
	})
}

func TestFlows(t *testing.T) {
	svc := newTestService(core.Flow{Name: "zulu"}, core.Flow{Name: "alpha"})

	flows := svc.Flows()
	if len(flows) != 2 || flows[0] != "alpha" || flows[1] != "zulu" {
		t.Fatalf("Flows() = %v", flows)
	}
}
