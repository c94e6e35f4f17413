// Package core is the dispatch service's flow engine: named flows run as
// ordered step lists over a shared context of input, scratch and output
// maps.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"grafik/pkg/logger"
)

// ErrBadInput marks step failures caused by the caller's input. The service
// layer maps it to a validation error instead of an internal one.
var ErrBadInput = errors.New("bad flow input")

// FlowContext travels through a flow's steps. Input is the caller's request
// payload, Process is scratch space between steps, Output is what the flow
// returns. Ctx is the request context and bounds every call a step makes.
type FlowContext struct {
	Ctx     context.Context
	Input   map[string]any
	Process map[string]any
	Output  map[string]any
	Log     *logger.Logger
}

func NewFlowContext(ctx context.Context, input map[string]any, log *logger.Logger) *FlowContext {
	if input == nil {
		input = map[string]any{}
	}
	return &FlowContext{
		Ctx:     ctx,
		Input:   input,
		Process: map[string]any{},
		Output:  map[string]any{},
		Log:     log,
	}
}

// ExtractString returns the input value as a trimmed string, empty when the
// key is absent or holds something else.
func (c *FlowContext) ExtractString(key string) string {
	raw, ok := c.Input[key]
	if !ok {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// RequireString is ExtractString for parameters the flow cannot run without.
func (c *FlowContext) RequireString(key string) (string, error) {
	s := c.ExtractString(key)
	if s == "" {
		return "", MissingParamErr(key)
	}
	return s, nil
}

// ExtractInt returns the input value as an int. JSON numbers decode as
// float64, so both forms are accepted.
func (c *FlowContext) ExtractInt(key string) (int, bool) {
	switch v := c.Input[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

func MissingParamErr(paramName string) error {
	return fmt.Errorf("%w: required param [%s] is missing", ErrBadInput, paramName)
}

// BadInputErr flags a present but unusable parameter.
func BadInputErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadInput, fmt.Sprintf(format, args...))
}
