// Package handler exposes the dispatch flows over HTTP.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"grafik/internal/dispatch/service"
	apperrors "grafik/pkg/errors"
	httputil "grafik/pkg/http"
	"grafik/pkg/logger"
)

type FlowHandler struct {
	service service.DispatchService
	log     *logger.Logger
}

func NewFlowHandler(service service.DispatchService, log *logger.Logger) *FlowHandler {
	return &FlowHandler{
		service: service,
		log:     log,
	}
}

// executeRequest is the execute endpoint's body: the flow to run and its
// free-form input payload.
type executeRequest struct {
	Flow  string         `json:"flow"`
	Input map[string]any `json:"input"`
}

func (h *FlowHandler) Execute(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	output, err := h.service.Execute(r.Context(), req.Flow, req.Input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, output)
}

func (h *FlowHandler) Flows(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	httputil.WriteSuccess(w, h.service.Flows())
}

func (h *FlowHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/dispatch/execute", h.Execute)
	router.GET("/api/v1/dispatch/flows", h.Flows)
}
