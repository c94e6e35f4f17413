package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"grafik/internal/schedules/service"
	apperrors "grafik/pkg/errors"
	httputil "grafik/pkg/http"
	"grafik/pkg/logger"
	"grafik/pkg/model"
)

type WorkScheduleHandler struct {
	service service.WorkScheduleService
	log     *logger.Logger
}

func NewWorkScheduleHandler(service service.WorkScheduleService, log *logger.Logger) *WorkScheduleHandler {
	return &WorkScheduleHandler{
		service: service,
		log:     log,
	}
}

func (h *WorkScheduleHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var ws model.WorkSchedule
	if err := json.NewDecoder(r.Body).Decode(&ws); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	warnings, err := h.service.Create(r.Context(), &ws)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if len(warnings) > 0 {
		httputil.WriteCreatedWithWarnings(w, ws, warnings)
		return
	}
	httputil.WriteCreated(w, ws)
}

func (h *WorkScheduleHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		httputil.WriteError(w, apperrors.InvalidInput("ID parameter is required"))
		return
	}

	ws, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, ws)
}

func (h *WorkScheduleHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := parsePagination(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	schedules, totalCount, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, schedules, totalCount, limit, int(offset))
}

func (h *WorkScheduleHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		httputil.WriteError(w, apperrors.InvalidInput("ID parameter is required"))
		return
	}

	var updates model.WorkScheduleUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	warnings, err := h.service.Update(r.Context(), id, &updates)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if len(warnings) > 0 {
		httputil.WriteJSON(w, http.StatusOK, httputil.DecisionResponse{Warnings: warnings})
		return
	}
	httputil.WriteNoContent(w)
}

func (h *WorkScheduleHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		httputil.WriteError(w, apperrors.InvalidInput("ID parameter is required"))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *WorkScheduleHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	masterID := strings.TrimSpace(query.Get("master_id"))
	if masterID == "" {
		httputil.WriteError(w, apperrors.InvalidInput("'master_id' query parameter is required"))
		return
	}

	var active *bool
	if activeStr := query.Get("active"); activeStr != "" {
		parsed, err := strconv.ParseBool(activeStr)
		if err != nil {
			httputil.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid active parameter: %s", activeStr)))
			return
		}
		active = &parsed
	}

	date := strings.TrimSpace(query.Get("date"))

	limit, offset, err := parsePagination(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	schedules, totalCount, err := h.service.Search(r.Context(), masterID, active, date, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, schedules, totalCount, limit, int(offset))
}

// Availability answers whether the master works on the given date, and at
// the given time when one is supplied.
func (h *WorkScheduleHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	masterID := strings.TrimSpace(query.Get("master_id"))
	date := strings.TrimSpace(query.Get("date"))
	clock := strings.TrimSpace(query.Get("time"))

	status, err := h.service.Availability(r.Context(), masterID, date, clock)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, status)
}

// Applicable returns the schedule governing the master's day. The data field
// is null when no active schedule covers the date; that is an answer, not an
// error.
func (h *WorkScheduleHandler) Applicable(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	masterID := strings.TrimSpace(query.Get("master_id"))
	date := strings.TrimSpace(query.Get("date"))

	ws, err := h.service.ApplicableSchedule(r.Context(), masterID, date)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if ws == nil {
		httputil.WriteSuccess(w, nil)
		return
	}
	httputil.WriteSuccess(w, ws)
}

func parsePagination(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if limitStr := query.Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			return 0, 0, apperrors.InvalidInput(fmt.Sprintf("invalid limit parameter: %s", limitStr))
		}
	}

	var offset int64
	if offsetStr := query.Get("offset"); offsetStr != "" {
		var err error
		offset, err = strconv.ParseInt(offsetStr, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput(fmt.Sprintf("invalid offset parameter: %s", offsetStr))
		}
	}

	return limit, offset, nil
}

func (h *WorkScheduleHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/schedules", h.Create)
	router.GET("/api/v1/schedules", h.GetAll)
	router.GET("/api/v1/schedules/search", h.Search)
	router.GET("/api/v1/schedules/availability", h.Availability)
	router.GET("/api/v1/schedules/applicable", h.Applicable)
	router.GET("/api/v1/schedules/id/:id", h.GetByID)
	router.PATCH("/api/v1/schedules/id/:id", h.Update)
	router.DELETE("/api/v1/schedules/id/:id", h.Delete)
}
