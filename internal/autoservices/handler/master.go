package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"grafik/internal/autoservices/service"
	apperrors "grafik/pkg/errors"
	httputil "grafik/pkg/http"
	"grafik/pkg/logger"
	"grafik/pkg/model"
)

type MasterHandler struct {
	service service.MasterService
	log     *logger.Logger
}

func NewMasterHandler(service service.MasterService, log *logger.Logger) *MasterHandler {
	return &MasterHandler{
		service: service,
		log:     log,
	}
}

func (h *MasterHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var master model.Master
	if err := json.NewDecoder(r.Body).Decode(&master); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	warnings, err := h.service.Create(r.Context(), &master)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if len(warnings) > 0 {
		httputil.WriteCreatedWithWarnings(w, master, warnings)
		return
	}
	httputil.WriteCreated(w, master)
}

func (h *MasterHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		httputil.WriteError(w, apperrors.InvalidInput("ID parameter is required"))
		return
	}

	master, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, master)
}

func (h *MasterHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		httputil.WriteError(w, apperrors.InvalidInput("ID parameter is required"))
		return
	}

	var updates model.MasterUpdate
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

func (h *MasterHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

// Search lists an auto service's roster. The specializations parameter takes
// comma-separated tokens and matches masters holding any of them.
func (h *MasterHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	autoServiceID := strings.TrimSpace(query.Get("auto_service_id"))
	if autoServiceID == "" {
		httputil.WriteError(w, apperrors.InvalidInput("'auto_service_id' query parameter is required"))
		return
	}

	active, err := parseActive(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	specializations := strings.TrimSpace(query.Get("specializations"))

	limit, offset, err := parsePagination(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	masters, totalCount, err := h.service.Search(r.Context(), autoServiceID, active, specializations, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, masters, totalCount, limit, int(offset))
}

func (h *MasterHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/masters", h.Create)
	router.GET("/api/v1/masters/search", h.Search)
	router.GET("/api/v1/masters/id/:id", h.GetByID)
	router.PATCH("/api/v1/masters/id/:id", h.Update)
	router.DELETE("/api/v1/masters/id/:id", h.Delete)
}
