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

type AutoServiceHandler struct {
	service service.AutoServiceService
	log     *logger.Logger
}

func NewAutoServiceHandler(service service.AutoServiceService, log *logger.Logger) *AutoServiceHandler {
	return &AutoServiceHandler{
		service: service,
		log:     log,
	}
}

func (h *AutoServiceHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var autoService model.AutoService
	if err := json.NewDecoder(r.Body).Decode(&autoService); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &autoService); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, autoService)
}

func (h *AutoServiceHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		httputil.WriteError(w, apperrors.InvalidInput("ID parameter is required"))
		return
	}

	autoService, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, autoService)
}

func (h *AutoServiceHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := parsePagination(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	autoServices, totalCount, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, autoServices, totalCount, limit, int(offset))
}

func (h *AutoServiceHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		httputil.WriteError(w, apperrors.InvalidInput("ID parameter is required"))
		return
	}

	var updates model.AutoServiceUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Update(r.Context(), id, &updates); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AutoServiceHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

func (h *AutoServiceHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	regionID := strings.TrimSpace(query.Get("region_id"))
	if regionID == "" {
		httputil.WriteError(w, apperrors.InvalidInput("'region_id' query parameter is required"))
		return
	}

	active, err := parseActive(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	limit, offset, err := parsePagination(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	autoServices, totalCount, err := h.service.Search(r.Context(), regionID, active, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, autoServices, totalCount, limit, int(offset))
}

func (h *AutoServiceHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auto-services", h.Create)
	router.GET("/api/v1/auto-services", h.GetAll)
	router.GET("/api/v1/auto-services/search", h.Search)
	router.GET("/api/v1/auto-services/id/:id", h.GetByID)
	router.PATCH("/api/v1/auto-services/id/:id", h.Update)
	router.DELETE("/api/v1/auto-services/id/:id", h.Delete)
}
