package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"grafik/internal/autoservices/service"
	apperrors "grafik/pkg/errors"
	httputil "grafik/pkg/http"
	"grafik/pkg/logger"
	"grafik/pkg/model"
)

type RegionHandler struct {
	service service.RegionService
	log     *logger.Logger
}

func NewRegionHandler(service service.RegionService, log *logger.Logger) *RegionHandler {
	return &RegionHandler{
		service: service,
		log:     log,
	}
}

func (h *RegionHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var region model.Region
	if err := json.NewDecoder(r.Body).Decode(&region); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &region); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, region)
}

func (h *RegionHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		httputil.WriteError(w, apperrors.InvalidInput("ID parameter is required"))
		return
	}

	region, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, region)
}

func (h *RegionHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := parsePagination(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	regions, totalCount, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, regions, totalCount, limit, int(offset))
}

func (h *RegionHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		httputil.WriteError(w, apperrors.InvalidInput("ID parameter is required"))
		return
	}

	var updates model.RegionUpdate
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

func (h *RegionHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

func (h *RegionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/regions", h.Create)
	router.GET("/api/v1/regions", h.GetAll)
	router.GET("/api/v1/regions/id/:id", h.GetByID)
	router.PATCH("/api/v1/regions/id/:id", h.Update)
	router.DELETE("/api/v1/regions/id/:id", h.Delete)
}
