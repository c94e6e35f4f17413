// Package handler exposes the registry's HTTP API: regions, auto services
// and masters share one router inside the registry binary.
package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	apperrors "grafik/pkg/errors"
)

// RegistryHandler bundles the three resource handlers onto one router.
type RegistryHandler struct {
	regions      *RegionHandler
	autoServices *AutoServiceHandler
	masters      *MasterHandler
}

func NewRegistryHandler(regions *RegionHandler, autoServices *AutoServiceHandler, masters *MasterHandler) *RegistryHandler {
	return &RegistryHandler{
		regions:      regions,
		autoServices: autoServices,
		masters:      masters,
	}
}

func (h *RegistryHandler) RegisterRoutes(router *httprouter.Router) {
	h.regions.RegisterRoutes(router)
	h.autoServices.RegisterRoutes(router)
	h.masters.RegisterRoutes(router)
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

func parseActive(r *http.Request) (*bool, error) {
	activeStr := r.URL.Query().Get("active")
	if activeStr == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(activeStr)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid active parameter: %s", activeStr))
	}
	return &parsed, nil
}
