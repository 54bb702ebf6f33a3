package handlers

import (
	"net/http"

	"entrega-backend/internal/services"
	"entrega-backend/pkg/utils"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats returns the month summary and revenue chart. Defaults to the
// current business month.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}

// MonthBounds returns the first and last month with deliveries.
func (h *DashboardHandler) MonthBounds(w http.ResponseWriter, r *http.Request) {
	bounds, err := h.dashboard.MonthBounds(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, bounds)
}
