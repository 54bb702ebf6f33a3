package handlers

import (
	"net/http"

	"entrega-backend/internal/health"
	"entrega-backend/pkg/utils"
)

type HealthHandler struct {
	checker *health.Checker
}

func NewHealthHandler(checker *health.Checker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.checker.Check(r.Context())
	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, status)
}
