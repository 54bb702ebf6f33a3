package handlers

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"entrega-backend/internal/services"
	"entrega-backend/pkg/utils"
)

// CronHandler exposes the closing job to an external scheduler. The
// endpoint is guarded by a dedicated bearer secret, not user credentials.
type CronHandler struct {
	closing *services.ClosingService
	secret  string
}

func NewCronHandler(closing *services.ClosingService, secret string) *CronHandler {
	return &CronHandler{closing: closing, secret: secret}
}

// CloseMonthlyInvoices runs the month close. Query params: force=true skips
// the last-day check, month=YYYY-MM closes a specific month.
func (h *CronHandler) CloseMonthlyInvoices(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		utils.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	force := r.URL.Query().Get("force") == "true"
	month := r.URL.Query().Get("month")
	log.Printf("[Cron] Closing job triggered (force=%v month=%q)", force, month)

	result, err := h.closing.Run(r.Context(), force, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

func (h *CronHandler) authorized(r *http.Request) bool {
	// No secret configured means the job endpoint is disabled outright.
	if h.secret == "" {
		return false
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) == 1
}
