package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"entrega-backend/internal/cache"
	"entrega-backend/internal/models"
	"entrega-backend/internal/services"
	"entrega-backend/internal/timeutil"
	"entrega-backend/pkg/utils"
	"github.com/gorilla/mux"
)

type InvoiceHandler struct {
	aggregation *services.AggregationService
	billing     *services.BillingService
	reports     *services.ReportService
	cache       *cache.Cache
}

func NewInvoiceHandler(aggregation *services.AggregationService, billing *services.BillingService, reports *services.ReportService, c *cache.Cache) *InvoiceHandler {
	return &InvoiceHandler{aggregation: aggregation, billing: billing, reports: reports, cache: c}
}

func monthParam(r *http.Request) string {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = timeutil.CurrentMonth()
	}
	return month
}

func clientIDParam(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["clientId"])
}

// List returns one invoice summary per active client for the month.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	month := monthParam(r)

	key := cache.InvoicesKey(month)
	var cached []models.InvoiceSummary
	if h.cache.GetJSON(r.Context(), key, &cached) {
		utils.JSON(w, http.StatusOK, cached)
		return
	}

	summaries, err := h.aggregation.MonthInvoices(r.Context(), month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.cache.SetJSON(r.Context(), key, summaries)
	utils.JSON(w, http.StatusOK, summaries)
}

// Details returns the full invoice view for one client and month.
func (h *InvoiceHandler) Details(w http.ResponseWriter, r *http.Request) {
	clientID, err := clientIDParam(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid client id")
		return
	}

	details, err := h.aggregation.InvoiceDetails(r.Context(), clientID, monthParam(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, details)
}

// History returns every month a client was active.
func (h *InvoiceHandler) History(w http.ResponseWriter, r *http.Request) {
	clientID, err := clientIDParam(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid client id")
		return
	}

	history, err := h.aggregation.ClientHistory(r.Context(), clientID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, history)
}

// Validate freezes an invoice at the reviewed total.
func (h *InvoiceHandler) Validate(w http.ResponseWriter, r *http.Request) {
	clientID, err := clientIDParam(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid client id")
		return
	}

	var req models.ValidateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.billing.Validate(r.Context(), clientID, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	h.cache.InvalidatePrefix(r.Context(), cache.InvoicesPrefix())
	utils.JSON(w, http.StatusOK, map[string]string{"status": models.InvoiceStatusValidated})
}

// CreateCharge creates a charge at the billing provider.
func (h *InvoiceHandler) CreateCharge(w http.ResponseWriter, r *http.Request) {
	clientID, err := clientIDParam(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid client id")
		return
	}

	var req models.CreateChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.billing.CreateCharge(r.Context(), clientID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.cache.InvalidatePrefix(r.Context(), cache.InvoicesPrefix())
	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}

// PaymentLink returns the hosted payment page of a charged invoice.
func (h *InvoiceHandler) PaymentLink(w http.ResponseWriter, r *http.Request) {
	clientID, err := clientIDParam(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid client id")
		return
	}

	link, err := h.billing.PaymentLink(r.Context(), clientID, monthParam(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"url": link})
}

// PDF streams the invoice as a PDF download.
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	clientID, err := clientIDParam(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid client id")
		return
	}
	month := monthParam(r)

	data, err := h.reports.InvoicePDF(r.Context(), clientID, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="fatura-%d-%s.pdf"`, clientID, month))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
