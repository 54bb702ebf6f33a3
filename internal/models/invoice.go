package models

import "time"

// Invoice statuses. Legacy rows written by the previous system used the
// Portuguese names, so every status read from the database must go through
// NormalizeStatus before comparison.
const (
	InvoiceStatusOpen      = "open"
	InvoiceStatusClosed    = "closed"
	InvoiceStatusValidated = "validated"
)

// NormalizeStatus maps legacy status values onto the canonical enum.
// Unknown or empty values are treated as "open".
func NormalizeStatus(status string) string {
	switch status {
	case InvoiceStatusOpen, "aberto", "":
		return InvoiceStatusOpen
	case InvoiceStatusClosed, "fechado":
		return InvoiceStatusClosed
	case InvoiceStatusValidated:
		return InvoiceStatusValidated
	default:
		return InvoiceStatusOpen
	}
}

// MonthlyInvoice is the per-(client, month) status/total snapshot.
// Rows are created lazily by the closing job or the first validation;
// until then totals are derived live from delivery items.
type MonthlyInvoice struct {
	ID         int       `json:"id"`
	ClientID   int       `json:"client_id"`
	Month      string    `json:"month"` // "YYYY-MM"
	Status     string    `json:"status"`
	Total      float64   `json:"total"`
	ChargeID   *string   `json:"charge_id,omitempty"`
	InvoiceURL *string   `json:"invoice_url,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// InvoiceSummary is one row of the monthly invoice listing.
type InvoiceSummary struct {
	ClientID      int     `json:"id"`
	Name          string  `json:"name"`
	Total         float64 `json:"total"`
	DeliveryCount int     `json:"delivery_count"`
	Status        string  `json:"status"`
	Month         string  `json:"month"`
}

// ProductSummaryEntry aggregates one product's quantities within a month.
type ProductSummaryEntry struct {
	ProductID int     `json:"id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Total     float64 `json:"total"`
}

// DeliveryBreakdownEntry aggregates one delivery's total within a month.
type DeliveryBreakdownEntry struct {
	DeliveryID int     `json:"id"`
	Date       string  `json:"date"` // "DD/MM/YYYY"
	Deliverer  string  `json:"deliverer"`
	Total      float64 `json:"total"`
}

// InvoiceDetails is the full invoice view for one client and month.
type InvoiceDetails struct {
	Client          *Client                  `json:"client"`
	Month           string                   `json:"month"`
	Status          string                   `json:"status"`
	Total           float64                  `json:"total"`
	PreviousTotal   float64                  `json:"previous_total"`
	Deliveries      []DeliveryBreakdownEntry `json:"deliveries"`
	ProductSummary  []ProductSummaryEntry    `json:"product_summary"`
}

// InvoiceHistoryEntry is one month in a client's invoice history.
// IsCalculated marks totals derived live rather than from a ledger snapshot.
type InvoiceHistoryEntry struct {
	Month        string  `json:"month"`
	Total        float64 `json:"total"`
	Status       string  `json:"status"`
	IsCalculated bool    `json:"is_calculated"`
}

// ValidateInvoiceRequest freezes an invoice at the given total.
type ValidateInvoiceRequest struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// CreateChargeRequest asks the billing provider for a charge.
type CreateChargeRequest struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// ChargeResult reports a successfully created charge.
type ChargeResult struct {
	ChargeID    string `json:"chargeId"`
	BillingType string `json:"billingType"`
	DueDate     string `json:"dueDate"` // "YYYY-MM-DD"
	InvoiceURL  string `json:"invoiceUrl,omitempty"`
}

// ClosingResult reports one closing-job run.
type ClosingResult struct {
	Message        string `json:"message"`
	Month          string `json:"month"`
	ProcessedCount int    `json:"processedCount"`
}
