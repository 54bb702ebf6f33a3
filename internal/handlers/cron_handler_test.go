package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"entrega-backend/internal/models"
	"entrega-backend/internal/services"
	"github.com/stretchr/testify/require"
)

type stubItems struct{}

func (stubItems) ListItemsForRange(context.Context, string, string) ([]models.LineItemRow, error) {
	return nil, nil
}
func (stubItems) ClientMonthTotals(context.Context, int) ([]models.MonthTotal, error) {
	return nil, nil
}

type stubLedger struct{}

func (stubLedger) Get(context.Context, int, string) (*models.MonthlyInvoice, error) { return nil, nil }
func (stubLedger) ListByMonth(context.Context, string) (map[int]*models.MonthlyInvoice, error) {
	return map[int]*models.MonthlyInvoice{}, nil
}
func (stubLedger) ListByClient(context.Context, int) ([]models.MonthlyInvoice, error) {
	return nil, nil
}
func (stubLedger) UpsertClosing(context.Context, int, string, float64) error { return nil }
func (stubLedger) Validate(context.Context, int, string, float64) (bool, error) {
	return false, nil
}
func (stubLedger) SetCharge(context.Context, int, string, string, string) (bool, error) {
	return false, nil
}

type stubClients struct{}

func (stubClients) GetAll(context.Context) ([]models.Client, error)       { return nil, nil }
func (stubClients) GetByID(context.Context, int) (*models.Client, error)  { return nil, nil }
func (stubClients) SetBillingCustomerID(context.Context, int, string) error { return nil }

func newCronHandler(secret string) *CronHandler {
	closing := services.NewClosingService(stubItems{}, stubLedger{}, stubClients{}, nil)
	return NewCronHandler(closing, secret)
}

func TestCloseMonthlyInvoicesRejectsMissingToken(t *testing.T) {
	h := newCronHandler("s3cret")

	req := httptest.NewRequest(http.MethodPost, "/api/jobs/close-monthly-invoices", nil)
	rec := httptest.NewRecorder()
	h.CloseMonthlyInvoices(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCloseMonthlyInvoicesRejectsWrongToken(t *testing.T) {
	h := newCronHandler("s3cret")

	req := httptest.NewRequest(http.MethodPost, "/api/jobs/close-monthly-invoices", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	h.CloseMonthlyInvoices(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCloseMonthlyInvoicesRejectsWhenSecretUnset(t *testing.T) {
	// No secret configured means the endpoint is disabled, even for empty
	// bearer tokens.
	h := newCronHandler("")

	req := httptest.NewRequest(http.MethodPost, "/api/jobs/close-monthly-invoices", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	h.CloseMonthlyInvoices(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCloseMonthlyInvoicesRunsWithValidToken(t *testing.T) {
	h := newCronHandler("s3cret")

	req := httptest.NewRequest(http.MethodPost, "/api/jobs/close-monthly-invoices?month=2026-02", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()
	h.CloseMonthlyInvoices(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.ClosingResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	require.Equal(t, "2026-02", result.Month)
	require.Equal(t, 0, result.ProcessedCount)
}
