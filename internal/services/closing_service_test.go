package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"entrega-backend/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingExporter struct {
	month     string
	summaries []models.InvoiceSummary
}

func (e *recordingExporter) ExportClosing(_ context.Context, month string, summaries []models.InvoiceSummary) error {
	e.month = month
	e.summaries = summaries
	return nil
}

func newClosingFixture(t *testing.T) (*mockLineItemSource, *mockLedgerStore, *mockClientDirectory, *ClosingService) {
	t.Helper()
	items := new(mockLineItemSource)
	ledger := new(mockLedgerStore)
	clients := new(mockClientDirectory)
	svc := NewClosingService(items, ledger, clients, nil)
	return items, ledger, clients, svc
}

func TestClosingSkipsWhenNotLastDayOfMonth(t *testing.T) {
	items, ledger, _, svc := newClosingFixture(t)
	svc.now = func() time.Time {
		return time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC)
	}

	result, err := svc.Run(context.Background(), false, "")
	require.NoError(t, err)
	require.Equal(t, 0, result.ProcessedCount)
	require.Equal(t, "2026-02", result.Month)

	items.AssertNotCalled(t, "ListItemsForRange", mock.Anything, mock.Anything, mock.Anything)
	ledger.AssertNotCalled(t, "UpsertClosing", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestClosingForceOverridesLastDayCheck(t *testing.T) {
	items, ledger, clients, svc := newClosingFixture(t)
	svc.now = func() time.Time {
		return time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC)
	}

	items.On("ListItemsForRange", mock.Anything, "2026-02-01", "2026-02-28").Return(febItems(), nil)
	ledger.On("ListByMonth", mock.Anything, "2026-02").Return(map[int]*models.MonthlyInvoice{}, nil)
	clients.On("GetAll", mock.Anything).Return(testClients(), nil)
	ledger.On("UpsertClosing", mock.Anything, 1, "2026-02", 25.00).Return(nil)

	result, err := svc.Run(context.Background(), true, "")
	require.NoError(t, err)
	require.Equal(t, 1, result.ProcessedCount)
	ledger.AssertExpectations(t)
}

func TestClosingSkipsInactiveClients(t *testing.T) {
	items, ledger, clients, svc := newClosingFixture(t)

	items.On("ListItemsForRange", mock.Anything, "2026-02-01", "2026-02-28").Return(febItems(), nil)
	ledger.On("ListByMonth", mock.Anything, "2026-02").Return(map[int]*models.MonthlyInvoice{}, nil)
	clients.On("GetAll", mock.Anything).Return(testClients(), nil)
	ledger.On("UpsertClosing", mock.Anything, 1, "2026-02", 25.00).Return(nil)

	result, err := svc.Run(context.Background(), false, "2026-02")
	require.NoError(t, err)
	require.Equal(t, 1, result.ProcessedCount)

	// Client 2 delivered nothing and has no ledger row: no row is written.
	ledger.AssertNotCalled(t, "UpsertClosing", mock.Anything, 2, mock.Anything, mock.Anything)
}

func TestClosingReSnapshotsZeroForExistingRow(t *testing.T) {
	items, ledger, clients, svc := newClosingFixture(t)

	items.On("ListItemsForRange", mock.Anything, "2026-02-01", "2026-02-28").Return([]models.LineItemRow{}, nil)
	ledger.On("ListByMonth", mock.Anything, "2026-02").Return(map[int]*models.MonthlyInvoice{
		2: {ClientID: 2, Month: "2026-02", Status: models.InvoiceStatusClosed, Total: 40.00},
	}, nil)
	clients.On("GetAll", mock.Anything).Return(testClients(), nil)
	ledger.On("UpsertClosing", mock.Anything, 2, "2026-02", 0.00).Return(nil)

	result, err := svc.Run(context.Background(), false, "2026-02")
	require.NoError(t, err)
	require.Equal(t, 1, result.ProcessedCount)
	ledger.AssertExpectations(t)
}

func TestClosingAbortsOnLedgerError(t *testing.T) {
	items, ledger, clients, svc := newClosingFixture(t)

	items.On("ListItemsForRange", mock.Anything, "2026-02-01", "2026-02-28").Return(febItems(), nil)
	ledger.On("ListByMonth", mock.Anything, "2026-02").Return(map[int]*models.MonthlyInvoice{}, nil)
	clients.On("GetAll", mock.Anything).Return(testClients(), nil)
	ledger.On("UpsertClosing", mock.Anything, 1, "2026-02", 25.00).Return(errors.New("connection reset"))

	_, err := svc.Run(context.Background(), false, "2026-02")
	require.Error(t, err)
	require.Contains(t, err.Error(), "client 1")
}

func TestClosingInvalidMonth(t *testing.T) {
	_, _, _, svc := newClosingFixture(t)
	_, err := svc.Run(context.Background(), false, "fev-2026")
	require.ErrorIs(t, err, ErrInvalidMonth)
}

func TestClosingExportsSnapshot(t *testing.T) {
	items := new(mockLineItemSource)
	ledger := new(mockLedgerStore)
	clients := new(mockClientDirectory)
	exporter := &recordingExporter{}
	svc := NewClosingService(items, ledger, clients, exporter)

	items.On("ListItemsForRange", mock.Anything, "2026-02-01", "2026-02-28").Return(febItems(), nil)
	ledger.On("ListByMonth", mock.Anything, "2026-02").Return(map[int]*models.MonthlyInvoice{}, nil)
	clients.On("GetAll", mock.Anything).Return(testClients(), nil)
	ledger.On("UpsertClosing", mock.Anything, 1, "2026-02", 25.00).Return(nil)

	_, err := svc.Run(context.Background(), false, "2026-02")
	require.NoError(t, err)
	require.Equal(t, "2026-02", exporter.month)
	require.Len(t, exporter.summaries, 1)
	require.Equal(t, models.InvoiceStatusClosed, exporter.summaries[0].Status)
}
