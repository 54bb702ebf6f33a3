package services

import (
	"context"
	"testing"

	"entrega-backend/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func febItems() []models.LineItemRow {
	// Two deliveries for client 1 in February 2026: 2 × 10.00 and 1 × 5.00,
	// 25.00 in total. Newest first, like the repository returns them.
	return []models.LineItemRow{
		{ClientID: 1, ProductID: 10, ProductName: "Queijo", Quantity: 1, UnitPrice: 5.00, DeliveryID: 21, DeliveryDate: "2026-02-20", DelivererName: "Carlos"},
		{ClientID: 1, ProductID: 10, ProductName: "Queijo", Quantity: 2, UnitPrice: 10.00, DeliveryID: 20, DeliveryDate: "2026-02-05", DelivererName: "Carlos"},
	}
}

func testClients() []models.Client {
	return []models.Client{
		{ID: 1, Name: "Padaria Central", Type: "PJ"},
		{ID: 2, Name: "Mercado Sul", Type: "PJ"},
	}
}

func TestMonthInvoicesComputesTotals(t *testing.T) {
	items := new(mockLineItemSource)
	ledger := new(mockLedgerStore)
	clients := new(mockClientDirectory)

	items.On("ListItemsForRange", mock.Anything, "2026-02-01", "2026-02-28").Return(febItems(), nil)
	ledger.On("ListByMonth", mock.Anything, "2026-02").Return(map[int]*models.MonthlyInvoice{}, nil)
	clients.On("GetAll", mock.Anything).Return(testClients(), nil)

	svc := NewAggregationService(items, ledger, clients)
	summaries, err := svc.MonthInvoices(context.Background(), "2026-02")
	require.NoError(t, err)

	// Client 2 has no items and no ledger row, so only client 1 appears.
	require.Len(t, summaries, 1)
	require.Equal(t, 1, summaries[0].ClientID)
	require.Equal(t, "Padaria Central", summaries[0].Name)
	require.InDelta(t, 25.00, summaries[0].Total, 0.001)
	require.Equal(t, 2, summaries[0].DeliveryCount)
	require.Equal(t, models.InvoiceStatusOpen, summaries[0].Status)
}

func TestMonthInvoicesValidatedTotalIsFrozen(t *testing.T) {
	items := new(mockLineItemSource)
	ledger := new(mockLedgerStore)
	clients := new(mockClientDirectory)

	items.On("ListItemsForRange", mock.Anything, "2026-02-01", "2026-02-28").Return(febItems(), nil)
	ledger.On("ListByMonth", mock.Anything, "2026-02").Return(map[int]*models.MonthlyInvoice{
		1: {ClientID: 1, Month: "2026-02", Status: models.InvoiceStatusValidated, Total: 30.00},
	}, nil)
	clients.On("GetAll", mock.Anything).Return(testClients(), nil)

	svc := NewAggregationService(items, ledger, clients)
	summaries, err := svc.MonthInvoices(context.Background(), "2026-02")
	require.NoError(t, err)

	require.Len(t, summaries, 1)
	require.Equal(t, models.InvoiceStatusValidated, summaries[0].Status)
	require.InDelta(t, 30.00, summaries[0].Total, 0.001)
}

func TestMonthInvoicesClosedTotalStaysLive(t *testing.T) {
	items := new(mockLineItemSource)
	ledger := new(mockLedgerStore)
	clients := new(mockClientDirectory)

	items.On("ListItemsForRange", mock.Anything, "2026-02-01", "2026-02-28").Return(febItems(), nil)
	ledger.On("ListByMonth", mock.Anything, "2026-02").Return(map[int]*models.MonthlyInvoice{
		1: {ClientID: 1, Month: "2026-02", Status: models.InvoiceStatusClosed, Total: 99.00},
	}, nil)
	clients.On("GetAll", mock.Anything).Return(testClients(), nil)

	svc := NewAggregationService(items, ledger, clients)
	summaries, err := svc.MonthInvoices(context.Background(), "2026-02")
	require.NoError(t, err)

	// A closed month still reflects late delivery edits until validation.
	require.Equal(t, models.InvoiceStatusClosed, summaries[0].Status)
	require.InDelta(t, 25.00, summaries[0].Total, 0.001)
}

func TestMonthInvoicesEmptyMonth(t *testing.T) {
	items := new(mockLineItemSource)
	ledger := new(mockLedgerStore)
	clients := new(mockClientDirectory)

	items.On("ListItemsForRange", mock.Anything, "2026-03-01", "2026-03-31").Return([]models.LineItemRow{}, nil)
	ledger.On("ListByMonth", mock.Anything, "2026-03").Return(map[int]*models.MonthlyInvoice{}, nil)
	clients.On("GetAll", mock.Anything).Return(testClients(), nil)

	svc := NewAggregationService(items, ledger, clients)
	summaries, err := svc.MonthInvoices(context.Background(), "2026-03")
	require.NoError(t, err)
	require.Empty(t, summaries)
}

func TestMonthInvoicesInvalidMonth(t *testing.T) {
	svc := NewAggregationService(new(mockLineItemSource), new(mockLedgerStore), new(mockClientDirectory))
	_, err := svc.MonthInvoices(context.Background(), "02/2026")
	require.ErrorIs(t, err, ErrInvalidMonth)
}

func TestInvoiceDetailsGrouping(t *testing.T) {
	items := new(mockLineItemSource)
	ledger := new(mockLedgerStore)
	clients := new(mockClientDirectory)

	rows := append(febItems(), models.LineItemRow{
		ClientID: 1, ProductID: 11, ProductName: "Leite", Quantity: 10, UnitPrice: 2.50,
		DeliveryID: 21, DeliveryDate: "2026-02-20", DelivererName: "Carlos",
	})
	items.On("ListItemsForRange", mock.Anything, "2026-02-01", "2026-02-28").Return(rows, nil)
	items.On("ListItemsForRange", mock.Anything, "2026-01-01", "2026-01-31").Return([]models.LineItemRow{}, nil)
	clients.On("GetByID", mock.Anything, 1).Return(&models.Client{ID: 1, Name: "Padaria Central"}, nil)
	ledger.On("Get", mock.Anything, 1, "2026-02").Return(nil, nil)
	ledger.On("Get", mock.Anything, 1, "2026-01").Return(nil, nil)

	svc := NewAggregationService(items, ledger, clients)
	details, err := svc.InvoiceDetails(context.Background(), 1, "2026-02")
	require.NoError(t, err)

	require.InDelta(t, 50.00, details.Total, 0.001)
	require.Equal(t, models.InvoiceStatusOpen, details.Status)

	// Breakdown keeps newest-first order and conserves the total.
	require.Len(t, details.Deliveries, 2)
	require.Equal(t, 21, details.Deliveries[0].DeliveryID)
	require.Equal(t, "20/02/2026", details.Deliveries[0].Date)
	require.InDelta(t, 30.00, details.Deliveries[0].Total, 0.001)
	require.InDelta(t, 20.00, details.Deliveries[1].Total, 0.001)
	var breakdownSum float64
	for _, d := range details.Deliveries {
		breakdownSum += d.Total
	}
	require.InDelta(t, details.Total, breakdownSum, 0.001)

	// Product summary is aggregated and name-sorted.
	require.Len(t, details.ProductSummary, 2)
	require.Equal(t, "Leite", details.ProductSummary[0].Name)
	require.InDelta(t, 25.00, details.ProductSummary[0].Total, 0.001)
	require.Equal(t, "Queijo", details.ProductSummary[1].Name)
	require.InDelta(t, 3.0, details.ProductSummary[1].Quantity, 0.001)
	require.InDelta(t, 25.00, details.ProductSummary[1].Total, 0.001)
}

func TestInvoiceDetailsPreviousTotalUsesValidatedSnapshot(t *testing.T) {
	items := new(mockLineItemSource)
	ledger := new(mockLedgerStore)
	clients := new(mockClientDirectory)

	items.On("ListItemsForRange", mock.Anything, "2026-02-01", "2026-02-28").Return(febItems(), nil)
	clients.On("GetByID", mock.Anything, 1).Return(&models.Client{ID: 1, Name: "Padaria Central"}, nil)
	ledger.On("Get", mock.Anything, 1, "2026-02").Return(nil, nil)
	ledger.On("Get", mock.Anything, 1, "2026-01").Return(&models.MonthlyInvoice{
		ClientID: 1, Month: "2026-01", Status: models.InvoiceStatusValidated, Total: 120.00,
	}, nil)

	svc := NewAggregationService(items, ledger, clients)
	details, err := svc.InvoiceDetails(context.Background(), 1, "2026-02")
	require.NoError(t, err)
	require.InDelta(t, 120.00, details.PreviousTotal, 0.001)
	items.AssertNotCalled(t, "ListItemsForRange", mock.Anything, "2026-01-01", "2026-01-31")
}

func TestInvoiceDetailsClientNotFound(t *testing.T) {
	clients := new(mockClientDirectory)
	clients.On("GetByID", mock.Anything, 99).Return(nil, nil)

	svc := NewAggregationService(new(mockLineItemSource), new(mockLedgerStore), clients)
	_, err := svc.InvoiceDetails(context.Background(), 99, "2026-02")
	require.ErrorIs(t, err, ErrClientNotFound)
}

func TestClientHistoryMergesLedgerAndDeliveredMonths(t *testing.T) {
	items := new(mockLineItemSource)
	ledger := new(mockLedgerStore)
	clients := new(mockClientDirectory)

	clients.On("GetByID", mock.Anything, 1).Return(&models.Client{ID: 1, Name: "Padaria Central"}, nil)
	items.On("ClientMonthTotals", mock.Anything, 1).Return([]models.MonthTotal{
		{Month: "2026-02", Total: 25.00},
		{Month: "2026-01", Total: 110.00},
	}, nil)
	ledger.On("ListByClient", mock.Anything, 1).Return([]models.MonthlyInvoice{
		{ClientID: 1, Month: "2026-01", Status: models.InvoiceStatusValidated, Total: 120.00},
		{ClientID: 1, Month: "2025-12", Status: models.InvoiceStatusClosed, Total: 80.00},
	}, nil)

	svc := NewAggregationService(items, ledger, clients)
	history, err := svc.ClientHistory(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, history, 3)

	// Newest first.
	require.Equal(t, "2026-02", history[0].Month)
	require.True(t, history[0].IsCalculated)
	require.InDelta(t, 25.00, history[0].Total, 0.001)

	// Validated month keeps the frozen snapshot over the live total.
	require.Equal(t, "2026-01", history[1].Month)
	require.False(t, history[1].IsCalculated)
	require.InDelta(t, 120.00, history[1].Total, 0.001)

	// Ledger-only month survives without delivery rows.
	require.Equal(t, "2025-12", history[2].Month)
	require.InDelta(t, 80.00, history[2].Total, 0.001)
}
