package services

import (
	"context"
	"sort"

	"entrega-backend/internal/models"
	"entrega-backend/internal/timeutil"
)

// AggregationService derives invoice views from delivered line items and the
// monthly ledger. Open months are always computed live; validated months
// report their frozen snapshot.
type AggregationService struct {
	items   LineItemSource
	ledger  LedgerStore
	clients ClientDirectory
}

func NewAggregationService(items LineItemSource, ledger LedgerStore, clients ClientDirectory) *AggregationService {
	return &AggregationService{items: items, ledger: ledger, clients: clients}
}

type clientAccumulator struct {
	total      float64
	deliveries map[int]struct{}
}

// MonthInvoices lists one invoice summary per client active in the month.
// A client is active when it has delivered items or a ledger row.
func (s *AggregationService) MonthInvoices(ctx context.Context, month string) ([]models.InvoiceSummary, error) {
	start, end, err := timeutil.MonthRange(month)
	if err != nil {
		return nil, ErrInvalidMonth
	}

	items, err := s.items.ListItemsForRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	ledger, err := s.ledger.ListByMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	clients, err := s.clients.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	accs := make(map[int]*clientAccumulator)
	for _, item := range items {
		acc := accs[item.ClientID]
		if acc == nil {
			acc = &clientAccumulator{deliveries: make(map[int]struct{})}
			accs[item.ClientID] = acc
		}
		acc.total += item.Quantity * item.UnitPrice
		acc.deliveries[item.DeliveryID] = struct{}{}
	}

	summaries := []models.InvoiceSummary{}
	for _, client := range clients {
		acc := accs[client.ID]
		row := ledger[client.ID]
		if acc == nil && row == nil {
			continue
		}

		summary := models.InvoiceSummary{
			ClientID: client.ID,
			Name:     client.DisplayName(),
			Status:   models.InvoiceStatusOpen,
			Month:    month,
		}
		if acc != nil {
			summary.Total = acc.total
			summary.DeliveryCount = len(acc.deliveries)
		}
		if row != nil {
			summary.Status = row.Status
			// Validated totals are frozen; open and closed stay live so the
			// listing reflects late edits until validation.
			if row.Status == models.InvoiceStatusValidated {
				summary.Total = row.Total
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// InvoiceDetails builds the full invoice view for one client and month:
// per-delivery breakdown, per-product summary and the previous month's total
// for comparison.
func (s *AggregationService) InvoiceDetails(ctx context.Context, clientID int, month string) (*models.InvoiceDetails, error) {
	start, end, err := timeutil.MonthRange(month)
	if err != nil {
		return nil, ErrInvalidMonth
	}

	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	items, err := s.items.ListItemsForRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	details := &models.InvoiceDetails{
		Client:         client,
		Month:          month,
		Status:         models.InvoiceStatusOpen,
		Deliveries:     []models.DeliveryBreakdownEntry{},
		ProductSummary: []models.ProductSummaryEntry{},
	}

	// Items arrive ordered newest delivery first; the breakdown keeps that
	// order by appending on first sight of each delivery id.
	deliveryIdx := make(map[int]int)
	productIdx := make(map[int]int)
	var total float64
	for _, item := range items {
		if item.ClientID != clientID {
			continue
		}
		lineTotal := item.Quantity * item.UnitPrice
		total += lineTotal

		di, ok := deliveryIdx[item.DeliveryID]
		if !ok {
			details.Deliveries = append(details.Deliveries, models.DeliveryBreakdownEntry{
				DeliveryID: item.DeliveryID,
				Date:       timeutil.FormatDisplayDate(item.DeliveryDate),
				Deliverer:  item.DelivererName,
			})
			di = len(details.Deliveries) - 1
			deliveryIdx[item.DeliveryID] = di
		}
		details.Deliveries[di].Total += lineTotal

		pi, ok := productIdx[item.ProductID]
		if !ok {
			details.ProductSummary = append(details.ProductSummary, models.ProductSummaryEntry{
				ProductID: item.ProductID,
				Name:      item.ProductName,
			})
			pi = len(details.ProductSummary) - 1
			productIdx[item.ProductID] = pi
		}
		details.ProductSummary[pi].Quantity += item.Quantity
		details.ProductSummary[pi].Total += lineTotal
	}
	sort.Slice(details.ProductSummary, func(i, j int) bool {
		return details.ProductSummary[i].Name < details.ProductSummary[j].Name
	})

	details.Total = total
	row, err := s.ledger.Get(ctx, clientID, month)
	if err != nil {
		return nil, err
	}
	if row != nil {
		details.Status = row.Status
		if row.Status == models.InvoiceStatusValidated {
			details.Total = row.Total
		}
	}

	prevMonth, err := timeutil.PreviousMonth(month)
	if err == nil {
		prevTotal, err := s.monthTotalForClient(ctx, clientID, prevMonth)
		if err != nil {
			return nil, err
		}
		details.PreviousTotal = prevTotal
	}
	return details, nil
}

func (s *AggregationService) monthTotalForClient(ctx context.Context, clientID int, month string) (float64, error) {
	row, err := s.ledger.Get(ctx, clientID, month)
	if err != nil {
		return 0, err
	}
	if row != nil && row.Status == models.InvoiceStatusValidated {
		return row.Total, nil
	}

	start, end, err := timeutil.MonthRange(month)
	if err != nil {
		return 0, err
	}
	items, err := s.items.ListItemsForRange(ctx, start, end)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, item := range items {
		if item.ClientID == clientID {
			total += item.Quantity * item.UnitPrice
		}
	}
	return total, nil
}

// ClientHistory lists every month a client was active, merging delivered
// months with ledger-only months. IsCalculated marks live totals.
func (s *AggregationService) ClientHistory(ctx context.Context, clientID int) ([]models.InvoiceHistoryEntry, error) {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	delivered, err := s.items.ClientMonthTotals(ctx, clientID)
	if err != nil {
		return nil, err
	}
	rows, err := s.ledger.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]*models.InvoiceHistoryEntry)
	for _, row := range rows {
		byMonth[row.Month] = &models.InvoiceHistoryEntry{
			Month:  row.Month,
			Total:  row.Total,
			Status: row.Status,
		}
	}
	for _, t := range delivered {
		entry := byMonth[t.Month]
		if entry == nil {
			entry = &models.InvoiceHistoryEntry{
				Month:  t.Month,
				Status: models.InvoiceStatusOpen,
			}
			byMonth[t.Month] = entry
		}
		if entry.Status != models.InvoiceStatusValidated {
			entry.Total = t.Total
			entry.IsCalculated = true
		}
	}

	history := make([]models.InvoiceHistoryEntry, 0, len(byMonth))
	for _, entry := range byMonth {
		history = append(history, *entry)
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].Month > history[j].Month
	})
	return history, nil
}
