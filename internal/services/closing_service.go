package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"entrega-backend/internal/metrics"
	"entrega-backend/internal/models"
	"entrega-backend/internal/timeutil"
)

// SnapshotExporter archives a closing run's results to external storage.
// Export failures never fail the run.
type SnapshotExporter interface {
	ExportClosing(ctx context.Context, month string, summaries []models.InvoiceSummary) error
}

// ClosingService runs the end-of-month close: it snapshots each active
// client's delivered total into the ledger and flips open rows to closed.
type ClosingService struct {
	items    LineItemSource
	ledger   LedgerStore
	clients  ClientDirectory
	exporter SnapshotExporter // optional
	now      func() time.Time
}

func NewClosingService(items LineItemSource, ledger LedgerStore, clients ClientDirectory, exporter SnapshotExporter) *ClosingService {
	return &ClosingService{
		items:    items,
		ledger:   ledger,
		clients:  clients,
		exporter: exporter,
		now:      timeutil.Now,
	}
}

// Run closes the given month, or the current business month when empty.
// Unless forced or given an explicit month, it only acts on the last
// calendar day of the month, so a daily scheduler can call it blindly.
func (s *ClosingService) Run(ctx context.Context, force bool, month string) (*models.ClosingResult, error) {
	if month == "" {
		now := s.now()
		if !force && !timeutil.IsLastDayOfMonth(now) {
			log.Printf("[Closing] Not the last day of the month, nothing to do")
			metrics.ClosingRunsTotal.WithLabelValues("skipped").Inc()
			return &models.ClosingResult{
				Message: "not the last day of the month",
				Month:   now.Format(timeutil.MonthLayout),
			}, nil
		}
		month = now.Format(timeutil.MonthLayout)
	}

	start, end, err := timeutil.MonthRange(month)
	if err != nil {
		return nil, ErrInvalidMonth
	}

	items, err := s.items.ListItemsForRange(ctx, start, end)
	if err != nil {
		metrics.ClosingRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	ledger, err := s.ledger.ListByMonth(ctx, month)
	if err != nil {
		metrics.ClosingRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	clients, err := s.clients.GetAll(ctx)
	if err != nil {
		metrics.ClosingRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	totals := make(map[int]float64)
	for _, item := range items {
		totals[item.ClientID] += item.Quantity * item.UnitPrice
	}

	processed := 0
	var snapshot []models.InvoiceSummary
	for _, client := range clients {
		total := totals[client.ID]
		row := ledger[client.ID]
		// A zero total with no ledger row means the client was simply
		// inactive this month; writing a row would clutter every listing.
		if total == 0 && row == nil {
			continue
		}

		if err := s.ledger.UpsertClosing(ctx, client.ID, month, total); err != nil {
			metrics.ClosingRunsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("closing failed at client %d: %w", client.ID, err)
		}
		processed++
		metrics.InvoicesClosedTotal.Inc()

		status := models.InvoiceStatusClosed
		if row != nil && row.Status != models.InvoiceStatusOpen {
			status = row.Status
		}
		snapshot = append(snapshot, models.InvoiceSummary{
			ClientID: client.ID,
			Name:     client.DisplayName(),
			Total:    total,
			Status:   status,
			Month:    month,
		})
	}

	if s.exporter != nil && len(snapshot) > 0 {
		if err := s.exporter.ExportClosing(ctx, month, snapshot); err != nil {
			log.Printf("[Closing] Snapshot export failed: %v", err)
		}
	}

	log.Printf("[Closing] Month %s closed, %d invoice(s) processed", month, processed)
	metrics.ClosingRunsTotal.WithLabelValues("success").Inc()
	return &models.ClosingResult{
		Message:        "month closed",
		Month:          month,
		ProcessedCount: processed,
	}, nil
}
