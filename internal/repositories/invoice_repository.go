package repositories

import (
	"context"
	"errors"
	"fmt"

	"entrega-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

const invoiceColumns = `
	id, client_id, month, status,
	COALESCE(total, 0),
	charge_id, invoice_url, updated_at
`

func scanInvoice(row pgx.Row) (*models.MonthlyInvoice, error) {
	var inv models.MonthlyInvoice
	err := row.Scan(
		&inv.ID, &inv.ClientID, &inv.Month, &inv.Status,
		&inv.Total, &inv.ChargeID, &inv.InvoiceURL, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Status = models.NormalizeStatus(inv.Status)
	return &inv, nil
}

// Get returns the ledger row for a client and month, or nil when the month
// was never closed or validated for that client.
func (r *InvoiceRepository) Get(ctx context.Context, clientID int, month string) (*models.MonthlyInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM monthly_invoices WHERE client_id = $1 AND month = $2`

	inv, err := scanInvoice(r.DB.QueryRow(ctx, query, clientID, month))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return inv, nil
}

// ListByMonth returns every ledger row of a month keyed by client id.
func (r *InvoiceRepository) ListByMonth(ctx context.Context, month string) (map[int]*models.MonthlyInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM monthly_invoices WHERE month = $1`

	rows, err := r.DB.Query(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices for month: %w", err)
	}
	defer rows.Close()

	invoices := make(map[int]*models.MonthlyInvoice)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices[inv.ClientID] = inv
	}
	return invoices, rows.Err()
}

// ListByClient returns all ledger rows of one client, newest month first.
func (r *InvoiceRepository) ListByClient(ctx context.Context, clientID int) ([]models.MonthlyInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM monthly_invoices WHERE client_id = $1 ORDER BY month DESC`

	rows, err := r.DB.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list client invoices: %w", err)
	}
	defer rows.Close()

	var invoices []models.MonthlyInvoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

// UpsertClosing records a month close for one client. The rules are encoded
// in SQL so concurrent closes and a racing validation cannot interleave:
//   - a validated row keeps its frozen total and status
//   - an existing closed row gets its total re-snapshotted
//   - only open rows transition to closed
func (r *InvoiceRepository) UpsertClosing(ctx context.Context, clientID int, month string, total float64) error {
	query := `
		INSERT INTO monthly_invoices (client_id, month, status, total, updated_at)
		VALUES ($1, $2, 'closed', $3, NOW())
		ON CONFLICT (client_id, month) DO UPDATE SET
			total = CASE
				WHEN monthly_invoices.status = 'validated' THEN monthly_invoices.total
				ELSE EXCLUDED.total
			END,
			status = CASE
				WHEN monthly_invoices.status IN ('open', 'aberto') THEN 'closed'
				ELSE monthly_invoices.status
			END,
			updated_at = NOW()
	`
	if _, err := r.DB.Exec(ctx, query, clientID, month, total); err != nil {
		return fmt.Errorf("failed to upsert closing for client %d: %w", clientID, err)
	}
	return nil
}

// Validate freezes the total for a client month and marks it validated.
// Returns false without touching the row when it is already validated, so
// two concurrent validations cannot both win.
func (r *InvoiceRepository) Validate(ctx context.Context, clientID int, month string, total float64) (bool, error) {
	query := `
		INSERT INTO monthly_invoices (client_id, month, status, total, updated_at)
		VALUES ($1, $2, 'validated', $3, NOW())
		ON CONFLICT (client_id, month) DO UPDATE SET
			status = 'validated',
			total = EXCLUDED.total,
			updated_at = NOW()
		WHERE monthly_invoices.status <> 'validated'
	`
	tag, err := r.DB.Exec(ctx, query, clientID, month, total)
	if err != nil {
		return false, fmt.Errorf("failed to validate invoice: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetCharge attaches a billing charge to a validated row. The guard on
// charge_id makes charge creation at-most-once per client month.
func (r *InvoiceRepository) SetCharge(ctx context.Context, clientID int, month, chargeID, invoiceURL string) (bool, error) {
	query := `
		UPDATE monthly_invoices
		SET charge_id = $3, invoice_url = $4, updated_at = NOW()
		WHERE client_id = $1 AND month = $2 AND charge_id IS NULL
	`
	tag, err := r.DB.Exec(ctx, query, clientID, month, chargeID, invoiceURL)
	if err != nil {
		return false, fmt.Errorf("failed to set charge: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
