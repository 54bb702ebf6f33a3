package repositories

import (
	"context"
	"errors"
	"fmt"

	"entrega-backend/internal/models"
	"entrega-backend/internal/timeutil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DeliveryRepository struct {
	DB *pgxpool.Pool
}

func NewDeliveryRepository(db *pgxpool.Pool) *DeliveryRepository {
	return &DeliveryRepository{DB: db}
}

// Create inserts a delivery with its line items in one transaction.
// Unit cost is snapshotted from the product catalog at this moment; unit
// price comes from the request (the caller resolved the client's price list).
func (r *DeliveryRepository) Create(ctx context.Context, date string, req *models.SaveDeliveryRequest) (int, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var deliveryID int
	err = tx.QueryRow(ctx, `
		INSERT INTO deliveries (date, deliverer_id, status)
		VALUES ($1, $2, 'completed')
		RETURNING id
	`, date, req.DelivererID).Scan(&deliveryID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert delivery: %w", err)
	}

	if err := insertItems(ctx, tx, deliveryID, req.Clients); err != nil {
		return 0, err
	}
	if err := refreshTotals(ctx, tx, deliveryID); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit delivery: %w", err)
	}
	return deliveryID, nil
}

// Update replaces a delivery's line items and deliverer. The date is fixed
// at creation and never changes.
func (r *DeliveryRepository) Update(ctx context.Context, id int, req *models.SaveDeliveryRequest) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE deliveries SET deliverer_id = $2 WHERE id = $1`, id, req.DelivererID)
	if err != nil {
		return fmt.Errorf("failed to update delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx, `DELETE FROM delivery_items WHERE delivery_id = $1`, id); err != nil {
		return fmt.Errorf("failed to clear delivery items: %w", err)
	}
	if err := insertItems(ctx, tx, id, req.Clients); err != nil {
		return err
	}
	if err := refreshTotals(ctx, tx, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertItems(ctx context.Context, tx pgx.Tx, deliveryID int, clients []models.ClientDeliveryInput) error {
	for _, client := range clients {
		for _, p := range client.Products {
			if p.Quantity <= 0 {
				continue
			}
			_, err := tx.Exec(ctx, `
				INSERT INTO delivery_items (delivery_id, client_id, product_id, quantity, unit_price, unit_cost)
				VALUES ($1, $2, $3, $4, $5,
					(SELECT COALESCE(cost_price, 0) FROM products WHERE id = $3))
			`, deliveryID, client.ClientID, p.ProductID, p.Quantity, p.Price)
			if err != nil {
				return fmt.Errorf("failed to insert delivery item: %w", err)
			}
		}
	}
	return nil
}

func refreshTotals(ctx context.Context, tx pgx.Tx, deliveryID int) error {
	_, err := tx.Exec(ctx, `
		UPDATE deliveries SET
			total_sales = (
				SELECT COALESCE(SUM(quantity * unit_price), 0)
				FROM delivery_items WHERE delivery_id = $1
			),
			total_cost = (
				SELECT COALESCE(SUM(quantity * unit_cost), 0)
				FROM delivery_items WHERE delivery_id = $1
			)
		WHERE id = $1
	`, deliveryID)
	if err != nil {
		return fmt.Errorf("failed to refresh delivery totals: %w", err)
	}
	return nil
}

func (r *DeliveryRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM deliveries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetDetails returns one delivery with items grouped per client, in the
// shape the edit screen consumes.
func (r *DeliveryRepository) GetDetails(ctx context.Context, id int) (*models.DeliveryDetails, error) {
	var details models.DeliveryDetails
	err := r.DB.QueryRow(ctx,
		`SELECT id, TO_CHAR(date, 'YYYY-MM-DD') FROM deliveries WHERE id = $1`, id,
	).Scan(&details.ID, &details.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery %d: %w", id, err)
	}

	rows, err := r.DB.Query(ctx, `
		SELECT di.client_id,
			COALESCE(NULLIF(c.name, ''), c.razao_social, '') AS client_name,
			di.product_id, p.name, p.unit, di.quantity, di.unit_price
		FROM delivery_items di
		JOIN clients c ON c.id = di.client_id
		JOIN products p ON p.id = di.product_id
		WHERE di.delivery_id = $1
		ORDER BY client_name, p.name
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery items: %w", err)
	}
	defer rows.Close()

	var current *models.DeliveryClientGroup
	for rows.Next() {
		var clientID int
		var clientName string
		var view models.DeliveryProductView
		if err := rows.Scan(&clientID, &clientName, &view.ProductID, &view.Name, &view.Unit, &view.Quantity, &view.Price); err != nil {
			return nil, fmt.Errorf("failed to scan delivery item: %w", err)
		}
		if current == nil || current.ClientID != clientID {
			details.Deliveries = append(details.Deliveries, models.DeliveryClientGroup{
				ClientID:   clientID,
				ClientName: clientName,
			})
			current = &details.Deliveries[len(details.Deliveries)-1]
		}
		current.Products = append(current.Products, view)
	}
	return &details, rows.Err()
}

// ListRecent returns a page of deliveries, newest first, optionally filtered
// to one month. One extra row is fetched to detect whether more pages exist.
func (r *DeliveryRepository) ListRecent(ctx context.Context, month string, limit, offset int) (*models.RecentDeliveriesPage, error) {
	query := `
		SELECT d.id, TO_CHAR(d.date, 'YYYY-MM-DD'), COALESCE(u.name, ''), COALESCE(d.total_sales, 0)
		FROM deliveries d
		LEFT JOIN users u ON u.id = d.deliverer_id
	`
	args := []interface{}{}
	argPos := 1
	if month != "" {
		start, end, err := timeutil.MonthRange(month)
		if err != nil {
			return nil, err
		}
		query += fmt.Sprintf(" WHERE d.date >= $%d AND d.date <= $%d", argPos, argPos+1)
		args = append(args, start, end)
		argPos += 2
	}
	query += fmt.Sprintf(" ORDER BY d.date DESC, d.id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit+1, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent deliveries: %w", err)
	}
	defer rows.Close()

	page := &models.RecentDeliveriesPage{Deliveries: []models.RecentDelivery{}}
	for rows.Next() {
		var d models.RecentDelivery
		var isoDate string
		if err := rows.Scan(&d.ID, &isoDate, &d.Deliverer, &d.Total); err != nil {
			return nil, fmt.Errorf("failed to scan recent delivery: %w", err)
		}
		d.Date = timeutil.FormatDisplayDate(isoDate)
		page.Deliveries = append(page.Deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(page.Deliveries) > limit {
		page.Deliveries = page.Deliveries[:limit]
		page.HasMore = true
	}
	return page, nil
}

// ListItemsForRange returns every line item delivered within the inclusive
// date range, joined with product and deliverer names. Ordered newest
// delivery first so downstream breakdowns come out pre-sorted.
func (r *DeliveryRepository) ListItemsForRange(ctx context.Context, start, end string) ([]models.LineItemRow, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT di.client_id, di.product_id, p.name, di.quantity, di.unit_price,
			d.id, TO_CHAR(d.date, 'YYYY-MM-DD'), COALESCE(u.name, '')
		FROM delivery_items di
		JOIN deliveries d ON d.id = di.delivery_id
		JOIN products p ON p.id = di.product_id
		LEFT JOIN users u ON u.id = d.deliverer_id
		WHERE d.date >= $1 AND d.date <= $2
		ORDER BY d.date DESC, d.id, di.id
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery items: %w", err)
	}
	defer rows.Close()

	var items []models.LineItemRow
	for rows.Next() {
		var item models.LineItemRow
		err := rows.Scan(
			&item.ClientID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice,
			&item.DeliveryID, &item.DeliveryDate, &item.DelivererName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ClientMonthTotals returns per-month delivered totals for one client,
// newest month first.
func (r *DeliveryRepository) ClientMonthTotals(ctx context.Context, clientID int) ([]models.MonthTotal, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT TO_CHAR(d.date, 'YYYY-MM') AS month,
			COALESCE(SUM(di.quantity * di.unit_price), 0)
		FROM delivery_items di
		JOIN deliveries d ON d.id = di.delivery_id
		WHERE di.client_id = $1
		GROUP BY month
		ORDER BY month DESC
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client month totals: %w", err)
	}
	defer rows.Close()

	var totals []models.MonthTotal
	for rows.Next() {
		var t models.MonthTotal
		if err := rows.Scan(&t.Month, &t.Total); err != nil {
			return nil, fmt.Errorf("failed to scan month total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// MonthBounds returns the first and last month with recorded deliveries.
// Both are empty when no deliveries exist.
func (r *DeliveryRepository) MonthBounds(ctx context.Context) (*models.MonthRange, error) {
	var min, max *string
	err := r.DB.QueryRow(ctx,
		`SELECT TO_CHAR(MIN(date), 'YYYY-MM'), TO_CHAR(MAX(date), 'YYYY-MM') FROM deliveries`,
	).Scan(&min, &max)
	if err != nil {
		return nil, fmt.Errorf("failed to get month bounds: %w", err)
	}

	bounds := &models.MonthRange{}
	if min != nil {
		bounds.Min = *min
	}
	if max != nil {
		bounds.Max = *max
	}
	return bounds, nil
}

// MonthlySummary totals sales and costs for the inclusive date range.
func (r *DeliveryRepository) MonthlySummary(ctx context.Context, start, end string) (*models.DashboardSummary, error) {
	var s models.DashboardSummary
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_sales), 0), COALESCE(SUM(total_cost), 0)
		FROM deliveries
		WHERE date >= $1 AND date <= $2
	`, start, end).Scan(&s.Sales, &s.Costs)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly summary: %w", err)
	}
	s.Result = s.Sales - s.Costs
	return &s, nil
}

// RevenueByClient returns per-client revenue for the inclusive date range,
// largest first.
func (r *DeliveryRepository) RevenueByClient(ctx context.Context, start, end string) ([]models.ChartEntry, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT COALESCE(NULLIF(c.name, ''), c.razao_social, '') AS client_name,
			COALESCE(SUM(di.quantity * di.unit_price), 0) AS revenue
		FROM delivery_items di
		JOIN deliveries d ON d.id = di.delivery_id
		JOIN clients c ON c.id = di.client_id
		WHERE d.date >= $1 AND d.date <= $2
		GROUP BY client_name
		ORDER BY revenue DESC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue by client: %w", err)
	}
	defer rows.Close()

	var entries []models.ChartEntry
	for rows.Next() {
		var e models.ChartEntry
		if err := rows.Scan(&e.Name, &e.Value); err != nil {
			return nil, fmt.Errorf("failed to scan chart entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
