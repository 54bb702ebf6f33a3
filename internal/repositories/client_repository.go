package repositories

import (
	"context"
	"errors"
	"fmt"

	"entrega-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrClientReferenced is returned when a delete would orphan delivery history.
var ErrClientReferenced = errors.New("client has delivery records")

type ClientRepository struct {
	DB *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{DB: db}
}

const clientColumns = `
	id, COALESCE(type, 'PJ'), COALESCE(name, ''), COALESCE(razao_social, ''),
	COALESCE(document, ''), COALESCE(ie, ''), COALESCE(email, ''),
	COALESCE(whatsapp, ''), COALESCE(address_zip, ''), COALESCE(address_street, ''),
	COALESCE(address_number, ''), COALESCE(address_district, ''),
	COALESCE(address_city, ''), COALESCE(address_state, ''),
	due_day, COALESCE(asaas_customer_id, ''), created_at, updated_at
`

func scanClient(row pgx.Row) (*models.Client, error) {
	var c models.Client
	err := row.Scan(
		&c.ID, &c.Type, &c.Name, &c.RazaoSocial,
		&c.Document, &c.IE, &c.Email,
		&c.Whatsapp, &c.AddressZip, &c.AddressStreet,
		&c.AddressNumber, &c.AddressDistrict,
		&c.AddressCity, &c.AddressState,
		&c.DueDay, &c.AsaasCustomerID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) GetAll(ctx context.Context) ([]models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY COALESCE(NULLIF(name, ''), razao_social)`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) GetByID(ctx context.Context, id int) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	c, err := scanClient(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client %d: %w", id, err)
	}
	return c, nil
}

// GetWithPricing returns the client plus its price list and weekly schedule.
func (r *ClientRepository) GetWithPricing(ctx context.Context, id int) (*models.ClientWithPricing, error) {
	client, err := r.GetByID(ctx, id)
	if err != nil || client == nil {
		return nil, err
	}

	result := &models.ClientWithPricing{Client: *client}

	priceRows, err := r.DB.Query(ctx,
		`SELECT client_id, product_id, price FROM client_product_prices WHERE client_id = $1 ORDER BY product_id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get client prices: %w", err)
	}
	defer priceRows.Close()
	for priceRows.Next() {
		var p models.ClientProductPrice
		if err := priceRows.Scan(&p.ClientID, &p.ProductID, &p.Price); err != nil {
			return nil, fmt.Errorf("failed to scan client price: %w", err)
		}
		result.Products = append(result.Products, p)
	}
	if err := priceRows.Err(); err != nil {
		return nil, err
	}

	schedRows, err := r.DB.Query(ctx,
		`SELECT client_id, day_of_week, product_id, quantity FROM delivery_schedules WHERE client_id = $1 ORDER BY day_of_week, product_id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get client schedule: %w", err)
	}
	defer schedRows.Close()
	for schedRows.Next() {
		var s models.ScheduleEntry
		if err := schedRows.Scan(&s.ClientID, &s.DayOfWeek, &s.ProductID, &s.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		result.Schedule = append(result.Schedule, s)
	}
	return result, schedRows.Err()
}

// Save inserts or updates a client and replaces its price list and schedule
// in one transaction. id == 0 means insert; returns the client id.
func (r *ClientRepository) Save(ctx context.Context, id int, req *models.SaveClientRequest) (int, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if id == 0 {
		err = tx.QueryRow(ctx, `
			INSERT INTO clients (
				type, name, razao_social, document, ie, email, whatsapp,
				address_zip, address_street, address_number, address_district,
				address_city, address_state, due_day
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING id
		`,
			req.Type, req.Name, req.RazaoSocial, req.Document, req.IE,
			req.Email, req.Whatsapp, req.AddressZip, req.AddressStreet,
			req.AddressNumber, req.AddressDistrict, req.AddressCity,
			req.AddressState, req.DueDay,
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("failed to insert client: %w", err)
		}
	} else {
		tag, err := tx.Exec(ctx, `
			UPDATE clients SET
				type = $2, name = $3, razao_social = $4, document = $5, ie = $6,
				email = $7, whatsapp = $8, address_zip = $9, address_street = $10,
				address_number = $11, address_district = $12, address_city = $13,
				address_state = $14, due_day = $15, updated_at = NOW()
			WHERE id = $1
		`,
			id, req.Type, req.Name, req.RazaoSocial, req.Document, req.IE,
			req.Email, req.Whatsapp, req.AddressZip, req.AddressStreet,
			req.AddressNumber, req.AddressDistrict, req.AddressCity,
			req.AddressState, req.DueDay,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to update client: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return 0, pgx.ErrNoRows
		}
	}

	// Replace-all semantics: the request carries the complete price list and
	// schedule, so stale rows are removed first.
	if _, err := tx.Exec(ctx, `DELETE FROM client_product_prices WHERE client_id = $1`, id); err != nil {
		return 0, fmt.Errorf("failed to clear client prices: %w", err)
	}
	for _, p := range req.Products {
		_, err := tx.Exec(ctx, `
			INSERT INTO client_product_prices (client_id, product_id, price)
			VALUES ($1, $2, $3)
		`, id, p.ProductID, p.Price)
		if err != nil {
			return 0, fmt.Errorf("failed to insert client price: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM delivery_schedules WHERE client_id = $1`, id); err != nil {
		return 0, fmt.Errorf("failed to clear client schedule: %w", err)
	}
	for _, s := range req.Schedule {
		_, err := tx.Exec(ctx, `
			INSERT INTO delivery_schedules (client_id, product_id, day_of_week, quantity)
			VALUES ($1, $2, $3, $4)
		`, id, s.ProductID, s.DayOfWeek, s.Quantity)
		if err != nil {
			return 0, fmt.Errorf("failed to insert schedule entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit client save: %w", err)
	}
	return id, nil
}

// Delete removes a client. Clients with delivery history cannot be deleted;
// that would corrupt past invoices.
func (r *ClientRepository) Delete(ctx context.Context, id int) error {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM delivery_items WHERE client_id = $1`, id).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check client references: %w", err)
	}
	if count > 0 {
		return ErrClientReferenced
	}

	tag, err := r.DB.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetBillingCustomerID stores the billing provider's customer id so later
// charges skip the lookup-or-create round trip.
func (r *ClientRepository) SetBillingCustomerID(ctx context.Context, id int, customerID string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE clients SET asaas_customer_id = $2, updated_at = NOW() WHERE id = $1`, id, customerID)
	if err != nil {
		return fmt.Errorf("failed to set billing customer id: %w", err)
	}
	return nil
}
