package repositories

import (
	"context"
	"errors"
	"fmt"

	"entrega-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrProductReferenced is returned when a delete would orphan delivery history.
var ErrProductReferenced = errors.New("product has delivery records")

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

const productColumns = `
	id, name, COALESCE(code, ''), unit, COALESCE(cost_price, 0),
	COALESCE(ncm, ''), COALESCE(csosn_cst, ''), COALESCE(cfop, ''),
	COALESCE(icms_rate, 0), COALESCE(ipi_rate, 0), created_at, updated_at
`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Code, &p.Unit, &p.CostPrice,
		&p.NCM, &p.CSOSNCST, &p.CFOP,
		&p.ICMSRate, &p.IPIRate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) (int, error) {
	var id int
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products (name, code, unit, cost_price, ncm, csosn_cst, cfop, icms_rate, ipi_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`,
		p.Name, p.Code, p.Unit, p.CostPrice, p.NCM, p.CSOSNCST, p.CFOP, p.ICMSRate, p.IPIRate,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}
	return id, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE products SET
			name = $2, code = $3, unit = $4, cost_price = $5,
			ncm = $6, csosn_cst = $7, cfop = $8, icms_rate = $9, ipi_rate = $10,
			updated_at = NOW()
		WHERE id = $1
	`,
		p.ID, p.Name, p.Code, p.Unit, p.CostPrice,
		p.NCM, p.CSOSNCST, p.CFOP, p.ICMSRate, p.IPIRate,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a product plus its price-list and schedule rows. Products
// already delivered cannot be deleted.
func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM delivery_items WHERE product_id = $1`, id).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check product references: %w", err)
	}
	if count > 0 {
		return ErrProductReferenced
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM client_product_prices WHERE product_id = $1`, id); err != nil {
		return fmt.Errorf("failed to clear product prices: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM delivery_schedules WHERE product_id = $1`, id); err != nil {
		return fmt.Errorf("failed to clear product schedules: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}
