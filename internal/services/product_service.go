package services

import (
	"context"
	"errors"
	"fmt"

	"entrega-backend/internal/models"
	"entrega-backend/internal/repositories"
	"github.com/jackc/pgx/v5"
)

// ErrProductHasDeliveries is returned when deleting a product with history.
var ErrProductHasDeliveries = errors.New("product has deliveries and cannot be deleted")

type ProductService struct {
	products *repositories.ProductRepository
}

func NewProductService(products *repositories.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.GetAll(ctx)
}

func (s *ProductService) Get(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, p *models.Product) (int, error) {
	if err := validateProduct(p); err != nil {
		return 0, err
	}
	return s.products.Create(ctx, p)
}

func (s *ProductService) Update(ctx context.Context, p *models.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	err := s.products.Update(ctx, p)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrProductNotFound
	}
	return err
}

func (s *ProductService) Delete(ctx context.Context, id int) error {
	err := s.products.Delete(ctx, id)
	if errors.Is(err, repositories.ErrProductReferenced) {
		return ErrProductHasDeliveries
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrProductNotFound
	}
	return err
}

func validateProduct(p *models.Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: product needs a name", ErrInvalidInput)
	}
	if p.Unit != "KG" && p.Unit != "UN" {
		return fmt.Errorf("%w: invalid unit %q", ErrInvalidInput, p.Unit)
	}
	if p.CostPrice < 0 {
		return fmt.Errorf("%w: negative cost price", ErrInvalidInput)
	}
	return nil
}
