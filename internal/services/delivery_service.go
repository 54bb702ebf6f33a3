package services

import (
	"context"
	"errors"
	"log"

	"entrega-backend/internal/cache"
	"entrega-backend/internal/models"
	"entrega-backend/internal/repositories"
	"entrega-backend/internal/timeutil"
	"github.com/jackc/pgx/v5"
)

// DeliveryService manages delivery runs. Every mutation invalidates the
// cached month views, since deliveries feed both invoices and the dashboard.
type DeliveryService struct {
	deliveries *repositories.DeliveryRepository
	cache      *cache.Cache
}

func NewDeliveryService(deliveries *repositories.DeliveryRepository, c *cache.Cache) *DeliveryService {
	return &DeliveryService{deliveries: deliveries, cache: c}
}

// Create records a delivery for today in the business timezone.
func (s *DeliveryService) Create(ctx context.Context, req *models.SaveDeliveryRequest) (int, error) {
	date := timeutil.Now().Format(timeutil.DateLayout)
	id, err := s.deliveries.Create(ctx, date, req)
	if err != nil {
		return 0, err
	}
	s.invalidateMonthViews(ctx)
	log.Printf("[Delivery] Created delivery %d for %s", id, date)
	return id, nil
}

func (s *DeliveryService) Update(ctx context.Context, id int, req *models.SaveDeliveryRequest) error {
	err := s.deliveries.Update(ctx, id, req)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDeliveryNotFound
	}
	if err != nil {
		return err
	}
	s.invalidateMonthViews(ctx)
	return nil
}

func (s *DeliveryService) Delete(ctx context.Context, id int) error {
	err := s.deliveries.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDeliveryNotFound
	}
	if err != nil {
		return err
	}
	s.invalidateMonthViews(ctx)
	return nil
}

func (s *DeliveryService) GetDetails(ctx context.Context, id int) (*models.DeliveryDetails, error) {
	details, err := s.deliveries.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, ErrDeliveryNotFound
	}
	return details, nil
}

// ListRecent pages through deliveries, optionally filtered to one month.
func (s *DeliveryService) ListRecent(ctx context.Context, month string, limit, offset int) (*models.RecentDeliveriesPage, error) {
	if month != "" {
		if _, err := timeutil.ParseMonth(month); err != nil {
			return nil, ErrInvalidMonth
		}
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return s.deliveries.ListRecent(ctx, month, limit, offset)
}

func (s *DeliveryService) invalidateMonthViews(ctx context.Context) {
	s.cache.InvalidatePrefix(ctx, cache.DashboardPrefix())
	s.cache.InvalidatePrefix(ctx, cache.InvoicesPrefix())
}
