package services

import (
	"context"

	"entrega-backend/internal/cache"
	"entrega-backend/internal/models"
	"entrega-backend/internal/repositories"
	"entrega-backend/internal/timeutil"
)

// DashboardService aggregates a month's deliveries into the sales/costs
// summary and the revenue-by-client chart. Results are cached per month.
type DashboardService struct {
	deliveries *repositories.DeliveryRepository
	cache      *cache.Cache
}

func NewDashboardService(deliveries *repositories.DeliveryRepository, c *cache.Cache) *DashboardService {
	return &DashboardService{deliveries: deliveries, cache: c}
}

// Stats returns the dashboard payload for a month, defaulting to the
// current business month.
func (s *DashboardService) Stats(ctx context.Context, month string) (*models.DashboardStats, error) {
	if month == "" {
		month = timeutil.CurrentMonth()
	}
	start, end, err := timeutil.MonthRange(month)
	if err != nil {
		return nil, ErrInvalidMonth
	}

	key := cache.DashboardKey(month)
	var cached models.DashboardStats
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	summary, err := s.deliveries.MonthlySummary(ctx, start, end)
	if err != nil {
		return nil, err
	}
	chart, err := s.deliveries.RevenueByClient(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if chart == nil {
		chart = []models.ChartEntry{}
	}

	stats := &models.DashboardStats{Summary: *summary, ChartData: chart}
	s.cache.SetJSON(ctx, key, stats)
	return stats, nil
}

// MonthBounds returns the span of months that have deliveries, for the
// month picker.
func (s *DashboardService) MonthBounds(ctx context.Context) (*models.MonthRange, error) {
	return s.deliveries.MonthBounds(ctx)
}
