package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"entrega-backend/internal/models"
	"entrega-backend/internal/repositories"
	"github.com/jackc/pgx/v5"
)

// ErrClientHasDeliveries is returned when deleting a client with history.
var ErrClientHasDeliveries = errors.New("client has deliveries and cannot be deleted")

type ClientService struct {
	clients *repositories.ClientRepository
}

func NewClientService(clients *repositories.ClientRepository) *ClientService {
	return &ClientService{clients: clients}
}

func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	return s.clients.GetAll(ctx)
}

func (s *ClientService) Get(ctx context.Context, id int) (*models.ClientWithPricing, error) {
	client, err := s.clients.GetWithPricing(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	return client, nil
}

// Save creates (id == 0) or updates a client together with its price list
// and weekly schedule.
func (s *ClientService) Save(ctx context.Context, id int, req *models.SaveClientRequest) (int, error) {
	if err := validateClient(req); err != nil {
		return 0, err
	}

	savedID, err := s.clients.Save(ctx, id, req)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrClientNotFound
	}
	if err != nil {
		return 0, err
	}
	log.Printf("[Client] Saved client %d (%d price(s), %d schedule slot(s))",
		savedID, len(req.Products), len(req.Schedule))
	return savedID, nil
}

func (s *ClientService) Delete(ctx context.Context, id int) error {
	err := s.clients.Delete(ctx, id)
	if errors.Is(err, repositories.ErrClientReferenced) {
		return ErrClientHasDeliveries
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrClientNotFound
	}
	return err
}

func validateClient(req *models.SaveClientRequest) error {
	if req.Type != models.ClientTypeIndividual && req.Type != models.ClientTypeOrganization {
		return fmt.Errorf("%w: invalid client type %q", ErrInvalidInput, req.Type)
	}
	if req.Name == "" && req.RazaoSocial == "" {
		return fmt.Errorf("%w: client needs a name", ErrInvalidInput)
	}
	if req.DueDay != nil && (*req.DueDay < 1 || *req.DueDay > 31) {
		return fmt.Errorf("%w: due day %d out of range", ErrInvalidInput, *req.DueDay)
	}
	for _, p := range req.Products {
		if p.Price < 0 {
			return fmt.Errorf("%w: negative price for product %d", ErrInvalidInput, p.ProductID)
		}
	}
	for _, e := range req.Schedule {
		if e.DayOfWeek < 0 || e.DayOfWeek > 6 {
			return fmt.Errorf("%w: invalid day of week %d", ErrInvalidInput, e.DayOfWeek)
		}
		if e.Quantity <= 0 {
			return fmt.Errorf("%w: invalid quantity for product %d", ErrInvalidInput, e.ProductID)
		}
	}
	return nil
}
