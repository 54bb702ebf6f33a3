package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"entrega-backend/internal/asaas"
	"entrega-backend/internal/metrics"
	"entrega-backend/internal/models"
	"entrega-backend/internal/timeutil"
)

// BillingService validates invoices and turns validated invoices into
// charges at the billing provider.
type BillingService struct {
	ledger   LedgerStore
	clients  ClientDirectory
	provider BillingProvider
}

func NewBillingService(ledger LedgerStore, clients ClientDirectory, provider BillingProvider) *BillingService {
	return &BillingService{ledger: ledger, clients: clients, provider: provider}
}

// Validate freezes an invoice at the reviewed total. Exactly one validation
// wins; concurrent or repeated calls get ErrAlreadyValidated.
func (s *BillingService) Validate(ctx context.Context, clientID int, req *models.ValidateInvoiceRequest) error {
	if _, err := timeutil.ParseMonth(req.Month); err != nil {
		return ErrInvalidMonth
	}
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	if client == nil {
		return ErrClientNotFound
	}

	won, err := s.ledger.Validate(ctx, clientID, req.Month, req.Total)
	if err != nil {
		return err
	}
	if !won {
		return ErrAlreadyValidated
	}
	log.Printf("[Billing] Invoice validated: client=%d month=%s total=%.2f", clientID, req.Month, req.Total)
	return nil
}

// CreateCharge creates a charge at the billing provider for a validated
// invoice. Preconditions: the invoice is validated, carries a positive
// total and has no charge yet. At most one charge is ever attached per
// client month.
func (s *BillingService) CreateCharge(ctx context.Context, clientID int, req *models.CreateChargeRequest) (*models.ChargeResult, error) {
	if s.provider == nil {
		return nil, ErrBillingUnavailable
	}
	if _, err := timeutil.ParseMonth(req.Month); err != nil {
		return nil, ErrInvalidMonth
	}

	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	row, err := s.ledger.Get(ctx, clientID, req.Month)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrInvoiceNotFound
	}
	if row.Status != models.InvoiceStatusValidated {
		return nil, ErrNotValidated
	}
	if row.ChargeID != nil && *row.ChargeID != "" {
		return nil, ErrAlreadyCharged
	}
	if row.Total <= 0 {
		return nil, ErrZeroTotal
	}

	document := digitsOnly(client.Document)
	if document == "" {
		return nil, ErrMissingDocument
	}

	customerID, err := s.resolveCustomer(ctx, client, document)
	if err != nil {
		return nil, err
	}

	billingType := asaas.BillingTypeBoleto
	if len(document) == 11 {
		billingType = asaas.BillingTypePix
	}
	dueDate := dueDateFor(timeutil.Now(), client.DueDay)

	payment, err := s.provider.CreatePayment(ctx, &asaas.PaymentRequest{
		Customer:          customerID,
		BillingType:       billingType,
		Value:             row.Total,
		DueDate:           dueDate,
		Description:       fmt.Sprintf("Faturamento %s", req.Month),
		ExternalReference: fmt.Sprintf("client:%d;month:%s", clientID, req.Month),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create charge: %w", err)
	}

	attached, err := s.ledger.SetCharge(ctx, clientID, req.Month, payment.ID, payment.InvoiceURL)
	if err != nil {
		return nil, err
	}
	if !attached {
		// A concurrent request attached its charge first. This payment is
		// now orphaned at the provider and needs manual cancellation.
		log.Printf("[Billing] Charge race lost: client=%d month=%s orphaned payment=%s", clientID, req.Month, payment.ID)
		return nil, ErrAlreadyCharged
	}

	metrics.ChargesCreatedTotal.WithLabelValues(billingType).Inc()
	log.Printf("[Billing] Charge created: client=%d month=%s charge=%s type=%s due=%s",
		clientID, req.Month, payment.ID, billingType, dueDate)

	return &models.ChargeResult{
		ChargeID:    payment.ID,
		BillingType: billingType,
		DueDate:     dueDate,
		InvoiceURL:  payment.InvoiceURL,
	}, nil
}

// PaymentLink returns the provider's hosted payment page for a charged
// invoice.
func (s *BillingService) PaymentLink(ctx context.Context, clientID int, month string) (string, error) {
	row, err := s.ledger.Get(ctx, clientID, month)
	if err != nil {
		return "", err
	}
	if row == nil || row.ChargeID == nil || *row.ChargeID == "" {
		return "", ErrInvoiceNotFound
	}
	if row.InvoiceURL != nil && *row.InvoiceURL != "" {
		return *row.InvoiceURL, nil
	}
	if s.provider == nil {
		return "", ErrBillingUnavailable
	}
	payment, err := s.provider.GetPayment(ctx, *row.ChargeID)
	if err != nil {
		return "", err
	}
	return payment.InvoiceURL, nil
}

// resolveCustomer returns the provider customer id for a client, creating
// the customer on first contact. The id is cached on the client record.
func (s *BillingService) resolveCustomer(ctx context.Context, client *models.Client, document string) (string, error) {
	if client.AsaasCustomerID != "" {
		return client.AsaasCustomerID, nil
	}

	customer, err := s.provider.FindCustomerByDocument(ctx, document)
	if err != nil {
		return "", err
	}
	if customer == nil {
		customer, err = s.provider.CreateCustomer(ctx, &asaas.CustomerRequest{
			Name:              client.DisplayName(),
			CpfCnpj:           document,
			Email:             client.Email,
			MobilePhone:       digitsOnly(client.Whatsapp),
			PostalCode:        digitsOnly(client.AddressZip),
			Address:           client.AddressStreet,
			AddressNumber:     client.AddressNumber,
			Province:          client.AddressDistrict,
			ExternalReference: fmt.Sprintf("client:%d", client.ID),
		})
		if err != nil {
			return "", err
		}
	}

	if err := s.clients.SetBillingCustomerID(ctx, client.ID, customer.ID); err != nil {
		// Not fatal: the next charge repeats the lookup.
		log.Printf("[Billing] Failed to cache customer id for client %d: %v", client.ID, err)
	}
	return customer.ID, nil
}

// dueDateFor picks the charge due date. Clients with a configured due day
// get the next occurrence of that day (clamped to the month's length);
// everyone else gets five days from now.
func dueDateFor(now time.Time, dueDay *int) string {
	if dueDay == nil || *dueDay < 1 {
		return now.AddDate(0, 0, 5).Format(timeutil.DateLayout)
	}

	year, month := now.Year(), now.Month()
	if *dueDay <= now.Day() {
		month++
	}
	target := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	day := *dueDay
	if last := timeutil.LastDayOfMonth(target); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, now.Location()).Format(timeutil.DateLayout)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
