package services

import (
	"context"
	"testing"
	"time"

	"entrega-backend/internal/asaas"
	"entrega-backend/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func validatedRow(total float64) *models.MonthlyInvoice {
	return &models.MonthlyInvoice{
		ClientID: 1, Month: "2026-02", Status: models.InvoiceStatusValidated, Total: total,
	}
}

func TestValidateWinsOnce(t *testing.T) {
	ledger := new(mockLedgerStore)
	clients := new(mockClientDirectory)
	clients.On("GetByID", mock.Anything, 1).Return(&models.Client{ID: 1, Name: "Padaria Central"}, nil)
	ledger.On("Validate", mock.Anything, 1, "2026-02", 25.00).Return(true, nil).Once()
	ledger.On("Validate", mock.Anything, 1, "2026-02", 25.00).Return(false, nil).Once()

	svc := NewBillingService(ledger, clients, nil)
	req := &models.ValidateInvoiceRequest{Month: "2026-02", Total: 25.00}

	require.NoError(t, svc.Validate(context.Background(), 1, req))
	require.ErrorIs(t, svc.Validate(context.Background(), 1, req), ErrAlreadyValidated)
}

func TestValidateUnknownClient(t *testing.T) {
	clients := new(mockClientDirectory)
	clients.On("GetByID", mock.Anything, 99).Return(nil, nil)

	svc := NewBillingService(new(mockLedgerStore), clients, nil)
	err := svc.Validate(context.Background(), 99, &models.ValidateInvoiceRequest{Month: "2026-02"})
	require.ErrorIs(t, err, ErrClientNotFound)
}

func TestCreateChargeRequiresValidation(t *testing.T) {
	ledger := new(mockLedgerStore)
	clients := new(mockClientDirectory)
	provider := new(mockBillingProvider)

	clients.On("GetByID", mock.Anything, 1).Return(&models.Client{ID: 1, Document: "12345678000190"}, nil)
	ledger.On("Get", mock.Anything, 1, "2026-02").Return(&models.MonthlyInvoice{
		ClientID: 1, Month: "2026-02", Status: models.InvoiceStatusClosed, Total: 25.00,
	}, nil)

	svc := NewBillingService(ledger, clients, provider)
	_, err := svc.CreateCharge(context.Background(), 1, &models.CreateChargeRequest{Month: "2026-02"})
	require.ErrorIs(t, err, ErrNotValidated)
	provider.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
}

func TestCreateChargeWithoutLedgerRow(t *testing.T) {
	ledger := new(mockLedgerStore)
	clients := new(mockClientDirectory)

	clients.On("GetByID", mock.Anything, 1).Return(&models.Client{ID: 1, Document: "12345678000190"}, nil)
	ledger.On("Get", mock.Anything, 1, "2026-02").Return(nil, nil)

	svc := NewBillingService(ledger, clients, new(mockBillingProvider))
	_, err := svc.CreateCharge(context.Background(), 1, &models.CreateChargeRequest{Month: "2026-02"})
	require.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestCreateChargeRejectsExistingCharge(t *testing.T) {
	ledger := new(mockLedgerStore)
	clients := new(mockClientDirectory)
	provider := new(mockBillingProvider)

	row := validatedRow(25.00)
	row.ChargeID = strPtr("pay_123")
	clients.On("GetByID", mock.Anything, 1).Return(&models.Client{ID: 1, Document: "12345678000190"}, nil)
	ledger.On("Get", mock.Anything, 1, "2026-02").Return(row, nil)

	svc := NewBillingService(ledger, clients, provider)
	_, err := svc.CreateCharge(context.Background(), 1, &models.CreateChargeRequest{Month: "2026-02"})
	require.ErrorIs(t, err, ErrAlreadyCharged)
}

func TestCreateChargeRejectsZeroTotal(t *testing.T) {
	ledger := new(mockLedgerStore)
	clients := new(mockClientDirectory)

	clients.On("GetByID", mock.Anything, 1).Return(&models.Client{ID: 1, Document: "12345678000190"}, nil)
	ledger.On("Get", mock.Anything, 1, "2026-02").Return(validatedRow(0), nil)

	svc := NewBillingService(ledger, clients, new(mockBillingProvider))
	_, err := svc.CreateCharge(context.Background(), 1, &models.CreateChargeRequest{Month: "2026-02"})
	require.ErrorIs(t, err, ErrZeroTotal)
}

func TestCreateChargeRequiresDocument(t *testing.T) {
	ledger := new(mockLedgerStore)
	clients := new(mockClientDirectory)

	clients.On("GetByID", mock.Anything, 1).Return(&models.Client{ID: 1, Name: "Padaria Central"}, nil)
	ledger.On("Get", mock.Anything, 1, "2026-02").Return(validatedRow(25.00), nil)

	svc := NewBillingService(ledger, clients, new(mockBillingProvider))
	_, err := svc.CreateCharge(context.Background(), 1, &models.CreateChargeRequest{Month: "2026-02"})
	require.ErrorIs(t, err, ErrMissingDocument)
}

func TestCreateChargePixForIndividuals(t *testing.T) {
	ledger := new(mockLedgerStore)
	clients := new(mockClientDirectory)
	provider := new(mockBillingProvider)

	// 11-digit CPF selects PIX.
	clients.On("GetByID", mock.Anything, 1).Return(&models.Client{
		ID: 1, Name: "João", Document: "123.456.789-09", AsaasCustomerID: "cus_1",
	}, nil)
	ledger.On("Get", mock.Anything, 1, "2026-02").Return(validatedRow(25.00), nil)
	provider.On("CreatePayment", mock.Anything, mock.MatchedBy(func(req *asaas.PaymentRequest) bool {
		return req.BillingType == asaas.BillingTypePix && req.Customer == "cus_1" && req.Value == 25.00
	})).Return(&asaas.Payment{ID: "pay_9", InvoiceURL: "https://asaas/i/pay_9"}, nil)
	ledger.On("SetCharge", mock.Anything, 1, "2026-02", "pay_9", "https://asaas/i/pay_9").Return(true, nil)

	svc := NewBillingService(ledger, clients, provider)
	result, err := svc.CreateCharge(context.Background(), 1, &models.CreateChargeRequest{Month: "2026-02"})
	require.NoError(t, err)
	require.Equal(t, "pay_9", result.ChargeID)
	require.Equal(t, asaas.BillingTypePix, result.BillingType)
	require.Equal(t, "https://asaas/i/pay_9", result.InvoiceURL)
}

func TestCreateChargeBoletoForOrganizations(t *testing.T) {
	ledger := new(mockLedgerStore)
	clients := new(mockClientDirectory)
	provider := new(mockBillingProvider)

	clients.On("GetByID", mock.Anything, 1).Return(&models.Client{
		ID: 1, Name: "Padaria Central", Document: "12.345.678/0001-90", AsaasCustomerID: "cus_1",
	}, nil)
	ledger.On("Get", mock.Anything, 1, "2026-02").Return(validatedRow(25.00), nil)
	provider.On("CreatePayment", mock.Anything, mock.MatchedBy(func(req *asaas.PaymentRequest) bool {
		return req.BillingType == asaas.BillingTypeBoleto
	})).Return(&asaas.Payment{ID: "pay_10"}, nil)
	ledger.On("SetCharge", mock.Anything, 1, "2026-02", "pay_10", "").Return(true, nil)

	svc := NewBillingService(ledger, clients, provider)
	result, err := svc.CreateCharge(context.Background(), 1, &models.CreateChargeRequest{Month: "2026-02"})
	require.NoError(t, err)
	require.Equal(t, asaas.BillingTypeBoleto, result.BillingType)
}

func TestCreateChargeCreatesCustomerOnFirstContact(t *testing.T) {
	ledger := new(mockLedgerStore)
	clients := new(mockClientDirectory)
	provider := new(mockBillingProvider)

	clients.On("GetByID", mock.Anything, 1).Return(&models.Client{
		ID: 1, Name: "Padaria Central", Document: "12345678000190",
	}, nil)
	ledger.On("Get", mock.Anything, 1, "2026-02").Return(validatedRow(25.00), nil)
	provider.On("FindCustomerByDocument", mock.Anything, "12345678000190").Return(nil, nil)
	provider.On("CreateCustomer", mock.Anything, mock.MatchedBy(func(req *asaas.CustomerRequest) bool {
		return req.CpfCnpj == "12345678000190" && req.Name == "Padaria Central"
	})).Return(&asaas.Customer{ID: "cus_new"}, nil)
	clients.On("SetBillingCustomerID", mock.Anything, 1, "cus_new").Return(nil)
	provider.On("CreatePayment", mock.Anything, mock.MatchedBy(func(req *asaas.PaymentRequest) bool {
		return req.Customer == "cus_new"
	})).Return(&asaas.Payment{ID: "pay_11"}, nil)
	ledger.On("SetCharge", mock.Anything, 1, "2026-02", "pay_11", "").Return(true, nil)

	svc := NewBillingService(ledger, clients, provider)
	_, err := svc.CreateCharge(context.Background(), 1, &models.CreateChargeRequest{Month: "2026-02"})
	require.NoError(t, err)
	provider.AssertExpectations(t)
	clients.AssertExpectations(t)
}

func TestCreateChargeLostRaceReportsConflict(t *testing.T) {
	ledger := new(mockLedgerStore)
	clients := new(mockClientDirectory)
	provider := new(mockBillingProvider)

	clients.On("GetByID", mock.Anything, 1).Return(&models.Client{
		ID: 1, Name: "Padaria Central", Document: "12345678000190", AsaasCustomerID: "cus_1",
	}, nil)
	ledger.On("Get", mock.Anything, 1, "2026-02").Return(validatedRow(25.00), nil)
	provider.On("CreatePayment", mock.Anything, mock.Anything).Return(&asaas.Payment{ID: "pay_12"}, nil)
	ledger.On("SetCharge", mock.Anything, 1, "2026-02", "pay_12", "").Return(false, nil)

	svc := NewBillingService(ledger, clients, provider)
	_, err := svc.CreateCharge(context.Background(), 1, &models.CreateChargeRequest{Month: "2026-02"})
	require.ErrorIs(t, err, ErrAlreadyCharged)
}

func TestPaymentLinkPrefersStoredURL(t *testing.T) {
	ledger := new(mockLedgerStore)
	row := validatedRow(25.00)
	row.ChargeID = strPtr("pay_1")
	row.InvoiceURL = strPtr("https://asaas/i/pay_1")
	ledger.On("Get", mock.Anything, 1, "2026-02").Return(row, nil)

	svc := NewBillingService(ledger, new(mockClientDirectory), nil)
	link, err := svc.PaymentLink(context.Background(), 1, "2026-02")
	require.NoError(t, err)
	require.Equal(t, "https://asaas/i/pay_1", link)
}

func TestPaymentLinkWithoutCharge(t *testing.T) {
	ledger := new(mockLedgerStore)
	ledger.On("Get", mock.Anything, 1, "2026-02").Return(validatedRow(25.00), nil)

	svc := NewBillingService(ledger, new(mockClientDirectory), nil)
	_, err := svc.PaymentLink(context.Background(), 1, "2026-02")
	require.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestDueDateFor(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, loc)

	tests := []struct {
		name   string
		dueDay *int
		want   string
	}{
		{"no due day falls back to five days out", nil, "2026-02-25"},
		{"due day later this month", intPtr(25), "2026-02-25"},
		{"due day already passed rolls to next month", intPtr(15), "2026-03-15"},
		{"due day equal to today rolls to next month", intPtr(20), "2026-03-20"},
		{"due day clamped to month length", intPtr(31), "2026-02-28"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, dueDateFor(now, tt.dueDay))
		})
	}
}

func TestDueDateForClampsRolledMonth(t *testing.T) {
	// Due day 31 on January 31: rolls to February and clamps to the 28th.
	now := time.Date(2026, 1, 31, 8, 0, 0, 0, time.UTC)
	require.Equal(t, "2026-02-28", dueDateFor(now, intPtr(31)))
}
