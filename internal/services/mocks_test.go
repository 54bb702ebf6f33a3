package services

import (
	"context"

	"entrega-backend/internal/asaas"
	"entrega-backend/internal/models"
	"github.com/stretchr/testify/mock"
)

type mockLineItemSource struct {
	mock.Mock
}

func (m *mockLineItemSource) ListItemsForRange(ctx context.Context, start, end string) ([]models.LineItemRow, error) {
	args := m.Called(ctx, start, end)
	if items := args.Get(0); items != nil {
		return items.([]models.LineItemRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLineItemSource) ClientMonthTotals(ctx context.Context, clientID int) ([]models.MonthTotal, error) {
	args := m.Called(ctx, clientID)
	if totals := args.Get(0); totals != nil {
		return totals.([]models.MonthTotal), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockLedgerStore struct {
	mock.Mock
}

func (m *mockLedgerStore) Get(ctx context.Context, clientID int, month string) (*models.MonthlyInvoice, error) {
	args := m.Called(ctx, clientID, month)
	if row := args.Get(0); row != nil {
		return row.(*models.MonthlyInvoice), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLedgerStore) ListByMonth(ctx context.Context, month string) (map[int]*models.MonthlyInvoice, error) {
	args := m.Called(ctx, month)
	if rows := args.Get(0); rows != nil {
		return rows.(map[int]*models.MonthlyInvoice), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLedgerStore) ListByClient(ctx context.Context, clientID int) ([]models.MonthlyInvoice, error) {
	args := m.Called(ctx, clientID)
	if rows := args.Get(0); rows != nil {
		return rows.([]models.MonthlyInvoice), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLedgerStore) UpsertClosing(ctx context.Context, clientID int, month string, total float64) error {
	args := m.Called(ctx, clientID, month, total)
	return args.Error(0)
}

func (m *mockLedgerStore) Validate(ctx context.Context, clientID int, month string, total float64) (bool, error) {
	args := m.Called(ctx, clientID, month, total)
	return args.Bool(0), args.Error(1)
}

func (m *mockLedgerStore) SetCharge(ctx context.Context, clientID int, month, chargeID, invoiceURL string) (bool, error) {
	args := m.Called(ctx, clientID, month, chargeID, invoiceURL)
	return args.Bool(0), args.Error(1)
}

type mockClientDirectory struct {
	mock.Mock
}

func (m *mockClientDirectory) GetAll(ctx context.Context) ([]models.Client, error) {
	args := m.Called(ctx)
	if clients := args.Get(0); clients != nil {
		return clients.([]models.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientDirectory) GetByID(ctx context.Context, id int) (*models.Client, error) {
	args := m.Called(ctx, id)
	if client := args.Get(0); client != nil {
		return client.(*models.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientDirectory) SetBillingCustomerID(ctx context.Context, id int, customerID string) error {
	args := m.Called(ctx, id, customerID)
	return args.Error(0)
}

type mockBillingProvider struct {
	mock.Mock
}

func (m *mockBillingProvider) FindCustomerByDocument(ctx context.Context, document string) (*asaas.Customer, error) {
	args := m.Called(ctx, document)
	if c := args.Get(0); c != nil {
		return c.(*asaas.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBillingProvider) CreateCustomer(ctx context.Context, req *asaas.CustomerRequest) (*asaas.Customer, error) {
	args := m.Called(ctx, req)
	if c := args.Get(0); c != nil {
		return c.(*asaas.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBillingProvider) CreatePayment(ctx context.Context, req *asaas.PaymentRequest) (*asaas.Payment, error) {
	args := m.Called(ctx, req)
	if p := args.Get(0); p != nil {
		return p.(*asaas.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBillingProvider) GetPayment(ctx context.Context, id string) (*asaas.Payment, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*asaas.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}
