package services

import (
	"context"

	"entrega-backend/internal/asaas"
	"entrega-backend/internal/models"
)

// LineItemSource supplies delivered line items for aggregation.
type LineItemSource interface {
	ListItemsForRange(ctx context.Context, start, end string) ([]models.LineItemRow, error)
	ClientMonthTotals(ctx context.Context, clientID int) ([]models.MonthTotal, error)
}

// LedgerStore is the monthly invoice ledger.
type LedgerStore interface {
	Get(ctx context.Context, clientID int, month string) (*models.MonthlyInvoice, error)
	ListByMonth(ctx context.Context, month string) (map[int]*models.MonthlyInvoice, error)
	ListByClient(ctx context.Context, clientID int) ([]models.MonthlyInvoice, error)
	UpsertClosing(ctx context.Context, clientID int, month string, total float64) error
	Validate(ctx context.Context, clientID int, month string, total float64) (bool, error)
	SetCharge(ctx context.Context, clientID int, month, chargeID, invoiceURL string) (bool, error)
}

// ClientDirectory supplies client records for aggregation and billing.
type ClientDirectory interface {
	GetAll(ctx context.Context) ([]models.Client, error)
	GetByID(ctx context.Context, id int) (*models.Client, error)
	SetBillingCustomerID(ctx context.Context, id int, customerID string) error
}

// BillingProvider is the external charge API.
type BillingProvider interface {
	FindCustomerByDocument(ctx context.Context, document string) (*asaas.Customer, error)
	CreateCustomer(ctx context.Context, req *asaas.CustomerRequest) (*asaas.Customer, error)
	CreatePayment(ctx context.Context, req *asaas.PaymentRequest) (*asaas.Payment, error)
	GetPayment(ctx context.Context, id string) (*asaas.Payment, error)
}
