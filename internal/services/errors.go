package services

import "errors"

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	ErrClientNotFound     = errors.New("client not found")
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrDeliveryNotFound   = errors.New("delivery not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotValidated       = errors.New("invoice is not validated")
	ErrAlreadyValidated   = errors.New("invoice is already validated")
	ErrAlreadyCharged     = errors.New("invoice already has a charge")
	ErrZeroTotal          = errors.New("invoice total must be positive")
	ErrMissingDocument    = errors.New("client has no CPF/CNPJ on file")
	ErrBillingUnavailable = errors.New("billing provider unavailable")
)
