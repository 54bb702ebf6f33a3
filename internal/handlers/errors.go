package handlers

import (
	"errors"
	"log"
	"net/http"

	"entrega-backend/internal/services"
	"entrega-backend/pkg/utils"
)

// writeServiceError maps service sentinels onto HTTP statuses. Anything
// unmapped is a 500 and gets logged; client mistakes do not.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrClientNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrDeliveryNotFound),
		errors.Is(err, services.ErrInvoiceNotFound):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidMonth),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrZeroTotal),
		errors.Is(err, services.ErrMissingDocument),
		errors.Is(err, services.ErrNotValidated),
		errors.Is(err, services.ErrAlreadyValidated),
		errors.Is(err, services.ErrAlreadyCharged):
		utils.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrClientHasDeliveries),
		errors.Is(err, services.ErrProductHasDeliveries):
		utils.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrBillingUnavailable):
		utils.Error(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("[HTTP] Internal error: %v", err)
		utils.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
