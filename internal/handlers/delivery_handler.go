package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"entrega-backend/internal/models"
	"entrega-backend/internal/repositories"
	"entrega-backend/internal/services"
	"entrega-backend/pkg/utils"
	"github.com/gorilla/mux"
)

type DeliveryHandler struct {
	deliveries *services.DeliveryService
	users      *repositories.UserRepository
}

func NewDeliveryHandler(deliveries *services.DeliveryService, users *repositories.UserRepository) *DeliveryHandler {
	return &DeliveryHandler{deliveries: deliveries, users: users}
}

// ListRecent pages through deliveries, newest first. Query params: month,
// limit, offset.
func (h *DeliveryHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	page, err := h.deliveries.ListRecent(r.Context(), q.Get("month"), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, page)
}

func (h *DeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid delivery id")
		return
	}

	details, err := h.deliveries.GetDetails(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, details)
}

func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.SaveDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.deliveries.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]int{"id": id})
}

func (h *DeliveryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid delivery id")
		return
	}

	var req models.SaveDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.deliveries.Update(r.Context(), id, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int{"id": id})
}

func (h *DeliveryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid delivery id")
		return
	}

	if err := h.deliveries.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusNoContent, nil)
}

// ListDeliverers returns the deliverer directory for the delivery form.
func (h *DeliveryHandler) ListDeliverers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	utils.JSON(w, http.StatusOK, users)
}
