package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"entrega-backend/internal/models"
	"entrega-backend/internal/services"
	"entrega-backend/pkg/utils"
	"github.com/gorilla/mux"
)

type ClientHandler struct {
	clients *services.ClientService
}

func NewClientHandler(clients *services.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}
	utils.JSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid client id")
		return
	}

	client, err := h.clients.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.SaveClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.clients.Save(r.Context(), 0, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]int{"id": id})
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid client id")
		return
	}

	var req models.SaveClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.clients.Save(r.Context(), id, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int{"id": id})
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid client id")
		return
	}

	if err := h.clients.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusNoContent, nil)
}
