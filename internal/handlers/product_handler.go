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

type ProductHandler struct {
	products *services.ProductService
}

func NewProductHandler(products *services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	utils.JSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.products.Create(r.Context(), &product)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]int{"id": id})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	product.ID = id

	if err := h.products.Update(r.Context(), &product); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int{"id": id})
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusNoContent, nil)
}
