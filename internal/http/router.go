package http

import (
	"net/http"

	"entrega-backend/internal/config"
	"entrega-backend/internal/handlers"
	"entrega-backend/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Invoices   *handlers.InvoiceHandler
	Cron       *handlers.CronHandler
	Clients    *handlers.ClientHandler
	Products   *handlers.ProductHandler
	Deliveries *handlers.DeliveryHandler
	Dashboard  *handlers.DashboardHandler
	Health     *handlers.HealthHandler
}

// NewRouter wires all routes and middleware.
func NewRouter(cfg *config.Config, h *Handlers) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.PanicRecovery)
	r.Use(middleware.Metrics)

	r.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	invoices := api.PathPrefix("/invoices").Subrouter()
	invoices.HandleFunc("", h.Invoices.List).Methods(http.MethodGet)
	invoices.HandleFunc("/{clientId:[0-9]+}", h.Invoices.Details).Methods(http.MethodGet)
	invoices.HandleFunc("/{clientId:[0-9]+}/history", h.Invoices.History).Methods(http.MethodGet)
	invoices.HandleFunc("/{clientId:[0-9]+}/validate", h.Invoices.Validate).Methods(http.MethodPost)
	invoices.HandleFunc("/{clientId:[0-9]+}/charge", h.Invoices.CreateCharge).Methods(http.MethodPost)
	invoices.HandleFunc("/{clientId:[0-9]+}/payment-link", h.Invoices.PaymentLink).Methods(http.MethodGet)
	invoices.HandleFunc("/{clientId:[0-9]+}/pdf", h.Invoices.PDF).Methods(http.MethodGet)

	api.HandleFunc("/jobs/close-monthly-invoices", h.Cron.CloseMonthlyInvoices).Methods(http.MethodPost)

	clients := api.PathPrefix("/clients").Subrouter()
	clients.HandleFunc("", h.Clients.List).Methods(http.MethodGet)
	clients.HandleFunc("", h.Clients.Create).Methods(http.MethodPost)
	clients.HandleFunc("/{id:[0-9]+}", h.Clients.Get).Methods(http.MethodGet)
	clients.HandleFunc("/{id:[0-9]+}", h.Clients.Update).Methods(http.MethodPut)
	clients.HandleFunc("/{id:[0-9]+}", h.Clients.Delete).Methods(http.MethodDelete)

	products := api.PathPrefix("/products").Subrouter()
	products.HandleFunc("", h.Products.List).Methods(http.MethodGet)
	products.HandleFunc("", h.Products.Create).Methods(http.MethodPost)
	products.HandleFunc("/{id:[0-9]+}", h.Products.Get).Methods(http.MethodGet)
	products.HandleFunc("/{id:[0-9]+}", h.Products.Update).Methods(http.MethodPut)
	products.HandleFunc("/{id:[0-9]+}", h.Products.Delete).Methods(http.MethodDelete)

	deliveries := api.PathPrefix("/deliveries").Subrouter()
	deliveries.HandleFunc("", h.Deliveries.ListRecent).Methods(http.MethodGet)
	deliveries.HandleFunc("", h.Deliveries.Create).Methods(http.MethodPost)
	deliveries.HandleFunc("/{id:[0-9]+}", h.Deliveries.Get).Methods(http.MethodGet)
	deliveries.HandleFunc("/{id:[0-9]+}", h.Deliveries.Update).Methods(http.MethodPut)
	deliveries.HandleFunc("/{id:[0-9]+}", h.Deliveries.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/deliverers", h.Deliveries.ListDeliverers).Methods(http.MethodGet)

	dashboard := api.PathPrefix("/dashboard").Subrouter()
	dashboard.HandleFunc("/stats", h.Dashboard.Stats).Methods(http.MethodGet)
	dashboard.HandleFunc("/months", h.Dashboard.MonthBounds).Methods(http.MethodGet)

	return middleware.CORS(cfg)(r)
}
