package main

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"entrega-backend/internal/asaas"
	"entrega-backend/internal/backup"
	"entrega-backend/internal/cache"
	"entrega-backend/internal/config"
	"entrega-backend/internal/database"
	"entrega-backend/internal/db"
	"entrega-backend/internal/handlers"
	"entrega-backend/internal/health"
	apphttp "entrega-backend/internal/http"
	"entrega-backend/internal/repositories"
	"entrega-backend/internal/services"
	"entrega-backend/internal/timeutil"
	"entrega-backend/migrations"
)

func main() {
	cfg := config.Load()

	if err := timeutil.Init(cfg.Invoicing.Timezone); err != nil {
		log.Fatalf("timezone init failed: %v", err)
	}
	log.Printf("[Server] Business timezone: %s", timeutil.Location())

	pool := db.Connect(cfg)
	defer pool.Close()

	ctx := context.Background()
	migrator := database.NewMigrator(pool, migrations.FS, ".")
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	c := cache.New()

	// Repositories
	clientRepo := repositories.NewClientRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	deliveryRepo := repositories.NewDeliveryRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	userRepo := repositories.NewUserRepository(pool)

	// External collaborators
	var provider services.BillingProvider
	if cfg.Asaas.APIKey != "" {
		provider = asaas.NewClient(cfg.Asaas.APIURL, cfg.Asaas.APIKey)
	} else {
		log.Printf("[Server] ASAAS_API_KEY not set, charge creation disabled")
	}
	var exporter services.SnapshotExporter
	if e := backup.NewExporter(ctx); e != nil {
		exporter = e
	}

	// Services
	aggregationSvc := services.NewAggregationService(deliveryRepo, invoiceRepo, clientRepo)
	closingSvc := services.NewClosingService(deliveryRepo, invoiceRepo, clientRepo, exporter)
	billingSvc := services.NewBillingService(invoiceRepo, clientRepo, provider)
	deliverySvc := services.NewDeliveryService(deliveryRepo, c)
	clientSvc := services.NewClientService(clientRepo)
	productSvc := services.NewProductService(productRepo)
	dashboardSvc := services.NewDashboardService(deliveryRepo, c)
	reportSvc := services.NewReportService(aggregationSvc)

	// Handlers
	h := &apphttp.Handlers{
		Invoices:   handlers.NewInvoiceHandler(aggregationSvc, billingSvc, reportSvc, c),
		Cron:       handlers.NewCronHandler(closingSvc, cfg.Invoicing.CronSecret),
		Clients:    handlers.NewClientHandler(clientSvc),
		Products:   handlers.NewProductHandler(productSvc),
		Deliveries: handlers.NewDeliveryHandler(deliverySvc, userRepo),
		Dashboard:  handlers.NewDashboardHandler(dashboardSvc),
		Health:     handlers.NewHealthHandler(health.NewChecker(pool, c)),
	}

	router := apphttp.NewRouter(cfg, h)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &stdhttp.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[Server] Listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Server] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Server] Forced shutdown: %v", err)
	}
}
