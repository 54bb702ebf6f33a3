package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("========================================")
	fmt.Println("   Reset Database for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("⚠️  WARNING: This will DELETE ALL DATA!")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all deliveries and line items")
	fmt.Println("  - Delete all monthly invoices")
	fmt.Println("  - Delete all clients, prices and schedules")
	fmt.Println("  - Delete all products")
	fmt.Println("  - Delete all users (a default deliverer is recreated)")
	fmt.Println("  - Reset all ID sequences")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	// Load environment variables
	godotenv.Load()

	// Database connection
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "entrega_db")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	fmt.Println()
	fmt.Println("🔄 Resetting database...")

	ctx := context.Background()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v\n", err)
	}
	defer tx.Rollback(ctx)

	// Disable foreign key checks
	_, err = tx.Exec(ctx, "SET session_replication_role = 'replica'")
	if err != nil {
		log.Fatalf("Failed to disable foreign key checks: %v\n", err)
	}

	// Truncate all tables
	tables := []string{
		"monthly_invoices",
		"delivery_items",
		"deliveries",
		"delivery_schedules",
		"client_product_prices",
		"clients",
		"products",
		"users",
	}

	for _, table := range tables {
		_, err = tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			log.Fatalf("Failed to truncate %s: %v\n", table, err)
		}
		fmt.Printf("  ✓ Cleared %s\n", table)
	}

	// Re-enable foreign key checks
	_, err = tx.Exec(ctx, "SET session_replication_role = 'origin'")
	if err != nil {
		log.Fatalf("Failed to enable foreign key checks: %v\n", err)
	}

	// Reset sequences
	sequences := []string{
		"users_id_seq",
		"clients_id_seq",
		"products_id_seq",
		"client_product_prices_id_seq",
		"delivery_schedules_id_seq",
		"deliveries_id_seq",
		"delivery_items_id_seq",
		"monthly_invoices_id_seq",
	}

	for _, seq := range sequences {
		_, err = tx.Exec(ctx, fmt.Sprintf("ALTER SEQUENCE %s RESTART WITH 1", seq))
		if err != nil {
			log.Printf("Warning: Failed to reset sequence %s: %v\n", seq, err)
		}
	}
	fmt.Println("  ✓ Reset ID sequences")

	// Create default deliverer so the delivery form has someone to pick
	_, err = tx.Exec(ctx, `
		INSERT INTO users (name, email, created_at)
		VALUES ($1, $2, NOW())`,
		"Entregador Padrão",
		"entregador@entrega.local",
	)
	if err != nil {
		log.Fatalf("Failed to create default deliverer: %v\n", err)
	}
	fmt.Println("  ✓ Created default deliverer")

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v\n", err)
	}

	fmt.Println()
	fmt.Println("✅ Database reset complete!")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
