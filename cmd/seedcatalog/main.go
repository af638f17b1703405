// cmd/seedcatalog/main.go — seeds a demo tenant and a few products into the
// local store so a terminal can ring sales without a first pull.
// Usage: go run cmd/seedcatalog/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/model"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/store"
)

func strPtr(s string) *string { return &s }

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "swiftpos.db"
	}
	tenantID := os.Getenv("TENANT_ID")
	if tenantID == "" {
		tenantID = "tenant-demo"
	}

	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("open local store: %v", err)
	}

	ctx := context.Background()
	settings := store.NewSettingsStore(db)
	if err := settings.Set(ctx, model.SettingTenantID, tenantID); err != nil {
		log.Fatalf("set tenant: %v", err)
	}

	now := time.Now()
	products := []model.Product{
		{ID: "p-001", TenantID: tenantID, Name: "Sachet Water (500ml)", Barcode: strPtr("6151100000011"), Price: decimal.NewFromFloat(0.50), CostPrice: decimal.NewFromFloat(0.30), StockQuantity: 400, Active: true, UpdatedAt: now},
		{ID: "p-002", TenantID: tenantID, Name: "Gino Tomato Paste 210g", Barcode: strPtr("6151100000028"), Price: decimal.NewFromFloat(8.00), CostPrice: decimal.NewFromFloat(6.20), StockQuantity: 60, Active: true, UpdatedAt: now},
		{ID: "p-003", TenantID: tenantID, Name: "Ideal Milk 160g", Barcode: strPtr("6151100000035"), Price: decimal.NewFromFloat(7.50), CostPrice: decimal.NewFromFloat(5.80), StockQuantity: 48, Active: true, UpdatedAt: now},
		{ID: "p-004", TenantID: tenantID, Name: "Indomie Chicken 70g", Barcode: strPtr("6151100000042"), Price: decimal.NewFromFloat(3.00), CostPrice: decimal.NewFromFloat(2.10), StockQuantity: 120, Active: true, UpdatedAt: now},
		{ID: "p-005", TenantID: tenantID, Name: "Voltic Water 1.5L", Barcode: strPtr("6151100000059"), Price: decimal.NewFromFloat(6.00), CostPrice: decimal.NewFromFloat(4.00), StockQuantity: 72, Active: true, UpdatedAt: now},
	}
	customers := []model.Customer{
		{ID: "c-001", TenantID: tenantID, Name: "Ama Mensah", Phone: strPtr("0244000001"), Balance: decimal.Zero, UpdatedAt: now},
		{ID: "c-002", TenantID: tenantID, Name: "Kofi Boateng", Phone: strPtr("0208000002"), Balance: decimal.NewFromFloat(25.00), UpdatedAt: now},
	}

	catalog := store.NewCatalogStore(db)
	if err := catalog.ReplaceProducts(ctx, tenantID, products); err != nil {
		log.Fatalf("seed products: %v", err)
	}
	if err := catalog.ReplaceCustomers(ctx, tenantID, customers); err != nil {
		log.Fatalf("seed customers: %v", err)
	}

	fmt.Printf("seeded tenant '%s' with %d products and %d customers into %s\n",
		tenantID, len(products), len(customers), dbPath)
}
