package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/cache"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/config"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/handler"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/infra"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/middleware"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/service"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/store"
	syncpkg "github.com/nanayaw-123/Swiftgo-pos-sub000/internal/sync"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Store ← DB. The sync manager is
// built in main (it owns background goroutines) and injected here.
func New(
	cfg *config.Config,
	db *gorm.DB,
	lookup cache.LookupCache,
	manager *syncpkg.Manager,
	breaker *infra.CircuitBreaker,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())

	// ── Stores ───────────────────────────────────────────────────────────────
	saleStore := store.NewSaleStore(db)
	catalogStore := store.NewCatalogStore(db)
	queueStore := store.NewQueueStore(db)
	settingsStore := store.NewSettingsStore(db)

	// ── Services ─────────────────────────────────────────────────────────────
	saleSvc := service.NewSaleService(
		saleStore, catalogStore, settingsStore, manager,
		cfg.StoreID, cfg.StoreName, cfg.ReceiptStoragePath,
	)
	catalogSvc := service.NewCatalogService(catalogStore, queueStore, settingsStore, lookup, manager)

	// ── Handlers ─────────────────────────────────────────────────────────────
	salesH := handler.NewSalesHandler(saleSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	syncH := handler.NewSyncHandler(manager)
	settingsH := handler.NewSettingsHandler(settingsStore)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, breaker))

	v1 := r.Group("/v1")
	{
		v1.POST("/sales", salesH.Record)
		v1.GET("/sales", salesH.List)
		v1.GET("/sales/:offline_id/receipt", salesH.Receipt)

		v1.GET("/products", catalogH.ListProducts)
		v1.GET("/products/barcode/:barcode", catalogH.LookupBarcode)
		v1.GET("/customers", catalogH.ListCustomers)
		v1.GET("/customers/phone/:phone", catalogH.LookupPhone)

		v1.POST("/mutations", catalogH.SubmitMutation)
		v1.GET("/mutations", catalogH.ListQueue)
		v1.POST("/mutations/:id/requeue", catalogH.Requeue)

		v1.GET("/sync/status", syncH.Status)
		v1.POST("/sync/trigger", syncH.Trigger)

		v1.PUT("/settings/tenant", settingsH.SetTenant)
		v1.GET("/settings/tenant", settingsH.GetTenant)
		v1.POST("/settings/reset", settingsH.Reset)
	}

	return r
}
