package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nawrasbh/storefront/internal/admin"
	"github.com/nawrasbh/storefront/internal/analytics"
	"github.com/nawrasbh/storefront/internal/catalog"
	"github.com/nawrasbh/storefront/internal/checkout"
	"github.com/nawrasbh/storefront/internal/config"
	"github.com/nawrasbh/storefront/internal/httpx"
	"github.com/nawrasbh/storefront/internal/orders"
	"github.com/nawrasbh/storefront/internal/postgres"
	"github.com/nawrasbh/storefront/internal/settings"
)

func main() {
	cfg := config.Load()
	log := zerolog.New(os.Stdout).With().Timestamp().Str("svc", "storefront").Logger()
	ctx := context.Background()

	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("postgres migrate")
	}

	catalogRepo := catalog.NewPGRepo(pool)
	ordersRepo := orders.NewPGRepo(pool)
	settingsRepo := settings.NewPGRepo(pool)
	adminRepo := admin.NewPGRepo(pool)
	eventsRepo := analytics.NewPGRepo(pool)

	if err := settingsRepo.SeedDefaults(ctx); err != nil {
		log.Fatal().Err(err).Msg("seed settings")
	}
	if err := admin.Seed(ctx, adminRepo, cfg.AdminEmail, cfg.AdminPassword, log); err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}

	checkoutSvc := checkout.NewService(catalogRepo, ordersRepo, settingsRepo, log)
	adminSvc := admin.NewService(adminRepo, log)

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(log))
	registerRoutes(r, catalogRepo, ordersRepo, settingsRepo, eventsRepo, checkoutSvc, adminSvc)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("storefront listening")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("http server")
	}
}

func registerRoutes(
	r *gin.Engine,
	catalogRepo catalog.Repository,
	ordersRepo orders.Repository,
	settingsRepo settings.Repository,
	eventsRepo analytics.Repository,
	checkoutSvc *checkout.Service,
	adminSvc *admin.Service,
) {
	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })

	r.GET("/products", listProductsHandler(catalogRepo))
	r.GET("/products/:id", getProductHandler(catalogRepo))
	r.POST("/products", createProductHandler(catalogRepo))
	r.PUT("/products/:id", updateProductHandler(catalogRepo))
	r.DELETE("/products/:id", deleteProductHandler(catalogRepo))

	r.GET("/categories", listCategoriesHandler(catalogRepo))
	r.GET("/categories/:id", getCategoryHandler(catalogRepo))
	r.POST("/categories", createCategoryHandler(catalogRepo))
	r.PUT("/categories/:id", updateCategoryHandler(catalogRepo))
	r.DELETE("/categories/:id", deleteCategoryHandler(catalogRepo))

	r.GET("/orders", listOrdersHandler(ordersRepo))
	r.GET("/orders/:id", getOrderHandler(ordersRepo))
	r.PUT("/orders/:id", updateOrderHandler(ordersRepo))
	r.DELETE("/orders/:id", deleteOrderHandler(ordersRepo))

	r.GET("/customers", listCustomersHandler(ordersRepo))
	r.GET("/customers/:id", getCustomerHandler(ordersRepo))
	r.POST("/customers", createCustomerHandler(ordersRepo))
	r.PUT("/customers/:id", updateCustomerHandler(ordersRepo))
	r.DELETE("/customers/:id", deleteCustomerHandler(ordersRepo))

	r.POST("/checkout", checkoutHandler(checkoutSvc))

	r.POST("/admin/login", adminLoginHandler(adminSvc))
	r.PUT("/admin/password", adminChangePasswordHandler(adminSvc))
	r.PUT("/admin/email", adminUpdateEmailHandler(adminSvc))

	r.GET("/settings/:key", getSettingHandler(settingsRepo))
	r.PUT("/settings/:key", putSettingHandler(settingsRepo))

	r.POST("/events", recordEventHandler(eventsRepo))
	r.GET("/events", listEventsHandler(eventsRepo))
	r.GET("/events/summary", eventsSummaryHandler(eventsRepo))
}
