package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/giftwheel/giftwheel-backend/api/controllers"
	"github.com/giftwheel/giftwheel-backend/api/routes"
	"github.com/giftwheel/giftwheel-backend/internal/events"
	"github.com/giftwheel/giftwheel-backend/internal/giftorders"
	"github.com/giftwheel/giftwheel-backend/internal/gifttemplates"
	"github.com/giftwheel/giftwheel-backend/internal/households"
	"github.com/giftwheel/giftwheel-backend/internal/identity"
	"github.com/giftwheel/giftwheel-backend/internal/memberships"
	"github.com/giftwheel/giftwheel-backend/internal/participants"
	"github.com/giftwheel/giftwheel-backend/internal/products"
	"github.com/giftwheel/giftwheel-backend/internal/tenancy"
	"github.com/giftwheel/giftwheel-backend/internal/users"
	"github.com/giftwheel/giftwheel-backend/internal/wishlists"
	"github.com/giftwheel/giftwheel-backend/pkg/config"
	"github.com/giftwheel/giftwheel-backend/pkg/db"
	"github.com/giftwheel/giftwheel-backend/pkg/idp"
	"github.com/giftwheel/giftwheel-backend/pkg/logger"
	"github.com/giftwheel/giftwheel-backend/pkg/metrics"
	"github.com/giftwheel/giftwheel-backend/pkg/migrate"
	"github.com/giftwheel/giftwheel-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	idpClient, err := idp.New(cfg.IdP)
	if err != nil {
		logg.Error(context.Background(), "failed to create idp client", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()
	userRepo := users.NewRepository(gdb)
	membershipRepo := memberships.NewRepository(gdb)
	identityRepo := identity.NewRepository(gdb)
	householdRepo := households.NewRepository(gdb)
	eventRepo := events.NewRepository(gdb)
	productRepo := products.NewRepository(gdb)
	orderRepo := giftorders.NewRepository(gdb)
	templateRepo := gifttemplates.NewRepository(gdb)
	wishlistRepo := wishlists.NewRepository(gdb)
	participantRepo := participants.NewRepository(gdb)

	guard, err := tenancy.NewGuard(membershipRepo, userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create tenancy guard", err)
		os.Exit(1)
	}
	tenantResolver, err := tenancy.NewResolver(userRepo, membershipRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create tenant resolver", err)
		os.Exit(1)
	}
	identityService, err := identity.NewService(identityRepo, userRepo, identity.DefaultProvider, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}
	participantManager, err := participants.NewManager(participantRepo, membershipRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create participant manager", err)
		os.Exit(1)
	}

	userService, err := users.NewService(userRepo, membershipRepo, guard)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}
	householdService, err := households.NewService(householdRepo, membershipRepo, userRepo, guard)
	if err != nil {
		logg.Error(context.Background(), "failed to create household service", err)
		os.Exit(1)
	}
	eventService, err := events.NewService(eventRepo, membershipRepo, guard)
	if err != nil {
		logg.Error(context.Background(), "failed to create event service", err)
		os.Exit(1)
	}
	productService, err := products.NewService(productRepo, guard)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}
	orderService, err := giftorders.NewService(orderRepo, dbClient, participantManager, eventRepo, productRepo, guard)
	if err != nil {
		logg.Error(context.Background(), "failed to create gift order service", err)
		os.Exit(1)
	}
	templateService, err := gifttemplates.NewService(templateRepo, dbClient, orderRepo, participantRepo, participantManager, eventRepo, guard)
	if err != nil {
		logg.Error(context.Background(), "failed to create gift template service", err)
		os.Exit(1)
	}
	wishlistService, err := wishlists.NewService(wishlistRepo, membershipRepo, productRepo, guard)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(routes.Deps{
		Config:          cfg,
		Logger:          logg,
		IdP:             idpClient,
		Identity:        identityService,
		TenantResolver:  tenantResolver,
		Users:           userService,
		Households:      householdService,
		Events:          eventService,
		Products:        productService,
		GiftOrders:      orderService,
		GiftTemplates:   templateService,
		Wishlists:       wishlistService,
		RedisClient:     redisClient,
		HTTPMetrics:     httpMetrics,
		MetricsGatherer: registry,
		HealthChecks: map[string]controllers.Pinger{
			"postgres": dbClient,
			"redis":    redisClient,
		},
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
