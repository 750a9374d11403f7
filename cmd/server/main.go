package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/maytri315/parking-app/internal/cache"
	"github.com/maytri315/parking-app/internal/config"
	"github.com/maytri315/parking-app/internal/database"
	"github.com/maytri315/parking-app/internal/handler"
	"github.com/maytri315/parking-app/internal/middleware"
	"github.com/maytri315/parking-app/internal/queue"
	"github.com/maytri315/parking-app/internal/repository"
	"github.com/maytri315/parking-app/internal/router"
	"github.com/maytri315/parking-app/internal/scheduler"
	"github.com/maytri315/parking-app/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional; a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	var store *cache.Store
	if cacheCfg.Enabled {
		store = cache.New(rdb, cacheCfg.TTL)
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	lots := repository.NewLotRepo(db)
	spots := repository.NewSpotRepo(db)
	reservations := repository.NewReservationRepo(db)

	// Bootstrap the single admin account.
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost); err != nil {
			cancel()
			log.Fatalf("admin bootstrap: %v", err)
		}
		cancel()
	}

	// Services.
	dispatcher := queue.Dispatcher{}
	avail := service.NewAvailability(spots, store)
	resSvc := service.NewReservations(lots, reservations, users, avail, dispatcher)
	lotAdmin := service.NewLotAdmin(lots, spots, store)
	reconciler := service.NewReconciler(spots, avail)
	reports := service.NewReports(users, reservations, dispatcher)
	exporter := service.NewExport(reservations, "exports")

	// One startup reconciliation pass repairs anything a crash left
	// behind before traffic arrives.
	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if n, err := reconciler.Run(ctx); err != nil {
			log.Printf("startup reconciliation failed: %v", err)
		} else if n > 0 {
			log.Printf("startup reconciliation freed %d orphaned spot(s)", n)
		}
		cancel()
	}

	// Broker consumers.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()
	go func() {
		if err := queue.StartExportConsumer(exporter); err != nil {
			log.Printf("export consumer stopped: %v", err)
		}
	}()

	// Background jobs.
	sched, err := scheduler.New(reports, reconciler, 5*time.Minute)
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	sched.Start()
	defer func() { _ = sched.Shutdown() }()

	// HTTP.
	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterBrowse(e, handler.NewLotBrowseHandler(lotAdmin, avail, store), cfg.JWTSecret)
	router.RegisterUser(e, handler.NewReservationHandler(resSvc, users, dispatcher), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewLotAdminHandler(lotAdmin), handler.NewUserAdminHandler(users), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
