package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	usercmd "github.com/sopra/user-service/internal/command"
	"github.com/sopra/user-service/internal/config"
	"github.com/sopra/user-service/internal/handler"
	"github.com/sopra/user-service/internal/projection"
	userqry "github.com/sopra/user-service/internal/query"
	"github.com/sopra/user-service/internal/repository"
	"github.com/sopra/user-service/shared/database"
	"github.com/sopra/user-service/shared/events"
	"github.com/sopra/user-service/shared/logger"
	"github.com/sopra/user-service/shared/middleware"
	"github.com/sopra/user-service/shared/models"
	sharedredis "github.com/sopra/user-service/shared/redis"
	"go.uber.org/zap"
)

func main() {
	log, err := logger.Init(logger.ConfigFromEnv())
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Write store
	var store repository.UserStore
	if cfg.UsePostgres() {
		db, err := database.Connect(database.Config{DSN: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns})
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		store = repository.NewPostgresUserRepository(db)
		log.Info("using postgres user store")
	} else {
		store = repository.NewMemoryUserRepository()
		log.Warn("DATABASE_URL not set, using in-memory user store")
	}

	// Redis (read model + event streaming + presence)
	var (
		cache     *sharedredis.ViewCache[models.UserView]
		publisher usercmd.EventPublisher = events.NopPublisher{}
		online    handler.OnlineCounter
	)
	if cfg.UseRedis() {
		rdb, err := sharedredis.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()

		cache = sharedredis.NewViewCache[models.UserView](rdb.Client, cfg.CacheTTL, log)
		publisher = events.NewPublisher(rdb.Client)

		presence := projection.NewPresence(rdb.Client, log)
		online = presence
		go func() {
			hostname, _ := os.Hostname()
			if err := presence.Subscriber("presence-"+hostname, 0).Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("presence subscriber stopped", zap.Error(err))
			}
		}()
	} else {
		log.Warn("REDIS_ADDR not set, read-model cache and events disabled")
	}

	// --- CQRS wiring ---
	readRepo := repository.NewUserReadRepository(store, cache)
	commandSvc := usercmd.NewUserCommandService(store, readRepo, publisher, log)
	querySvc := userqry.NewUserQueryService(readRepo)

	userHandler := handler.NewUserHandler(commandSvc, querySvc, log)
	healthHandler := handler.NewHealthHandler(online, log)

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.LoggingMiddleware(log), gin.Recovery())
	handler.RegisterRoutes(router, userHandler, healthHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("user service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
