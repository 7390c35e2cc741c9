package main

import (
	"context"
	"fmt"
	"log"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/study-seat-api/api/swagger"
	"github.com/noah-isme/study-seat-api/internal/handler"
	"github.com/noah-isme/study-seat-api/internal/middleware"
	"github.com/noah-isme/study-seat-api/internal/repository"
	"github.com/noah-isme/study-seat-api/internal/router"
	"github.com/noah-isme/study-seat-api/internal/service"
	"github.com/noah-isme/study-seat-api/pkg/cache"
	"github.com/noah-isme/study-seat-api/pkg/config"
	"github.com/noah-isme/study-seat-api/pkg/database"
	"github.com/noah-isme/study-seat-api/pkg/events"
	"github.com/noah-isme/study-seat-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/study-seat-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/study-seat-api/pkg/middleware/requestid"
)

// @title Study Seat API
// @version 1.0.0
// @description Seat reservations for supervised after-school study sessions
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logr.Fatal("invalid APP_TIMEZONE", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			logr.Fatal("failed to apply schema", zap.Error(err))
		}
	}

	// Left nil when Redis is unreachable so the cache and the limiter degrade to no-ops.
	var redisClient redis.UniversalClient
	if cfg.Cache.Enabled || cfg.RateLimit.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, continuing without cache and rate limiting", zap.Error(err))
		} else {
			redisClient = client
			defer client.Close() //nolint:errcheck
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		publisher = events.NewAMQPPublisher(cfg.Events.URL, cfg.Events.QueuePrefix, logr)
	}
	defer publisher.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	validate := validator.New()

	cacheRepo := repository.NewCacheRepository(redisClient, "study-seat", logr)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.RoomTTL, logr, cfg.Cache.Enabled && redisClient != nil)

	roomRepo := repository.NewStudyRoomRepository(db)
	sessionRepo := repository.NewStudySessionRepository(db)
	issueTypeRepo := repository.NewIssueTypeRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)

	authSvc, err := service.NewAuthService(validate, logr, service.AuthConfig{
		AccessKey:         cfg.Auth.AccessKey,
		AccessKeyHash:     cfg.Auth.AccessKeyHash,
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
	})
	if err != nil {
		logr.Fatal("failed to init auth service", zap.Error(err))
	}

	roomSvc := service.NewStudyRoomService(roomRepo, cacheSvc, cfg.Cache.RoomTTL, validate, logr)
	sessionSvc := service.NewStudySessionService(sessionRepo, roomSvc, validate, logr)
	registrationSvc := service.NewRegistrationService(registrationRepo, sessionRepo, roomSvc, publisher, metrics, loc, validate, logr)
	seatMapSvc := service.NewSeatMapService(sessionSvc, roomSvc, registrationRepo, logr)
	exportSvc := service.NewExportService(seatMapSvc, logr, nil, nil)
	issueSvc := service.NewIssueService(issueTypeRepo, registrationRepo, validate, logr)

	var limiter middleware.Limiter
	if redisClient != nil {
		limiter = middleware.NewRedisTokenBucket(redisClient, cfg.RateLimit)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logr.Fatal("invalid trusted proxies", zap.Error(err))
	}
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	router.Register(r, cfg.APIPrefix, router.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Registration: handler.NewRegistrationHandler(registrationSvc),
		SeatMap:      handler.NewSeatMapHandler(seatMapSvc, exportSvc),
		Room:         handler.NewStudyRoomHandler(roomSvc),
		Session:      handler.NewStudySessionHandler(sessionSvc),
		Issue:        handler.NewIssueHandler(issueSvc),
		Metrics:      handler.NewMetricsHandler(metrics, db),
	}, router.Guards{
		Tokens:    authSvc,
		RateLimit: middleware.RateLimit(cfg.RateLimit, limiter, logr),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "timezone", loc.String())
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
