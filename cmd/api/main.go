package main

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "fleettrack/docs" // swagger docs
	"fleettrack/internal/config"
	"fleettrack/internal/database"
	"fleettrack/internal/handler"
	"fleettrack/internal/jobs"
	"fleettrack/internal/logger"
	"fleettrack/internal/middleware"
	"fleettrack/internal/repository"
	"fleettrack/internal/service"
	"fleettrack/internal/websocket"
)

// @title           FleetTrack API
// @version         1.0
// @description     Fleet trip tracking backend: QR/vehicle association, trip lifecycle, stage capture and telemetry.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Optional in production; the container injects env directly.
	_ = godotenv.Load("configs/.env")

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}

	log := logger.New(cfg.Environment)

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	log.Info().Str("host", cfg.DB.Host).Str("db", cfg.DB.Name).Msg("connected to postgres")

	// WebSocket hub doubles as the event sink for trip and telemetry events.
	wsHub := websocket.NewHub(log.With().Str("component", "websocket").Logger())
	go wsHub.Run()

	// Repository -> Service -> Handler
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	optionRepo := repository.NewOptionRepository(db)
	qrVehicleRepo := repository.NewQRVehicleRepository(db)
	tripRepo := repository.NewTripRepository(db)
	stageRepo := repository.NewStageDataRepository(db)
	missingRepo := repository.NewMissingEntryRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	selectionRepo := repository.NewSelectionRepository(db)

	roleService := service.NewRoleService(db, userRepo, txManager)
	authService := service.NewAuthService(userRepo, roleService, cfg.Auth.JWTSecret, cfg.Auth.TokenTTLDays)
	adminService := service.NewAdminService(db, userRepo, locationRepo, txManager)
	optionService := service.NewOptionService(optionRepo, txManager)
	associationService := service.NewAssociationService(qrVehicleRepo, optionRepo)
	tripService := service.NewTripService(tripRepo, stageRepo, missingRepo, optionRepo, qrVehicleRepo, txManager, wsHub)
	selectionService := service.NewSelectionService(selectionRepo, optionRepo, txManager)
	telemetryService := service.NewTelemetryService(locationRepo, wsHub)
	imageService := service.NewImageService(stageRepo, cfg.Images.BaseDir)

	auth := middleware.NewAuth(db, cfg.Auth.JWTSecret)
	telemetryLimiter := middleware.NewRateLimiter(cfg.Telemetry.IngestRatePerMin, cfg.Telemetry.IngestBurst)

	sweeper := jobs.NewRetentionSweeper(telemetryService, cfg.Telemetry.RetentionDays, log.With().Str("component", "jobs").Logger())
	if err := sweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("retention sweeper failed to start")
	}
	defer sweeper.Stop()

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, []byte(cfg.Auth.JWTSecret))
	})

	api := router.Group("/api")
	handler.NewAuthHandler(authService, auth).RegisterRoutes(api)
	handler.NewQRHandler(associationService, tripService, optionService, auth).RegisterRoutes(api)
	handler.NewSelectionHandler(selectionService, optionService, auth).RegisterRoutes(api)
	handler.NewTelemetryHandler(telemetryService, auth, telemetryLimiter).RegisterRoutes(api)
	handler.NewImageHandler(imageService, auth).RegisterRoutes(api)
	handler.NewAdminHandler(adminService, tripService, authService, auth).RegisterRoutes(api)
	handler.NewRoleHandler(roleService, auth).RegisterRoutes(api)
	handler.NewOptionHandler(optionService, auth).RegisterRoutes(api)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("server listening")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
