package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/openaccred/accreditation-mgt-api/internal/config"
	"github.com/openaccred/accreditation-mgt-api/internal/dao"
	"github.com/openaccred/accreditation-mgt-api/internal/database"
	"github.com/openaccred/accreditation-mgt-api/internal/router"
	"github.com/openaccred/accreditation-mgt-api/internal/service"
	"github.com/openaccred/accreditation-mgt-api/internal/storage"
)

// Version information (set by build script)
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// Set Gin to release mode by default (can be overridden by GIN_MODE env var)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	logger.WithFields(logrus.Fields{
		"version":    version,
		"build_date": buildDate,
	}).Info("Starting Accreditation Management API Server...")

	// Load configuration
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Set log level from config
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}
	if cfg.Logging.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logger.WithField("log_level", logger.GetLevel().String()).Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.Initialize(&cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}

	// Verify database connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.HealthCheck(ctx); err != nil {
		logger.WithError(err).Fatal("Database health check failed")
	}

	logger.Info("Database connection established successfully")

	// Apply schema migrations
	if err := db.RunMigrations(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	logger.Info("Database schema is up to date")

	// Initialize evidence file storage
	files, err := storage.NewFileStore(cfg.Storage.EvidenceDir, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize evidence storage")
	}

	// Initialize DAOs
	programDAO := dao.NewProgramDAO(db)
	areaDAO := dao.NewAreaLevelDAO(db)
	parameterDAO := dao.NewParameterDAO(db)
	subParameterDAO := dao.NewSubParameterDAO(db)
	evidenceDAO := dao.NewEvidenceDAO(db)
	permissionDAO := dao.NewPermissionDAO(db)
	activityLogDAO := dao.NewActivityLogDAO(db)

	logger.Info("DAOs initialized successfully")

	// Initialize services
	audit := service.NewAuditRecorder(activityLogDAO, logger)

	programService := service.NewProgramService(
		programDAO,
		areaDAO,
		parameterDAO,
		subParameterDAO,
		evidenceDAO,
		permissionDAO,
		activityLogDAO,
		files,
		audit,
		db,
		logger,
	)

	areaLevelService := service.NewAreaLevelService(
		areaDAO,
		programDAO,
		parameterDAO,
		subParameterDAO,
		evidenceDAO,
		permissionDAO,
		activityLogDAO,
		files,
		audit,
		db,
		logger,
	)

	parameterService := service.NewParameterService(
		parameterDAO,
		areaDAO,
		subParameterDAO,
		evidenceDAO,
		permissionDAO,
		activityLogDAO,
		files,
		audit,
		db,
		logger,
	)

	subParameterService := service.NewSubParameterService(
		subParameterDAO,
		parameterDAO,
		evidenceDAO,
		activityLogDAO,
		files,
		audit,
		db,
		logger,
	)

	evidenceService := service.NewEvidenceService(
		evidenceDAO,
		parameterDAO,
		subParameterDAO,
		files,
		audit,
		cfg.Storage.MaxFileSize,
		logger,
	)

	permissionService := service.NewPermissionService(
		permissionDAO,
		parameterDAO,
		subParameterDAO,
		areaDAO,
		audit,
		db,
		logger,
	)

	logger.Info("Services initialized successfully")

	// Setup router
	ginRouter := router.SetupRouter(cfg, db, logger, router.Services{
		Program:      programService,
		AreaLevel:    areaLevelService,
		Parameter:    parameterService,
		SubParameter: subParameterService,
		Evidence:     evidenceService,
		Permission:   permissionService,
		Audit:        audit,
	})

	// Configure HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Hostname, cfg.Server.Port)
	server := &http.Server{
		Addr:           serverAddr,
		Handler:        ginRouter,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Start server in a goroutine
	go func() {
		logger.WithFields(logrus.Fields{
			"hostname": cfg.Server.Hostname,
			"port":     cfg.Server.Port,
			"addr":     serverAddr,
		}).Info("Starting HTTP server...")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	logger.WithField("address", serverAddr).Info("Server is running")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited gracefully")
}
