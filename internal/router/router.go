package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/openaccred/accreditation-mgt-api/internal/config"
	"github.com/openaccred/accreditation-mgt-api/internal/database"
	"github.com/openaccred/accreditation-mgt-api/internal/handlers"
	"github.com/openaccred/accreditation-mgt-api/internal/middleware"
	"github.com/openaccred/accreditation-mgt-api/internal/service"
)

// Services bundles the service layer dependencies the router needs.
type Services struct {
	Program      *service.ProgramService
	AreaLevel    *service.AreaLevelService
	Parameter    *service.ParameterService
	SubParameter *service.SubParameterService
	Evidence     *service.EvidenceService
	Permission   *service.PermissionService
	Audit        *service.AuditRecorder
}

// SetupRouter configures all API routes
func SetupRouter(cfg *config.Config, db *database.DB, logger *logrus.Logger, svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger(logger))

	if cfg.CORS.Enabled {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     cfg.CORS.AllowedMethods,
			AllowHeaders:     cfg.CORS.AllowedHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
		}))
	}

	// Health check stays outside authentication
	router.GET("/health", func(c *gin.Context) {
		if err := db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Create handlers
	programHandler := handlers.NewProgramHandler(svc.Program)
	areaLevelHandler := handlers.NewAreaLevelHandler(svc.AreaLevel)
	parameterHandler := handlers.NewParameterHandler(svc.Parameter, svc.Permission)
	subParameterHandler := handlers.NewSubParameterHandler(svc.SubParameter, svc.Permission)
	evidenceHandler := handlers.NewEvidenceHandler(svc.Evidence, svc.Permission)
	permissionHandler := handlers.NewPermissionHandler(svc.Permission)
	activityLogHandler := handlers.NewActivityLogHandler(svc.Audit)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.BasicAuth(&cfg.Security))
	v1.Use(middleware.ActorContext())
	{
		// Program routes; structural changes are admin-only
		programs := v1.Group("/programs")
		{
			programs.POST("", middleware.RequireAdmin(), programHandler.CreateProgram)
			programs.GET("", programHandler.ListPrograms)
			programs.GET("/:programId", programHandler.GetProgram)
			programs.PUT("/:programId", middleware.RequireAdmin(), programHandler.UpdateProgram)
			programs.DELETE("/:programId", middleware.RequireAdmin(), programHandler.DeleteProgram)

			programs.POST("/:programId/areas", middleware.RequireAdmin(), areaLevelHandler.CreateAreaLevel)
			programs.GET("/:programId/areas", areaLevelHandler.ListAreaLevels)
		}

		// Area-level routes
		areas := v1.Group("/areas")
		{
			areas.GET("/:areaId", areaLevelHandler.GetAreaLevel)
			areas.PUT("/:areaId", middleware.RequireAdmin(), areaLevelHandler.UpdateAreaLevel)
			areas.DELETE("/:areaId", middleware.RequireAdmin(), areaLevelHandler.DeleteAreaLevel)

			areas.GET("/:areaId/permissions", middleware.RequireAdmin(), permissionHandler.ListAreaPermissions)
			areas.PUT("/:areaId/permissions", middleware.RequireAdmin(), permissionHandler.SetAreaPermissions)

			areas.POST("/:areaId/parameters", middleware.RequireAdmin(), parameterHandler.CreateParameter)
			areas.GET("/:areaId/parameters", parameterHandler.ListParameters)
		}

		// Parameter routes; row-level checks happen in the handlers
		parameters := v1.Group("/parameters")
		{
			parameters.GET("/:parameterId", parameterHandler.GetParameter)
			parameters.PUT("/:parameterId", parameterHandler.UpdateParameter)
			parameters.DELETE("/:parameterId", parameterHandler.DeleteParameter)

			parameters.GET("/:parameterId/permissions", middleware.RequireAdmin(), permissionHandler.ListParameterPermissions)
			parameters.PUT("/:parameterId/permissions", middleware.RequireAdmin(), permissionHandler.SetParameterPermissions)

			parameters.POST("/:parameterId/sub-parameters", subParameterHandler.CreateSubParameter)
			parameters.GET("/:parameterId/sub-parameters", subParameterHandler.ListSubParameters)

			parameters.POST("/:parameterId/evidence", evidenceHandler.UploadToParameter)
			parameters.GET("/:parameterId/evidence", evidenceHandler.ListByParameter)
		}

		// Sub-parameter routes
		subParameters := v1.Group("/sub-parameters")
		{
			subParameters.GET("/:subParameterId", subParameterHandler.GetSubParameter)
			subParameters.PUT("/:subParameterId", subParameterHandler.UpdateSubParameter)
			subParameters.DELETE("/:subParameterId", subParameterHandler.DeleteSubParameter)

			subParameters.POST("/:subParameterId/evidence", evidenceHandler.UploadToSubParameter)
			subParameters.GET("/:subParameterId/evidence", evidenceHandler.ListBySubParameter)
		}

		// Evidence routes
		evidence := v1.Group("/evidence")
		{
			evidence.GET("/:evidenceId", evidenceHandler.GetEvidence)
			evidence.GET("/:evidenceId/download", evidenceHandler.Download)
			evidence.PATCH("/:evidenceId/status", evidenceHandler.UpdateStatus)
			evidence.DELETE("/:evidenceId", evidenceHandler.DeleteEvidence)
		}

		// Audit trail is admin-only
		v1.GET("/activity-logs", middleware.RequireAdmin(), activityLogHandler.ListActivityLogs)
	}

	return router
}
