package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/NinaPoglic/boar-telemetry-go/internal/config"
	"github.com/NinaPoglic/boar-telemetry-go/internal/habitat"
	"github.com/NinaPoglic/boar-telemetry-go/internal/handler"
	"github.com/NinaPoglic/boar-telemetry-go/internal/ingest"
	"github.com/NinaPoglic/boar-telemetry-go/internal/middleware"
	"github.com/NinaPoglic/boar-telemetry-go/internal/repository"
	"github.com/NinaPoglic/boar-telemetry-go/internal/service"
)

// SetupRouter wires repositories, services and handlers into the gin engine.
// The habitat index may be nil, in which case imported fixes keep the habitat
// column of the CSV.
func SetupRouter(cfg *config.Config, db *sql.DB, habitats *habitat.Index) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(300, time.Minute))

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	fixHandler := handler.NewFixHandler(service.NewFixService(repository.NewFixRepository(db)), ingest.NewLoader(habitats))
	segmentHandler := handler.NewSegmentHandler(service.NewSegmentService(repository.NewSegmentRepository(db)))
	statsHandler := handler.NewStatsHandler(service.NewStatsService(db))
	taskHandler := handler.NewTaskHandler(service.NewTaskService(repository.NewTaskRepository(db), db))
	profileHandler := handler.NewProfileHandler(service.NewProfileService(repository.NewProfileRepository(db)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Boar telemetry API is running",
		})
	})

	api := r.Group("/api/v1")
	{
		api.GET("/entities", fixHandler.GetEntities)
		api.GET("/fixes", fixHandler.GetFixes)

		api.GET("/segments", segmentHandler.GetSegments)
		api.GET("/segments/:id", segmentHandler.GetSegmentByID)

		stats := api.Group("/stats")
		{
			stats.GET("/durations", statsHandler.GetEntityDurations)
			stats.GET("/hours", statsHandler.GetHourOfDayCounts)
			stats.GET("/habitats", statsHandler.GetHabitatStats)
		}

		api.GET("/profiles", profileHandler.GetProfiles)
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.Auth(cfg.JWTSecret))
	{
		admin.POST("/fixes/import", fixHandler.ImportFixes)

		admin.POST("/analysis/tasks", taskHandler.CreateTask)
		admin.GET("/analysis/tasks", taskHandler.GetTasks)
		admin.GET("/analysis/tasks/:id", taskHandler.GetTask)

		admin.POST("/profiles", profileHandler.CreateProfile)
	}

	return r
}
