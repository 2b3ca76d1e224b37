package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/edu-registry-api/api/swagger"
	"github.com/noah-isme/edu-registry-api/internal/handler"
	"github.com/noah-isme/edu-registry-api/internal/middleware"
	"github.com/noah-isme/edu-registry-api/internal/models"
	"github.com/noah-isme/edu-registry-api/internal/query"
	"github.com/noah-isme/edu-registry-api/internal/repository"
	"github.com/noah-isme/edu-registry-api/internal/service"
	"github.com/noah-isme/edu-registry-api/pkg/config"
	"github.com/noah-isme/edu-registry-api/pkg/database"
	"github.com/noah-isme/edu-registry-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/edu-registry-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/edu-registry-api/pkg/middleware/requestid"
)

// @title EDU Registry API
// @version 1.0.0
// @description Class and student registry with paginated listing and CSV/XLSX import/export
// @BasePath /
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()
	store := repository.NewRecordRepository(db)
	engine := query.NewEngine(store, logr)

	classes := service.NewEntityService(models.ClassEntity, store, engine, validate, logr)
	students := service.NewEntityService(models.StudentEntity, store, engine, validate, logr)

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if metrics != nil {
		metricsHandler := handler.NewMetricsHandler(metrics)
		r.GET("/metrics", metricsHandler.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	handler.NewEntityHandler(classes, cfg.Import.MaxFileSizeBytes).Register(api)
	handler.NewEntityHandler(students, cfg.Import.MaxFileSizeBytes).Register(api)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
