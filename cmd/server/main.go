package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ReputedGhost/diabetes-risk-awareness/internal/cache"
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/config"
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/dataset"
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/errors"
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/evaluation"
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/explain"
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/features"
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/model"
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/monitoring"
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/security"
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/types"
)

var startTime = time.Now()

// app bundles everything the router needs. Built once in main, rebuilt
// from fixtures in tests.
type app struct {
	cfg       *config.Config
	evaluator *evaluation.Evaluator
	artifact  *model.Artifact
	reference *dataset.Reference
	metrics   *monitoring.Metrics
	logger    *monitoring.Logger
	cache     *cache.Cache
}

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	configPath := getEnvOrDefault("CONFIG_PATH", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		appErr := errors.NewConfigurationError("failed to load configuration", err)
		slog.Error(appErr.Error(), "error", err, "path", configPath)
		os.Exit(1)
	}
	cfg.ApplyEnv()

	a, err := buildApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize service", "error", err)
		os.Exit(1)
	}

	a.logger.StartupLogger(cfg.Artifacts.ModelPath, a.artifact.SchemaVersion, cfg.Artifacts.DatasetPath, a.reference.Len())

	r := setupRouter(a)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

// buildApp loads the frozen artifacts and assembles the evaluation
// pipeline. Both artifacts are required: the service refuses to start
// without them rather than serve made-up numbers.
func buildApp(cfg *config.Config) (*app, error) {
	artifact, err := model.LoadArtifact(cfg.Artifacts.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("model artifact %s: %w", cfg.Artifacts.ModelPath, err)
	}

	reference, err := dataset.Load(cfg.Artifacts.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("reference dataset %s: %w", cfg.Artifacts.DatasetPath, err)
	}

	explainer, err := explain.NewLinearExplainer(artifact, reference)
	if err != nil {
		return nil, fmt.Errorf("explainer setup: %w", err)
	}

	logger := monitoring.NewLogger()
	responseCache := cache.NewCache(cfg.CacheTTL())
	responseCache.SetLogger(logger)

	return &app{
		cfg:       cfg,
		evaluator: evaluation.New(model.NewPipeline(artifact), explainer),
		artifact:  artifact,
		reference: reference,
		metrics:   monitoring.NewMetrics(),
		logger:    logger,
		cache:     responseCache,
	}, nil
}

func setupRouter(a *app) *gin.Engine {
	r := gin.New()

	// Monitoring first so every request is counted
	r.Use(monitoring.MonitoringMiddleware(a.metrics, a.logger))

	// Error handling middleware
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	// Security middleware setup
	securityMiddleware := security.NewSecurityMiddleware(a.cfg.SecurityConfig())
	securityMiddleware.SetMetrics(a.metrics)
	securityMiddleware.Cleanup()

	r.Use(securityMiddleware.SecurityHeaders)
	r.Use(securityMiddleware.CORSConfig())
	r.Use(securityMiddleware.RequestTimeout)
	r.Use(securityMiddleware.ValidateContentType)
	r.Use(securityMiddleware.RateLimitByIP)

	if a.cfg.Cache.Enabled {
		r.Use(a.cache.Middleware("/evaluate", a.metrics))
	}

	r.POST("/evaluate", a.handleEvaluate)
	r.GET("/features", a.handleFeatures)
	r.GET("/health", a.handleHealth)

	// Prometheus metrics endpoint
	r.GET("/metrics", gin.WrapH(a.metrics.Handler()))

	// Cache stats endpoint
	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, a.cache.Stats())
	})

	// Swagger documentation routes
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// handleEvaluate runs one risk evaluation. Absent fields fall back to the
// published defaults, so an empty body is a valid request.
func (a *app) handleEvaluate(c *gin.Context) {
	var req types.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := errors.NewValidationError("invalid JSON body")
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	start := time.Now()
	res, err := a.evaluator.Evaluate(req.Inputs())
	if err != nil {
		appErr := errors.NewInternalError("evaluation failed", err)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}
	duration := time.Since(start)

	a.logger.EvaluationLogger(res.ID, string(res.Band), res.Probability, res.MedicallyLowRisk, res.BiasGuardApplied, duration)
	a.metrics.ObserveEvaluation(string(res.Band), res.MedicallyLowRisk, res.BiasGuardApplied, duration.Seconds())

	c.JSON(http.StatusOK, res)
}

// handleFeatures publishes the input schema: ranges, defaults, and the
// order clients should render fields in.
func (a *app) handleFeatures(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fields": features.Schema(),
	})
}

func (a *app) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:       "ok",
		ModelVersion: fmt.Sprintf("v%d", a.artifact.SchemaVersion),
		DatasetRows:  a.reference.Len(),
		Uptime:       time.Since(startTime).Round(time.Second).String(),
	})
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
