package main

import (
	"gestao-service/internal/handler"
	"gestao-service/internal/middleware"
	"gestao-service/pkg/config"
	"gestao-service/pkg/database"
	"gestao-service/pkg/jwtutil"
	"gestao-service/pkg/logger"
	"gestao-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting management service...", zap.String("environment", cfg.Server.Env))

	// Initialize database (migrations run automatically)
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed")

	// Initialize JWT signing and report settings
	jwtutil.Initialize(&cfg.JWT)
	handler.InitReports(cfg)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Initialize Echo framework
	e := echo.New()
	e.Validator = handler.NewRequestValidator()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(middleware.MetricsMiddleware)

	// Public routes - no authentication required
	e.GET("/health", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	auth := e.Group("/api/auth")
	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login)

	// All API routes require a valid access token
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	clientes := api.Group("/clientes")
	clientes.GET("", handler.ListClientes)
	clientes.POST("", handler.CreateCliente)
	clientes.GET("/:id", handler.GetCliente)
	clientes.PUT("/:id", handler.UpdateCliente)
	clientes.DELETE("/:id", handler.DeleteCliente)

	tarefas := api.Group("/tarefas")
	tarefas.GET("", handler.ListTarefas)
	tarefas.POST("", handler.CreateTarefa)
	tarefas.GET("/:id", handler.GetTarefa)
	tarefas.PUT("/:id", handler.UpdateTarefa)
	tarefas.DELETE("/:id", handler.DeleteTarefa)
	tarefas.GET("/:id/etapas", handler.ListEtapas)
	tarefas.POST("/:id/etapas", handler.CreateEtapa)
	tarefas.GET("/:id/historico", handler.ListHistorico)
	tarefas.POST("/:id/historico", handler.CreateHistorico)

	suportes := api.Group("/suportes")
	suportes.GET("", handler.ListSuportes)
	suportes.POST("", handler.CreateSuporte)
	suportes.GET("/:id", handler.GetSuporte)
	suportes.PUT("/:id", handler.UpdateSuporte)
	suportes.DELETE("/:id", handler.DeleteSuporte)

	licencas := api.Group("/licencas")
	licencas.GET("", handler.ListLicencas)
	licencas.POST("", handler.CreateLicenca)
	licencas.GET("/:id", handler.GetLicenca)
	licencas.PUT("/:id", handler.UpdateLicenca)
	licencas.DELETE("/:id", handler.DeleteLicenca)

	tipos := api.Group("/tipos-servico")
	tipos.GET("", handler.ListTiposServico)
	tipos.POST("", handler.CreateTipoServico)
	tipos.GET("/:id", handler.GetTipoServico)
	tipos.PUT("/:id", handler.UpdateTipoServico)
	tipos.DELETE("/:id", handler.DeleteTipoServico)

	relatorios := api.Group("/relatorios")
	relatorios.GET("/tarefas", handler.RelatorioTarefas)
	relatorios.GET("/suportes", handler.RelatorioSuportes)
	relatorios.GET("/clientes", handler.RelatorioClientes)
	relatorios.GET("/financeiro", handler.RelatorioFinanceiro)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
