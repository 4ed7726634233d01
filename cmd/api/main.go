package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"invoice_management/internal/adapter/http/handlers"
	"invoice_management/internal/adapter/http/middleware"
	"invoice_management/internal/adapter/http/routes"
	"invoice_management/internal/bootstrap"
	"invoice_management/internal/config"
	"invoice_management/internal/logger"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
)

// @title           Invoice Management API
// @version         1.0
// @description     Quotes, invoices, payments and customers with numbering, pricing, lifecycle and reconciliation.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load(getenvDefault("CONFIG_FILE", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Format = cfg.LogFormat
	if err := logger.Setup(logCfg); err != nil {
		log.Fatal().Err(err).Msg("failed to set up logger")
	}

	verifier, err := middleware.NewTokenVerifier(cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("authentication not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start the application")
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	router := routes.NewRouter(routes.Handlers{
		Customers: handlers.NewCustomerHandler(app.Customers),
		Quotes:    handlers.NewQuoteHandler(app.Quotes),
		Invoices:  handlers.NewInvoiceHandler(app.Invoices),
		Payments:  handlers.NewPaymentHandler(app.Payments, cfg.PaymentGatewayMock),
		Dashboard: handlers.NewDashboardHandler(app.Dashboard),
	}, verifier)

	if err := routes.Run(ctx, router, cfg.HTTPPort); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
