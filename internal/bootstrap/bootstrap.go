// Package bootstrap wires configuration, storage, the payment gateway and the event
// publisher into the use cases shared by the API and billingctl.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"invoice_management/internal/adapter/persistence/repository"
	"invoice_management/internal/adapter/persistence/sqlite"
	"invoice_management/internal/config"
	"invoice_management/internal/domain/numbering"
	"invoice_management/internal/domain/pricing"
	"invoice_management/internal/infrastructure/database"
	"invoice_management/internal/infrastructure/messaging"
	"invoice_management/internal/infrastructure/payments"
	"invoice_management/internal/logger"
	"invoice_management/internal/usecase"
	"invoice_management/internal/usecase/interfaces"
)

type App struct {
	Config    config.Config
	Customers *usecase.CustomerUseCase
	Quotes    *usecase.QuoteUseCase
	Invoices  *usecase.InvoiceUseCase
	Payments  *usecase.PaymentUseCase
	Dashboard *usecase.DashboardUseCase

	closers []func() error
}

// New builds every use case on top of the configured store. Call Close when done.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	log := logger.WithComponent("bootstrap")
	app := &App{Config: cfg}

	rate, err := pricing.ParseRate(cfg.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("tax rate: %w", err)
	}
	calc, err := pricing.NewCalculator(rate)
	if err != nil {
		return nil, fmt.Errorf("tax rate: %w", err)
	}
	alloc := numbering.NewAllocator(numbering.ParseQuoteScope(cfg.QuoteNumberScope))

	uow, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, closeStore)

	events := newPublisher(cfg)
	if c, ok := events.(interface{ Close() error }); ok {
		app.closers = append(app.closers, c.Close)
	}

	var gateway interfaces.IPaymentGateway
	mp, err := payments.NewMercadoPagoGateway(cfg.MercadoPagoAccessToken, cfg.PaymentGatewayMock)
	if err != nil {
		log.Warn().Err(err).Msg("Mercado Pago gateway not configured; invoice charges are disabled")
	} else {
		gateway = mp
	}

	app.Customers = usecase.NewCustomerUseCase(uow)
	app.Quotes = usecase.NewQuoteUseCase(uow, calc, alloc, events, cfg.InvoiceDueDays)
	app.Invoices = usecase.NewInvoiceUseCase(uow, calc, alloc, events, cfg.InvoiceDueDays)
	app.Payments = usecase.NewPaymentUseCase(uow, gateway, events, usecase.ChargeSettings{
		Mock:              cfg.PaymentGatewayMock,
		SandboxPayerEmail: cfg.SandboxPayerEmail,
	})
	app.Dashboard = usecase.NewDashboardUseCase(uow)

	log.Info().
		Str("storage", cfg.StorageDriver).
		Str("tax_rate", calc.Rate().String()).
		Str("quote_scope", cfg.QuoteNumberScope).
		Int("invoice_due_days", cfg.InvoiceDueDays).
		Msg("application ready")
	return app, nil
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenStore returns the unit of work for the configured storage driver.
func OpenStore(ctx context.Context, cfg config.Config) (interfaces.IUnitOfWork, func() error, error) {
	switch cfg.StorageDriver {
	case config.StorageSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, store.Close, nil
	case config.StorageDynamoDB:
		ddb, err := database.ConnectDynamoDB(ctx, dynamoSettings(cfg))
		if err != nil {
			return nil, nil, fmt.Errorf("connect dynamodb: %w", err)
		}
		return repository.NewDynamoUnitOfWork(ddb, tables(cfg)), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
}

// Migrate prepares the configured store: DynamoDB tables are created if missing, the
// SQLite schema is applied on open.
func Migrate(ctx context.Context, cfg config.Config) error {
	switch cfg.StorageDriver {
	case config.StorageSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
		return store.Close()
	case config.StorageDynamoDB:
		ddb, err := database.ConnectDynamoDB(ctx, dynamoSettings(cfg))
		if err != nil {
			return fmt.Errorf("connect dynamodb: %w", err)
		}
		return repository.CreateTables(ctx, ddb, tables(cfg))
	}
	return fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
}

func newPublisher(cfg config.Config) interfaces.IEventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		return messaging.NewLogPublisher()
	}
	p, err := messaging.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix)
	if err != nil {
		log := logger.WithComponent("bootstrap")
		log.Warn().Err(err).Msg("kafka publisher unavailable, logging events instead")
		return messaging.NewLogPublisher()
	}
	return p
}

func dynamoSettings(cfg config.Config) database.DynamoDBSettings {
	return database.DynamoDBSettings{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		Endpoint:        cfg.DynamoDBEndpoint,
	}
}

func tables(cfg config.Config) repository.Tables {
	return repository.Tables{
		Customers: cfg.Tables.Customers,
		Quotes:    cfg.Tables.Quotes,
		Invoices:  cfg.Tables.Invoices,
		Payments:  cfg.Tables.Payments,
		Sequences: cfg.Tables.Sequences,
		Uniques:   cfg.Tables.Uniques,
	}
}
