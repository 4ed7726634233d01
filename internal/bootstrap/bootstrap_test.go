package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"invoice_management/internal/config"
	"invoice_management/internal/infrastructure/messaging"
	"invoice_management/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		StorageDriver:      config.StorageSQLite,
		SQLitePath:         filepath.Join(t.TempDir(), "invoices.db"),
		TaxRate:            "0.10",
		InvoiceDueDays:     30,
		QuoteNumberScope:   "global",
		PaymentGatewayMock: true,
	}
}

func TestNew_SQLite(t *testing.T) {
	cfg := sqliteConfig(t)
	require.NoError(t, Migrate(context.Background(), cfg))

	app, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	cust, err := app.Customers.CreateCustomer(context.Background(), "owner-1", usecase.CustomerInput{Name: "Acme"})
	require.NoError(t, err)

	q, err := app.Quotes.CreateQuote(context.Background(), "owner-1", usecase.QuoteInput{
		CustomerID: cust.ID,
		Items:      []usecase.LineItemInput{{Name: "Design", Quantity: 1, UnitPrice: 500000}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(550000), q.Total)

	d, err := app.Dashboard.GetDashboard(context.Background(), "owner-1", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, d.CustomerCount)
	require.Len(t, d.RecentQuotes, 1)
	assert.Equal(t, q.ID, d.RecentQuotes[0].ID)
}

func TestNew_RejectsBadTaxRate(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.TaxRate = "ten percent"

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, _, err := OpenStore(context.Background(), config.Config{StorageDriver: "postgres"})
	require.Error(t, err)
}

func TestNewPublisher(t *testing.T) {
	_, ok := newPublisher(config.Config{}).(*messaging.LogPublisher)
	assert.True(t, ok)

	p, ok := newPublisher(config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopicPrefix: "invoicing"}).(*messaging.KafkaPublisher)
	require.True(t, ok)
	assert.Equal(t, "invoicing.invoice.created", p.Topic("invoice.created"))
	require.NoError(t, p.Close())
}

func TestNewPublisher_FallsBackOnUnusableBrokers(t *testing.T) {
	_, ok := newPublisher(config.Config{KafkaBrokers: []string{"  "}}).(*messaging.LogPublisher)
	assert.True(t, ok)
}

func TestNew_WithKafkaBrokers(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.KafkaBrokers = []string{"localhost:9092"}
	cfg.KafkaTopicPrefix = "invoicing"

	app, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, app.Close())
}
