package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, StorageDynamoDB, cfg.StorageDriver)
	assert.Equal(t, "0.10", cfg.TaxRate)
	assert.Equal(t, 30, cfg.InvoiceDueDays)
	assert.Equal(t, "global", cfg.QuoteNumberScope)
	assert.Equal(t, "invoices", cfg.Tables.Invoices)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
service:
  http_port: 9090
storage:
  driver: sqlite
  sqlite_path: /tmp/billing.db
  tables:
    invoices: billing-invoices
billing:
  tax_rate: "8%"
  invoice_due_days: 14
dependencies:
  kafka_brokers: [" kafka:9092 ", ""]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("INVOICE_DUE_DAYS", "45")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")
	t.Setenv("PAYMENT_GATEWAY_MOCK", "yes")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, StorageSQLite, cfg.StorageDriver)
	assert.Equal(t, "/tmp/billing.db", cfg.SQLitePath)
	assert.Equal(t, "billing-invoices", cfg.Tables.Invoices)
	assert.Equal(t, "quotes", cfg.Tables.Quotes)
	assert.Equal(t, "8%", cfg.TaxRate)
	assert.Equal(t, 45, cfg.InvoiceDueDays, "environment wins over the file")
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.PaymentGatewayMock)
}

func TestLoad_RejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown storage driver", "STORAGE_DRIVER", "postgres"},
		{"port out of range", "HTTP_PORT", "70000"},
		{"negative due days", "INVOICE_DUE_DAYS", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			require.Error(t, err)
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service: [unterminated"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
