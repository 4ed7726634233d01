// Package config loads service settings: built-in defaults, then an optional YAML file,
// then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	StorageDynamoDB = "dynamodb"
	StorageSQLite   = "sqlite"
)

type Config struct {
	HTTPPort int

	StorageDriver string
	SQLitePath    string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	DynamoDBEndpoint   string
	Tables             TableNames

	TaxRate          string
	InvoiceDueDays   int
	QuoteNumberScope string

	JWTSecret string

	KafkaBrokers     []string
	KafkaTopicPrefix string

	MercadoPagoAccessToken string
	PaymentGatewayMock     bool
	SandboxPayerEmail      string

	LogLevel  string
	LogFormat string
}

type TableNames struct {
	Customers string `yaml:"customers"`
	Quotes    string `yaml:"quotes"`
	Invoices  string `yaml:"invoices"`
	Payments  string `yaml:"payments"`
	Sequences string `yaml:"sequences"`
	Uniques   string `yaml:"uniques"`
}

type configFile struct {
	Service struct {
		HTTPPort  int    `yaml:"http_port"`
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
	} `yaml:"service"`
	Storage struct {
		Driver     string     `yaml:"driver"`
		SQLitePath string     `yaml:"sqlite_path"`
		Region     string     `yaml:"aws_region"`
		Endpoint   string     `yaml:"dynamodb_endpoint"`
		Tables     TableNames `yaml:"tables"`
	} `yaml:"storage"`
	Billing struct {
		TaxRate          string `yaml:"tax_rate"`
		InvoiceDueDays   int    `yaml:"invoice_due_days"`
		QuoteNumberScope string `yaml:"quote_number_scope"`
	} `yaml:"billing"`
	Dependencies struct {
		KafkaBrokers      []string `yaml:"kafka_brokers"`
		KafkaTopicPrefix  string   `yaml:"kafka_topic_prefix"`
		SandboxPayerEmail string   `yaml:"sandbox_payer_email"`
	} `yaml:"dependencies"`
}

func defaults() Config {
	return Config{
		HTTPPort:           8080,
		StorageDriver:      StorageDynamoDB,
		SQLitePath:         "invoices.db",
		AWSRegion:          "us-east-1",
		AWSAccessKeyID:     "local",
		AWSSecretAccessKey: "local",
		Tables: TableNames{
			Customers: "customers",
			Quotes:    "quotes",
			Invoices:  "invoices",
			Payments:  "payments",
			Sequences: "sequences",
			Uniques:   "uniques",
		},
		TaxRate:          "0.10",
		InvoiceDueDays:   30,
		QuoteNumberScope: "global",
		KafkaTopicPrefix: "invoicing",
		LogLevel:         "info",
		LogFormat:        "console",
	}
}

// Load builds the configuration. A missing file at path is not an error; secrets are only
// read from the environment.
func Load(path string) (Config, error) {
	cfg := defaults()

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		var f configFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
		cfg.applyFile(f)
	case !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(f configFile) {
	if f.Service.HTTPPort > 0 {
		c.HTTPPort = f.Service.HTTPPort
	}
	setIfNotEmpty(&c.LogLevel, f.Service.LogLevel)
	setIfNotEmpty(&c.LogFormat, f.Service.LogFormat)
	setIfNotEmpty(&c.StorageDriver, f.Storage.Driver)
	setIfNotEmpty(&c.SQLitePath, f.Storage.SQLitePath)
	setIfNotEmpty(&c.AWSRegion, f.Storage.Region)
	setIfNotEmpty(&c.DynamoDBEndpoint, f.Storage.Endpoint)
	setIfNotEmpty(&c.Tables.Customers, f.Storage.Tables.Customers)
	setIfNotEmpty(&c.Tables.Quotes, f.Storage.Tables.Quotes)
	setIfNotEmpty(&c.Tables.Invoices, f.Storage.Tables.Invoices)
	setIfNotEmpty(&c.Tables.Payments, f.Storage.Tables.Payments)
	setIfNotEmpty(&c.Tables.Sequences, f.Storage.Tables.Sequences)
	setIfNotEmpty(&c.Tables.Uniques, f.Storage.Tables.Uniques)
	setIfNotEmpty(&c.TaxRate, f.Billing.TaxRate)
	if f.Billing.InvoiceDueDays > 0 {
		c.InvoiceDueDays = f.Billing.InvoiceDueDays
	}
	setIfNotEmpty(&c.QuoteNumberScope, f.Billing.QuoteNumberScope)
	if len(f.Dependencies.KafkaBrokers) > 0 {
		c.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
	}
	setIfNotEmpty(&c.KafkaTopicPrefix, f.Dependencies.KafkaTopicPrefix)
	setIfNotEmpty(&c.SandboxPayerEmail, f.Dependencies.SandboxPayerEmail)
}

func (c *Config) applyEnv() {
	c.HTTPPort = envInt("HTTP_PORT", c.HTTPPort)
	c.StorageDriver = strings.ToLower(getenvDefault("STORAGE_DRIVER", c.StorageDriver))
	c.SQLitePath = getenvDefault("SQLITE_PATH", c.SQLitePath)
	c.AWSRegion = getenvDefault("AWS_REGION", c.AWSRegion)
	c.AWSAccessKeyID = getenvDefault("AWS_ACCESS_KEY_ID", c.AWSAccessKeyID)
	c.AWSSecretAccessKey = getenvDefault("AWS_SECRET_ACCESS_KEY", c.AWSSecretAccessKey)
	c.DynamoDBEndpoint = getenvDefault("DYNAMODB_ENDPOINT", c.DynamoDBEndpoint)
	c.Tables.Customers = getenvDefault("CUSTOMERS_TABLE", c.Tables.Customers)
	c.Tables.Quotes = getenvDefault("QUOTES_TABLE", c.Tables.Quotes)
	c.Tables.Invoices = getenvDefault("INVOICES_TABLE", c.Tables.Invoices)
	c.Tables.Payments = getenvDefault("PAYMENTS_TABLE", c.Tables.Payments)
	c.Tables.Sequences = getenvDefault("SEQUENCES_TABLE", c.Tables.Sequences)
	c.Tables.Uniques = getenvDefault("UNIQUES_TABLE", c.Tables.Uniques)
	c.TaxRate = getenvDefault("TAX_RATE", c.TaxRate)
	c.InvoiceDueDays = envInt("INVOICE_DUE_DAYS", c.InvoiceDueDays)
	c.QuoteNumberScope = getenvDefault("QUOTE_NUMBER_SCOPE", c.QuoteNumberScope)
	c.JWTSecret = getenvDefault("JWT_SECRET", c.JWTSecret)
	c.KafkaBrokers = envCSV("KAFKA_BROKERS", c.KafkaBrokers)
	c.KafkaTopicPrefix = getenvDefault("KAFKA_TOPIC_PREFIX", c.KafkaTopicPrefix)
	c.MercadoPagoAccessToken = getenvDefault("MERCADOPAGO_ACCESS_TOKEN", c.MercadoPagoAccessToken)
	c.PaymentGatewayMock = envBool("PAYMENT_GATEWAY_MOCK", envBool("MERCADOPAGO_MOCK", c.PaymentGatewayMock))
	c.SandboxPayerEmail = getenvDefault("MERCADOPAGO_SANDBOX_PAYER_EMAIL", c.SandboxPayerEmail)
	c.LogLevel = getenvDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getenvDefault("LOG_FORMAT", c.LogFormat)
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case StorageDynamoDB, StorageSQLite:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.StorageDriver == StorageSQLite && c.SQLitePath == "" {
		return errors.New("missing SQLITE_PATH")
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.HTTPPort)
	}
	if c.InvoiceDueDays < 0 {
		return fmt.Errorf("invalid INVOICE_DUE_DAYS %d", c.InvoiceDueDays)
	}
	return nil
}

func setIfNotEmpty(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on", "mock":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return trimNonEmpty(strings.Split(raw, ","))
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
