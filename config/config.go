// Package config loads runtime settings from .env, an optional YAML file and
// the process environment, in that order of precedence (env wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/amarsreevishnu/greennestPlants/pricing"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string
	LogLevel    string
	CORSOrigins []string
	NATSURL     string

	Database DatabaseConfig
	Auth     AuthConfig
	Razorpay RazorpayConfig
	Pricing  pricing.Rules
}

type DatabaseConfig struct {
	Driver          string // postgres, mysql or sqlite
	URL             string // full DSN; wins over the discrete fields
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	JWTSecret   string
	AdminAPIKey string
	TokenTTL    time.Duration
}

type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	APIURL        string
	Currency      string
}

// fileConfig mirrors the YAML layout. Money is kept as strings so that
// values like "499.99" never pass through float64.
type fileConfig struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Pricing struct {
		FreeShippingAbove string `yaml:"free_shipping_above"`
		ShippingCharge    string `yaml:"shipping_charge"`
		TaxRate           string `yaml:"tax_rate"`
		MaxQtyPerVariant  int    `yaml:"max_qty_per_variant"`
	} `yaml:"pricing"`
	Razorpay struct {
		APIURL   string `yaml:"api_url"`
		Currency string `yaml:"currency"`
	} `yaml:"razorpay"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Default returns a configuration usable for local development.
func Default() Config {
	return Config{
		Port:        "8080",
		LogLevel:    "info",
		CORSOrigins: []string{"*"},
		Database: DatabaseConfig{
			Driver:          "postgres",
			Host:            "localhost",
			Port:            "5432",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Auth: AuthConfig{TokenTTL: 24 * time.Hour},
		Razorpay: RazorpayConfig{
			APIURL:   "https://api.razorpay.com/v1",
			Currency: "INR",
		},
		Pricing: pricing.DefaultRules(),
	}
}

// Load builds the configuration. path may be empty.
func Load(path string) (Config, error) {
	// Load environment variables
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return err
	}

	setString(&c.Port, fc.Port)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.Database.Driver, fc.Database.Driver)
	setString(&c.Database.URL, fc.Database.URL)
	setString(&c.Razorpay.APIURL, fc.Razorpay.APIURL)
	setString(&c.Razorpay.Currency, fc.Razorpay.Currency)
	if len(fc.CORSOrigins) > 0 {
		c.CORSOrigins = fc.CORSOrigins
	}
	if fc.Pricing.MaxQtyPerVariant > 0 {
		c.Pricing.MaxQtyPerVariant = fc.Pricing.MaxQtyPerVariant
	}
	return c.setMoney(map[string]struct {
		dst *decimal.Decimal
		val string
	}{
		"pricing.free_shipping_above": {&c.Pricing.FreeShippingAbove, fc.Pricing.FreeShippingAbove},
		"pricing.shipping_charge":     {&c.Pricing.ShippingCharge, fc.Pricing.ShippingCharge},
		"pricing.tax_rate":            {&c.Pricing.TaxRate, fc.Pricing.TaxRate},
	})
}

func (c *Config) mergeEnv() error {
	setString(&c.Port, os.Getenv("PORT"))
	setString(&c.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&c.NATSURL, os.Getenv("NATS_URL"))
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}

	setString(&c.Database.Driver, os.Getenv("DB_DRIVER"))
	setString(&c.Database.URL, os.Getenv("DATABASE_URL"))
	setString(&c.Database.Host, os.Getenv("DB_HOST"))
	setString(&c.Database.Port, os.Getenv("DB_PORT"))
	setString(&c.Database.User, os.Getenv("DB_USER"))
	setString(&c.Database.Password, os.Getenv("DB_PASSWORD"))
	setString(&c.Database.Name, os.Getenv("DB_NAME"))
	setString(&c.Database.SSLMode, os.Getenv("DB_SSLMODE"))

	setString(&c.Auth.JWTSecret, os.Getenv("JWT_SECRET"))
	setString(&c.Auth.AdminAPIKey, os.Getenv("ADMIN_API_KEY"))
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TOKEN_TTL: %w", err)
		}
		c.Auth.TokenTTL = ttl
	}

	setString(&c.Razorpay.KeyID, os.Getenv("RAZORPAY_KEY_ID"))
	setString(&c.Razorpay.KeySecret, os.Getenv("RAZORPAY_KEY_SECRET"))
	setString(&c.Razorpay.WebhookSecret, os.Getenv("RAZORPAY_WEBHOOK_SECRET"))
	setString(&c.Razorpay.APIURL, os.Getenv("RAZORPAY_API_URL"))
	setString(&c.Razorpay.Currency, os.Getenv("RAZORPAY_CURRENCY"))

	if v := os.Getenv("MAX_QTY_PER_VARIANT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_QTY_PER_VARIANT: %w", err)
		}
		c.Pricing.MaxQtyPerVariant = n
	}
	return c.setMoney(map[string]struct {
		dst *decimal.Decimal
		val string
	}{
		"FREE_SHIPPING_ABOVE": {&c.Pricing.FreeShippingAbove, os.Getenv("FREE_SHIPPING_ABOVE")},
		"SHIPPING_CHARGE":     {&c.Pricing.ShippingCharge, os.Getenv("SHIPPING_CHARGE")},
		"TAX_RATE":            {&c.Pricing.TaxRate, os.Getenv("TAX_RATE")},
	})
}

func (c *Config) setMoney(fields map[string]struct {
	dst *decimal.Decimal
	val string
}) error {
	for name, f := range fields {
		if f.val == "" {
			continue
		}
		d, err := decimal.NewFromString(strings.TrimSpace(f.val))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if d.IsNegative() {
			return fmt.Errorf("%s: must not be negative", name)
		}
		*f.dst = d
	}
	return nil
}

// Validate checks what the HTTP server cannot run without.
func (c Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	if c.Auth.AdminAPIKey == "" {
		errs = append(errs, errors.New("ADMIN_API_KEY is not set"))
	}
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver))
	}
	if c.Pricing.MaxQtyPerVariant <= 0 {
		errs = append(errs, errors.New("max quantity per variant must be positive"))
	}
	return errors.Join(errs...)
}

// RazorpayEnabled reports whether gateway checkout can be offered.
func (c Config) RazorpayEnabled() bool {
	return c.Razorpay.KeyID != "" && c.Razorpay.KeySecret != ""
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
