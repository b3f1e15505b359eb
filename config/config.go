package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

type StorageConfig struct {
	Driver        string // memory, bolt or mongo
	BoltPath      string
	MongoURI      string
	MongoDatabase string
}

type CatalogConfig struct {
	URL           string // may contain {category}
	Dir           string // served at /json/ when set
	Categories    []string
	EnvelopeField string
	CacheTTL      time.Duration
	RefreshSpec   string // cron spec; empty disables refresh
}

type CheckoutConfig struct {
	SubmitDelay      time.Duration
	SubmitTimeout    time.Duration
	FailureRate      float64
	FreeShippingOver float64
	FlatShipping     float64
	TaxRate          float64
	NodeID           int64
}

type LoggerConfig struct {
	Mode       string // development or production
	FileEnable bool
	Filename   string
}

type EmailConfig struct {
	PostmarkToken string
	Sender        string
	OrderInbox    string
}

type Config struct {
	Port      string
	JWTSecret string
	Storage   StorageConfig
	Catalog   CatalogConfig
	Checkout  CheckoutConfig
	Logger    LoggerConfig
	Email     EmailConfig
}

// Load reads .env when present, then the environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		zap.S().Debug("No .env file found. Proceeding with environment variables.")
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables, falling
// back to development defaults.
func FromEnv() *Config {
	return &Config{
		Port:      env("PORT", "8000"),
		JWTSecret: env("JWT_SECRET", "sleepoutside-dev-secret"),
		Storage: StorageConfig{
			Driver:        strings.ToLower(env("STORAGE_DRIVER", "bolt")),
			BoltPath:      env("BOLT_PATH", "data/sleepoutside.db"),
			MongoURI:      env("MONGO_URI", "mongodb://localhost:27017"),
			MongoDatabase: env("MONGO_DATABASE", "sleepoutside"),
		},
		Catalog: CatalogConfig{
			URL:           env("CATALOG_URL", "http://localhost:8000/json/{category}.json"),
			Dir:           env("CATALOG_DIR", ""),
			Categories:    splitList(env("CATALOG_CATEGORIES", "tents,backpacks,sleeping-bags,hammocks")),
			EnvelopeField: env("CATALOG_ENVELOPE_FIELD", "Result"),
			CacheTTL:      cast.ToDuration(env("CATALOG_CACHE_TTL", "5m")),
			RefreshSpec:   env("CATALOG_REFRESH", "@every 10m"),
		},
		Checkout: CheckoutConfig{
			SubmitDelay:      cast.ToDuration(env("CHECKOUT_SUBMIT_DELAY", "2s")),
			SubmitTimeout:    cast.ToDuration(env("CHECKOUT_SUBMIT_TIMEOUT", "30s")),
			FailureRate:      cast.ToFloat64(env("CHECKOUT_FAILURE_RATE", "0.1")),
			FreeShippingOver: cast.ToFloat64(env("CHECKOUT_FREE_SHIPPING_OVER", "100")),
			FlatShipping:     cast.ToFloat64(env("CHECKOUT_FLAT_SHIPPING", "10")),
			TaxRate:          cast.ToFloat64(env("CHECKOUT_TAX_RATE", "0.08")),
			NodeID:           cast.ToInt64(env("ORDER_NODE_ID", "1")),
		},
		Logger: LoggerConfig{
			Mode:       env("LOG_MODE", "development"),
			FileEnable: cast.ToBool(env("LOG_FILE_ENABLE", "false")),
			Filename:   env("LOG_FILE", "logs/sleepoutside.log"),
		},
		Email: EmailConfig{
			PostmarkToken: os.Getenv("POSTMARK_API_TOKEN"),
			Sender:        os.Getenv("EMAIL_SENDER"),
			OrderInbox:    os.Getenv("ORDER_NOTIFY_EMAIL"),
		},
	}
}

func env(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
