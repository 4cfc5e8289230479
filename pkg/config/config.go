package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "ECAPP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DraftBackendMemory = "memory"
	DraftBackendRedis  = "redis"
	DraftBackendSQLite = "sqlite"
)

type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Tax      TaxConfig
	Checkout CheckoutConfig
	Draft    DraftConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Breaker  BreakerConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Draft.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ECAPP_APP_ENV" required:"true"`
	Port         string `envconfig:"ECAPP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ECAPP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ECAPP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points at the commerce platform the engine orchestrates
// against. Tenant, branch and origin ride along as headers on every call.
type UpstreamConfig struct {
	BaseURL  string        `envconfig:"ECAPP_UPSTREAM_BASE_URL" required:"true"`
	TenantID string        `envconfig:"ECAPP_UPSTREAM_TENANT_ID" required:"true"`
	BranchID string        `envconfig:"ECAPP_UPSTREAM_BRANCH_ID" required:"true"`
	Origin   string        `envconfig:"ECAPP_UPSTREAM_ORIGIN" default:"checkout-engine"`
	Timeout  time.Duration `envconfig:"ECAPP_UPSTREAM_TIMEOUT" default:"30s"`
}

type TaxConfig struct {
	Enabled          bool    `envconfig:"ECAPP_TAX_ENABLED" default:"false"`
	PriceIncludesTax bool    `envconfig:"ECAPP_TAX_PRICE_INCLUDES_TAX" default:"false"`
	Rate             float64 `envconfig:"ECAPP_TAX_RATE" default:"0"`
}

// NormalizedRate maps the configured rate to a [0,1] fraction. Values above 1
// and at most 100 are read as percentages; anything else out of range is
// treated as no tax.
func (t TaxConfig) NormalizedRate() float64 {
	rate := t.Rate
	if rate > 1 && rate <= 100 {
		rate = rate / 100
	}
	if rate < 0 || rate > 1 {
		return 0
	}
	return rate
}

type CheckoutConfig struct {
	// DiscountLockOnApply keeps an applied discount through cart edits. When
	// false, any cart mutation clears the discount until it is re-validated.
	DiscountLockOnApply bool   `envconfig:"ECAPP_DISCOUNT_LOCK_ON_APPLY" default:"true"`
	LoginURL            string `envconfig:"ECAPP_LOGIN_URL" default:"/auth/login"`
	ShippingPageLimit   int    `envconfig:"ECAPP_SHIPPING_PAGE_LIMIT" default:"50"`
	SessionTTL          time.Duration `envconfig:"ECAPP_SESSION_TTL" default:"2h"`
}

type DraftConfig struct {
	Backend    string `envconfig:"ECAPP_DRAFT_BACKEND" default:"memory"`
	SQLitePath string `envconfig:"ECAPP_DRAFT_SQLITE_PATH" default:"checkout_drafts.db"`
}

func (d DraftConfig) validate() error {
	switch d.Backend {
	case DraftBackendMemory, DraftBackendRedis, DraftBackendSQLite:
		return nil
	}
	return fmt.Errorf("unknown draft backend %q", d.Backend)
}

type RedisConfig struct {
	URL          string        `envconfig:"ECAPP_REDIS_URL"`
	Address      string        `envconfig:"ECAPP_REDIS_ADDR"`
	Password     string        `envconfig:"ECAPP_REDIS_PASSWORD"`
	DB           int           `envconfig:"ECAPP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ECAPP_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"ECAPP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ECAPP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ECAPP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"ECAPP_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"ECAPP_JWT_ISSUER" default:"ecommerce-app"`
}

type BreakerConfig struct {
	MaxRequests uint32        `envconfig:"ECAPP_BREAKER_MAX_REQUESTS" default:"3"`
	Interval    time.Duration `envconfig:"ECAPP_BREAKER_INTERVAL" default:"60s"`
	Timeout     time.Duration `envconfig:"ECAPP_BREAKER_TIMEOUT" default:"30s"`
	MinRequests uint32        `envconfig:"ECAPP_BREAKER_MIN_REQUESTS" default:"5"`
	FailureRate float64       `envconfig:"ECAPP_BREAKER_FAILURE_RATE" default:"0.6"`
}
