package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-pricing/pkg/enums"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Pricing      PricingConfig
	Shipping     ShippingConfig
	Cron         CronConfig
	Idempotency  IdempotencyConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Shipping.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STOREFRONT_DB_HOST"`
	LegacyPort     int    `envconfig:"STOREFRONT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOREFRONT_DB_USER"`
	LegacyPassword string `envconfig:"STOREFRONT_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOREFRONT_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOREFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"STOREFRONT_DB_SLOW_QUERY_THRESHOLD" default:"250ms"`
	TxRetries          int           `envconfig:"STOREFRONT_DB_TX_RETRIES" default:"2"`
}

// IsSQLite reports whether the configured driver is the embedded SQLite engine.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"STOREFRONT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STOREFRONT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"STOREFRONT_JWT_EXPIRATION_MINUTES" default:"60"`
	// Leeway absorbs clock skew between the identity service and this one.
	Leeway time.Duration `envconfig:"STOREFRONT_JWT_LEEWAY" default:"30s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
}

// PricingConfig holds the knobs the totals pipeline reads at request time.
type PricingConfig struct {
	CODFee        string `envconfig:"STOREFRONT_PRICING_COD_FEE" default:"50"`
	Currency      string `envconfig:"STOREFRONT_PRICING_CURRENCY" default:"INR"`
	DefaultRegion string `envconfig:"STOREFRONT_PRICING_DEFAULT_REGION" default:"default"`
}

// CODFeeAmount returns the flat cash-on-delivery surcharge.
func (p PricingConfig) CODFeeAmount() decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(p.CODFee))
	if err != nil {
		return decimal.Zero
	}
	return value
}

// CurrencyCode returns the configured currency, upper-cased.
func (p PricingConfig) CurrencyCode() enums.Currency {
	currency, err := enums.ParseCurrency(p.Currency)
	if err != nil {
		return enums.CurrencyINR
	}
	return currency
}

func (p PricingConfig) validate() error {
	value, err := decimal.NewFromString(strings.TrimSpace(p.CODFee))
	if err != nil {
		return fmt.Errorf("%s must be a decimal amount: %w", EnvPricingCODFee, err)
	}
	if value.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvPricingCODFee)
	}
	if _, err := enums.ParseCurrency(p.Currency); err != nil {
		return fmt.Errorf("%s: %w", EnvPricingCurrency, err)
	}
	return nil
}

// ShippingConfig describes the zone used when a region has no zone row.
type ShippingConfig struct {
	BaseRate              string `envconfig:"STOREFRONT_SHIPPING_BASE_RATE" default:"60"`
	ExpressMultiplier     string `envconfig:"STOREFRONT_SHIPPING_EXPRESS_MULTIPLIER" default:"2"`
	RegionMultiplier      string `envconfig:"STOREFRONT_SHIPPING_REGION_MULTIPLIER" default:"1"`
	FreeShippingThreshold string `envconfig:"STOREFRONT_SHIPPING_FREE_THRESHOLD"`
}

func (s ShippingConfig) validate() error {
	fields := map[string]string{
		EnvShippingBaseRate:          s.BaseRate,
		EnvShippingExpressMultiplier: s.ExpressMultiplier,
		EnvShippingRegionMultiplier:  s.RegionMultiplier,
	}
	if strings.TrimSpace(s.FreeShippingThreshold) != "" {
		fields[EnvShippingFreeThreshold] = s.FreeShippingThreshold
	}
	for env, raw := range fields {
		value, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s must be a decimal amount: %w", env, err)
		}
		if value.IsNegative() {
			return fmt.Errorf("%s must not be negative", env)
		}
	}
	return nil
}

// CronConfig drives the worker tick and the spacing of each job. Deal
// activation runs every tick so window edges are picked up within Interval.
type CronConfig struct {
	Interval           time.Duration `envconfig:"STOREFRONT_CRON_INTERVAL" default:"1m"`
	LockTTL            time.Duration `envconfig:"STOREFRONT_CRON_LOCK_TTL" default:"2m"`
	JobTimeout         time.Duration `envconfig:"STOREFRONT_CRON_JOB_TIMEOUT" default:"90s"`
	DealSyncEvery      time.Duration `envconfig:"STOREFRONT_CRON_DEAL_SYNC_EVERY" default:"0s"`
	BuyNowCleanupEvery time.Duration `envconfig:"STOREFRONT_CRON_BUY_NOW_CLEANUP_EVERY" default:"1h"`
	BuyNowTTL          time.Duration `envconfig:"STOREFRONT_CRON_BUY_NOW_TTL" default:"24h"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"STOREFRONT_IDEMPOTENCY_TTL" default:"24h"`
}

// RateLimitConfig throttles coupon code attempts per shopper and per IP.
type RateLimitConfig struct {
	CouponWindow    time.Duration `envconfig:"STOREFRONT_RATE_LIMIT_COUPON_WINDOW" default:"10m"`
	CouponUserLimit int           `envconfig:"STOREFRONT_RATE_LIMIT_COUPON_USER" default:"20"`
	CouponIPLimit   int           `envconfig:"STOREFRONT_RATE_LIMIT_COUPON_IP" default:"60"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
