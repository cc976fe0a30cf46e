package config

// EnvPrefix is handed to envconfig; every field also names its full variable explicitly.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "STOREFRONT_APP_ENV"
	EnvPort     = "STOREFRONT_APP_PORT"
	EnvLogLevel = "STOREFRONT_LOG_LEVEL"

	EnvDBDSN    = "STOREFRONT_DB_DSN"
	EnvDBDriver = "STOREFRONT_DB_DRIVER"
	EnvDBHost   = "STOREFRONT_DB_HOST"
	EnvDBUser   = "STOREFRONT_DB_USER"
	EnvDBName   = "STOREFRONT_DB_NAME"

	EnvRedisURL = "STOREFRONT_REDIS_URL"

	EnvJWTSecret = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer = "STOREFRONT_JWT_ISSUER"

	EnvPricingCODFee   = "STOREFRONT_PRICING_COD_FEE"
	EnvPricingCurrency = "STOREFRONT_PRICING_CURRENCY"

	EnvShippingBaseRate          = "STOREFRONT_SHIPPING_BASE_RATE"
	EnvShippingExpressMultiplier = "STOREFRONT_SHIPPING_EXPRESS_MULTIPLIER"
	EnvShippingRegionMultiplier  = "STOREFRONT_SHIPPING_REGION_MULTIPLIER"
	EnvShippingFreeThreshold     = "STOREFRONT_SHIPPING_FREE_THRESHOLD"

	EnvCronInterval = "STOREFRONT_CRON_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
