package config

const EnvPrefix = "OXYGENIX"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageDriverMemory = "memory"
	StorageDriverFile   = "file"
	StorageDriverRedis  = "redis"
	StorageDriverSQL    = "sql"
)

const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

const (
	EnvAppEnv        = "OXYGENIX_APP_ENV"
	EnvPort          = "OXYGENIX_APP_PORT"
	EnvLogLevel      = "OXYGENIX_LOG_LEVEL"
	EnvStorageDriver = "OXYGENIX_STORAGE_DRIVER"
	EnvStorageDir    = "OXYGENIX_STORAGE_FILE_DIR"
	EnvDBDriver      = "OXYGENIX_DB_DRIVER"
	EnvDBDSN         = "OXYGENIX_DB_DSN"
	EnvRedisURL      = "OXYGENIX_REDIS_URL"
	EnvRedisAddr     = "OXYGENIX_REDIS_ADDR"
	EnvCartNamespace = "OXYGENIX_CART_NAMESPACE"
	EnvSessionSecret = "OXYGENIX_SESSION_SECRET"
	EnvSessionTTL    = "OXYGENIX_SESSION_TTL"
)
