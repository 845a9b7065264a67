package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "EXHIBIT"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, error text).
const (
	EnvAppEnv = "EXHIBIT_APP_ENV"
	EnvPort   = "EXHIBIT_APP_PORT"

	EnvDBDSN  = "EXHIBIT_DB_DSN"
	EnvDBHost = "EXHIBIT_DB_HOST"
	EnvDBUser = "EXHIBIT_DB_USER"
	EnvDBName = "EXHIBIT_DB_NAME"

	EnvReplicateToken = "EXHIBIT_REPLICATE_API_TOKEN"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
