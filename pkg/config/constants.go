package config

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "PRINTQUOTE_DB_DSN"
	EnvDBHost = "PRINTQUOTE_DB_HOST"
	EnvDBUser = "PRINTQUOTE_DB_USER"
	EnvDBName = "PRINTQUOTE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
