package config

// EnvPrefix is the envconfig prefix shared by every setting.
const EnvPrefix = "VENDORA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "VENDORA_DB_DSN"
	EnvDBHost = "VENDORA_DB_HOST"
	EnvDBUser = "VENDORA_DB_USER"
	EnvDBName = "VENDORA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
