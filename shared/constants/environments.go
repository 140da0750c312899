package constants

type EnvEnum string

const (
	EnvDev  EnvEnum = "dev"
	EnvProd EnvEnum = "prod"
)

// HeaderRequestID carries the correlation id in both directions.
const HeaderRequestID = "X-Request-ID"
