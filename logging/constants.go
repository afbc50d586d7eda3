package logging

const (
	LOG_LEVEL      = "LOG_LEVEL"
	LOG_LEVEL_PROD = "prod"
	LOG_LEVEL_ELK  = "elk"
)
