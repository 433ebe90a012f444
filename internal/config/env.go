package config

const (
	EnvConfigPath     = "CONFIG_PATH"
	EnvPagePassword   = "PAGE_PASSWORD"
	EnvS3AccessKeyID  = "S3_ACCESS_KEY_ID"
	EnvS3SecretKey    = "S3_SECRET_ACCESS_KEY"
	EnvStorageBackend = "STORAGE_BACKEND"
	EnvLogLevel       = "LOG_LEVEL"

	DefaultConfigPath = "config.yaml"
)
