package config

import (
	"os"
	"time"
)

// parseEnv overlays Config fields from environment variables.
//
// Supported variables:
//
//	ADDRESS               HTTP bind address (e.g., ":3000")
//	DATABASE_DSN          PostgreSQL DSN
//	ACCESS_TOKEN_SECRET   HMAC secret for access tokens
//	REFRESH_TOKEN_SECRET  HMAC secret for refresh tokens
//	ACCESS_TOKEN_EXPIRY   access token validity (time.ParseDuration, e.g. "15m")
//	REFRESH_TOKEN_EXPIRY  refresh token validity (e.g. "240h")
//	S3_ROOT_USER          media host access key
//	S3_ROOT_PASSWORD      media host secret key
//	S3_BUCKET             media bucket name
//	S3_REGION             media bucket region
//	S3_BASE_ENDPOINT      media host endpoint (e.g. "http://127.0.0.1:9000/")
//	S3_PUBLIC_BASE_URL    public base URL for uploaded objects
//
// Unset variables leave the current value in place; unparseable durations
// panic, since a half-applied token lifetime is worse than failing fast.
func parseEnv(config *Config) {
	setString := func(dst *string, name string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}
	setDuration := func(dst *time.Duration, name string) {
		v, ok := os.LookupEnv(name)
		if !ok {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}

	setString(&config.Address, "ADDRESS")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.AccessTokenSecret, "ACCESS_TOKEN_SECRET")
	setString(&config.RefreshTokenSecret, "REFRESH_TOKEN_SECRET")
	setDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_EXPIRY")
	setDuration(&config.RefreshTokenValidityDuration, "REFRESH_TOKEN_EXPIRY")
	setString(&config.S3RootUser, "S3_ROOT_USER")
	setString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	setString(&config.S3Bucket, "S3_BUCKET")
	setString(&config.S3Region, "S3_REGION")
	setString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	setString(&config.S3PublicBaseURL, "S3_PUBLIC_BASE_URL")
}
