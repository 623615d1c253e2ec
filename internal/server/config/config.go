// Package config handles configuration for the server component: defaults,
// a JSON file overlay, environment variables and command-line flags, applied
// in that order.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/dbx"
)

// Config holds runtime settings for the journey server.
//
// Storage fields (S3*) may be left empty: the server then runs without
// object storage and serves notebook designs without image links.
type Config struct {
	EndpointAddrGRPC string `envconfig:"GRPC_ADDR"`
	OpsAddrHTTP      string `envconfig:"OPS_ADDR"`

	DatabaseDialect string `envconfig:"DB_DIALECT"`
	DatabaseDSN     string `envconfig:"DB_DSN"`

	// HMAC secret for signing access tokens (HS256).
	SecretKey                    string        `envconfig:"SECRET_KEY"`
	AccessTokenValidityDuration  time.Duration `envconfig:"ACCESS_TOKEN_TTL"`
	RefreshTokenValidityDuration time.Duration `envconfig:"REFRESH_TOKEN_TTL"`

	S3RootUser     string `envconfig:"S3_USER"`
	S3RootPassword string `envconfig:"S3_PASSWORD"`
	S3Bucket       string `envconfig:"S3_BUCKET"`
	S3Region       string `envconfig:"S3_REGION"`
	S3BaseEndpoint string `envconfig:"S3_ENDPOINT"`

	// DataDir holds the notification facility's pending store.
	DataDir string `envconfig:"DATA_DIR"`

	// Delivery targets for fired notifications, as shoutrrr URLs.
	NotificationURLs []string `envconfig:"NOTIFY_URLS"`
	// NotificationPermission is the facility's answer to permission
	// requests: "grant" or "deny".
	NotificationPermission string        `envconfig:"NOTIFY_PERMISSION"`
	NotificationTick       time.Duration `envconfig:"NOTIFY_TICK"`
	TrayTTL                time.Duration `envconfig:"TRAY_TTL"`

	// Locale for notification texts ("en" or "ko").
	Locale    string `envconfig:"LOCALE"`
	LogFormat string `envconfig:"LOG_FORMAT"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key default is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.OpsAddrHTTP = ":8081"
	c.DatabaseDialect = string(dbx.DialectSQLite)
	c.DatabaseDSN = "file:journey.db?_pragma=busy_timeout(5000)"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.RefreshTokenValidityDuration = 24 * time.Hour
	c.S3Bucket = "designs"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.DataDir = "data"
	c.NotificationURLs = []string{"logger://"}
	c.NotificationPermission = PermissionGrant
	c.NotificationTick = time.Second
	c.TrayTTL = 24 * time.Hour
	c.Locale = "en"
	c.LogFormat = "json"
}

const (
	PermissionGrant = "grant"
	PermissionDeny  = "deny"
)

// Validate rejects settings the server cannot start with. Missing storage
// keys are not an error; see MissingStorageKeys.
func (c *Config) Validate() error {
	var errs []error

	if _, err := dbx.ParseDialect(c.DatabaseDialect); err != nil {
		errs = append(errs, err)
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database dsn is empty"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is empty"))
	}
	if c.AccessTokenValidityDuration <= 0 || c.RefreshTokenValidityDuration <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	if c.NotificationPermission != PermissionGrant && c.NotificationPermission != PermissionDeny {
		errs = append(errs, fmt.Errorf("notification permission %q: want %q or %q",
			c.NotificationPermission, PermissionGrant, PermissionDeny))
	}
	if c.NotificationTick <= 0 {
		errs = append(errs, errors.New("notification tick must be positive"))
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		errs = append(errs, fmt.Errorf("log format %q: want json or console", c.LogFormat))
	}

	return errors.Join(errs...)
}

// MissingStorageKeys lists the object storage settings that are not set.
func (c *Config) MissingStorageKeys() []string {
	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{"s3_root_user", c.S3RootUser},
		{"s3_root_password", c.S3RootPassword},
		{"s3_bucket", c.S3Bucket},
		{"s3_region", c.S3Region},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// StorageEnabled reports whether object storage can be used.
func (c *Config) StorageEnabled() bool {
	return len(c.MissingStorageKeys()) == 0
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
