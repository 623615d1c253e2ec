package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/flagx"
	"github.com/ardenspace/space3-your-journey/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations use
// timex.Duration so both "90s" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	OpsAddrHTTP                  string         `json:"ops_addr_http"`
	DatabaseDialect              string         `json:"database_dialect"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	DataDir                      string         `json:"data_dir"`
	NotificationURLs             []string       `json:"notification_urls"`
	NotificationPermission       string         `json:"notification_permission"`
	NotificationTick             timex.Duration `json:"notification_tick"`
	TrayTTL                      timex.Duration `json:"tray_ttl"`
	Locale                       string         `json:"locale"`
	LogFormat                    string         `json:"log_format"`
}

// parseJson loads the file named by -c/-config into config. Only keys
// present in the file replace current values. An unreadable or invalid
// file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.OpsAddrHTTP, c.OpsAddrHTTP)
	setString(&config.DatabaseDialect, c.DatabaseDialect)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.DataDir, c.DataDir)
	if len(c.NotificationURLs) > 0 {
		config.NotificationURLs = c.NotificationURLs
	}
	setString(&config.NotificationPermission, c.NotificationPermission)
	setDuration(&config.NotificationTick, c.NotificationTick)
	setDuration(&config.TrayTTL, c.TrayTTL)
	setString(&config.Locale, c.Locale)
	setString(&config.LogFormat, c.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
