package config

import "github.com/kelseyhightower/envconfig"

// EnvPrefix prefixes every environment variable read by the server,
// e.g. JOURNEY_DB_DSN.
const EnvPrefix = "JOURNEY"

// parseEnv overlays variables that are set; unset ones keep the current
// value. A malformed value panics, like a malformed JSON file.
func parseEnv(config *Config) {
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		panic(err)
	}
}
