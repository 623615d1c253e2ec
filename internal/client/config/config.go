package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	KeyServerAddr = "server_addr"
	KeyDataDir    = "data_dir"
	KeyLang       = "lang"
	KeyTimeout    = "timeout"

	envPrefix  = "JOURNEY"
	configName = ".journey"
)

// Config holds runtime settings for the journey CLI.
type Config struct {
	ServerAddr string
	DataDir    string
	Lang       string
	Timeout    time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerAddr = "127.0.0.1:50051"
	c.DataDir = "~/.journey"
	c.Lang = "en"
	c.Timeout = 10 * time.Second
}

// New returns a viper instance carrying the defaults, the config file
// search path and the environment binding.
func New() *viper.Viper {
	var d Config
	d.LoadDefaults()

	v := viper.New()
	v.SetDefault(KeyServerAddr, d.ServerAddr)
	v.SetDefault(KeyDataDir, d.DataDir)
	v.SetDefault(KeyLang, d.Lang)
	v.SetDefault(KeyTimeout, d.Timeout)

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags lets flags override the file and the environment.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for flag, key := range map[string]string{
		"server":   KeyServerAddr,
		"data-dir": KeyDataDir,
		"lang":     KeyLang,
		"timeout":  KeyTimeout,
	} {
		if f := fs.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load reads the config file, if any, and resolves the settings. An empty
// file names the default search path.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	dataDir, err := homedir.Expand(v.GetString(KeyDataDir))
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	cfg := &Config{
		ServerAddr: v.GetString(KeyServerAddr),
		DataDir:    dataDir,
		Lang:       v.GetString(KeyLang),
		Timeout:    v.GetDuration(KeyTimeout),
	}
	if cfg.ServerAddr == "" {
		return nil, errors.New("server address is empty")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	return cfg, nil
}
