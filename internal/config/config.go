package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix           = "COMMENTS"
	defaultHTTPAddress  = "0.0.0.0:8080"
	defaultDatabasePath = "comments.db"
	defaultLogLevel     = "info"
	defaultFileBaseURL  = "/files"
)

// AppConfig captures runtime configuration for the comment API server.
type AppConfig struct {
	HTTPAddress  string
	DatabasePath string
	LogLevel     string
	// SessionSigningSecret enables bearer-token sessions; empty runs the
	// server in anonymous-only mode.
	SessionSigningSecret string
	// FileBaseURL prefixes stored file URIs when building avatar URLs.
	FileBaseURL string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("files.base_url", defaultFileBaseURL)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:          configViper.GetString("http.address"),
		DatabasePath:         configViper.GetString("database.path"),
		LogLevel:             configViper.GetString("log.level"),
		SessionSigningSecret: configViper.GetString("session.signing_secret"),
		FileBaseURL:          configViper.GetString("files.base_url"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.HTTPAddress) == "" {
		return fmt.Errorf("http.address is required")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database.path is required")
	}
	if strings.TrimSpace(c.FileBaseURL) == "" {
		return fmt.Errorf("files.base_url is required")
	}
	return nil
}
