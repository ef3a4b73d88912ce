// Package config loads runtime settings from .env files, environment
// variables and an optional seoaudit.yaml using viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/seo-optimizer/seoaudit/analyzer"
)

// EnvPrefix namespaces environment overrides, e.g. SEOAUDIT_SERVER_PORT.
const EnvPrefix = "SEOAUDIT"

// Config is the fully resolved configuration.
type Config struct {
	Development bool
	Analyzer    analyzer.Options
	Server      ServerConfig
}

type ServerConfig struct {
	Port          string
	GinMode       string
	RatePerSecond float64
	Burst         int
	// DevMode exposes popular URLs on the statistics endpoint.
	DevMode bool
}

// LoadEnv reads .env.development, falling back to .env. Missing files are
// not an error.
func LoadEnv(logger *zap.Logger) {
	if err := godotenv.Load(".env.development"); err != nil {
		if err := godotenv.Load(); err != nil {
			logger.Debug("no .env file found, using environment variables")
		}
	}
}

// SetDefaults registers every key with its built-in value.
func SetDefaults(v *viper.Viper) {
	ex := analyzer.DefaultExclusions()

	v.SetDefault("log.development", false)
	v.SetDefault("http.user_agent", analyzer.DefaultUserAgent)
	v.SetDefault("links.excluded_tags", ex.Tags)
	v.SetDefault("links.excluded_classnames", ex.Classnames)
	v.SetDefault("links.excluded_ids", ex.IDs)
	v.SetDefault("keywords.top_n", analyzer.DefaultTopKeywords)
	v.SetDefault("keywords.visible_only", false)
	v.SetDefault("images.too_big_bytes", analyzer.DefaultTooBigBytes)
	v.SetDefault("server.port", "8082")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("server.rate_per_second", 2.0)
	v.SetDefault("server.burst", 5)
	v.SetDefault("server.dev_mode", false)
}

// NewViper returns a viper instance wired for defaults, environment
// variables and the optional config file search path.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetConfigName("seoaudit")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.seoaudit")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile loads the config file if one exists on the search path.
func ReadFile(v *viper.Viper, logger *zap.Logger) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			logger.Debug("config file not found; using defaults and environment variables")
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	logger.Debug("using config file", zap.String("path", v.ConfigFileUsed()))
	return nil
}

// Load resolves a Config from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Development: v.GetBool("log.development"),
		Analyzer: analyzer.Options{
			UserAgent: v.GetString("http.user_agent"),
			Exclusions: analyzer.Exclusions{
				Tags:       v.GetStringSlice("links.excluded_tags"),
				Classnames: v.GetStringSlice("links.excluded_classnames"),
				IDs:        v.GetStringSlice("links.excluded_ids"),
			},
			TopKeywords: v.GetInt("keywords.top_n"),
			VisibleOnly: v.GetBool("keywords.visible_only"),
			TooBigBytes: v.GetInt64("images.too_big_bytes"),
		},
		Server: ServerConfig{
			Port:          v.GetString("server.port"),
			GinMode:       v.GetString("server.gin_mode"),
			RatePerSecond: v.GetFloat64("server.rate_per_second"),
			Burst:         v.GetInt("server.burst"),
			DevMode:       v.GetBool("server.dev_mode"),
		},
	}

	if cfg.Analyzer.TopKeywords <= 0 {
		return Config{}, fmt.Errorf("keywords.top_n must be positive, got %d", cfg.Analyzer.TopKeywords)
	}
	if cfg.Analyzer.TooBigBytes <= 0 {
		return Config{}, fmt.Errorf("images.too_big_bytes must be positive, got %d", cfg.Analyzer.TooBigBytes)
	}
	if cfg.Server.RatePerSecond <= 0 || cfg.Server.Burst <= 0 {
		return Config{}, errors.New("server.rate_per_second and server.burst must be positive")
	}
	return cfg, nil
}
