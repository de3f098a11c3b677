// Package config loads runtime settings from defaults, an optional .env
// file, CAPTION_* environment variables and an optional config file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix     = "CAPTION"
	configFileEnv = "CAPTION_CONFIG"
)

// Config holds runtime settings for the service.
type Config struct {
	Port        string
	DatabaseDSN string
	Cache       CacheConfig
	CORS        CORSConfig
	BcryptCost  int
	TokenTTL    time.Duration // zero disables token expiry
}

// CacheConfig selects the go-utils cache backend. Type "none" disables
// settings caching.
type CacheConfig struct {
	Type          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// CORSConfig controls the cross-origin headers sent to browser clients.
// An origin of "*" allows any origin.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int // seconds
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("database.dsn", "file:caption_service.db?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate&_foreign_keys=on")
	v.SetDefault("cache.type", "none")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "Authorization"})
	v.SetDefault("cors.exposed_headers", []string{})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.token_ttl", "0s")
}

// Load builds a Config. Precedence, highest first: environment, config
// file named by CAPTION_CONFIG, defaults. A .env file in the working
// directory is loaded into the environment first without overriding it.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv(configFileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Port:        v.GetString("port"),
		DatabaseDSN: v.GetString("database.dsn"),
		Cache: CacheConfig{
			Type:          v.GetString("cache.type"),
			RedisAddr:     v.GetString("cache.redis_addr"),
			RedisPassword: v.GetString("cache.redis_password"),
			RedisDB:       v.GetInt("cache.redis_db"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   v.GetStringSlice("cors.allowed_origins"),
			AllowedMethods:   v.GetStringSlice("cors.allowed_methods"),
			AllowedHeaders:   v.GetStringSlice("cors.allowed_headers"),
			ExposedHeaders:   v.GetStringSlice("cors.exposed_headers"),
			AllowCredentials: v.GetBool("cors.allow_credentials"),
			MaxAge:           v.GetInt("cors.max_age"),
		},
		BcryptCost: v.GetInt("auth.bcrypt_cost"),
		TokenTTL:   v.GetDuration("auth.token_ttl"),
	}
	if cfg.TokenTTL < 0 {
		return nil, fmt.Errorf("auth.token_ttl must not be negative, got %s", cfg.TokenTTL)
	}
	return cfg, nil
}
