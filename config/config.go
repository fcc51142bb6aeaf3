package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting for the server. All values come from
// environment variables (optionally via a .env file), loaded once at startup
// and handed to the components that need them.
type Config struct {
	Server   ServerConfig
	AWS      AWSConfig
	Auth     AuthConfig
	Webhook  WebhookConfig
	Redis    RedisConfig
	Greeting GreetingConfig
}

type ServerConfig struct {
	Port string
}

type AWSConfig struct {
	Region   string
	S3Bucket string
}

type AuthConfig struct {
	JWTSecret string
}

type WebhookConfig struct {
	Secret string
}

type RedisConfig struct {
	Addr     string // empty disables the candidate-exclusion cache
	Password string
	DB       int
	TTL      time.Duration
}

type GreetingConfig struct {
	MinDelay     time.Duration
	MaxDelay     time.Duration
	PollInterval time.Duration
}

// Load reads configuration from environment variables or a .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// The .env file is optional; env vars alone are fine.
	_ = viper.ReadInConfig()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("REDIS_CACHE_TTL_SECONDS", 30)
	viper.SetDefault("GREETING_MIN_DELAY_SECONDS", 10)
	viper.SetDefault("GREETING_MAX_DELAY_SECONDS", 60)
	viper.SetDefault("GREETING_POLL_INTERVAL_SECONDS", 5)

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetString("PORT"),
		},
		AWS: AWSConfig{
			Region:   viper.GetString("AWS_REGION"),
			S3Bucket: viper.GetString("S3_BUCKET_NAME"),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("JWT_SECRET"),
		},
		Webhook: WebhookConfig{
			Secret: viper.GetString("WEBHOOK_SECRET"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			TTL:      time.Duration(viper.GetInt("REDIS_CACHE_TTL_SECONDS")) * time.Second,
		},
		Greeting: GreetingConfig{
			MinDelay:     time.Duration(viper.GetInt("GREETING_MIN_DELAY_SECONDS")) * time.Second,
			MaxDelay:     time.Duration(viper.GetInt("GREETING_MAX_DELAY_SECONDS")) * time.Second,
			PollInterval: time.Duration(viper.GetInt("GREETING_POLL_INTERVAL_SECONDS")) * time.Second,
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.Webhook.Secret == "" {
		return nil, errors.New("WEBHOOK_SECRET is required")
	}
	if cfg.Greeting.MaxDelay < cfg.Greeting.MinDelay {
		return nil, errors.New("GREETING_MAX_DELAY_SECONDS must be >= GREETING_MIN_DELAY_SECONDS")
	}

	return cfg, nil
}
