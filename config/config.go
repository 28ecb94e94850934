package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	// Comma separated, e.g. "X-Forwarded-For". Empty trusts no forwarding header.
	ProxyIPHeaders []string `mapstructure:"PROXY_IP_HEADERS"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Payments.
	StripeKey string `mapstructure:"STRIPE_KEY"`
	Currency  string `mapstructure:"CURRENCY"`

	// Background reconciliation.
	AvailabilitySweepInterval time.Duration `mapstructure:"AVAILABILITY_SWEEP_INTERVAL"`
	AvailabilityLookback      time.Duration `mapstructure:"AVAILABILITY_LOOKBACK"`
	SubscriptionSweepInterval time.Duration `mapstructure:"SUBSCRIPTION_SWEEP_INTERVAL"`
	SweepTimeout              time.Duration `mapstructure:"SWEEP_TIMEOUT"`
	SweepBatchSize            int64         `mapstructure:"SWEEP_BATCH_SIZE"`
	SweepConcurrency          int           `mapstructure:"SWEEP_CONCURRENCY"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("PROXY_IP_HEADERS", "")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "techmate")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 3)
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("CURRENCY", "usd")
	viper.SetDefault("AVAILABILITY_SWEEP_INTERVAL", "60s")
	viper.SetDefault("AVAILABILITY_LOOKBACK", "60s")
	viper.SetDefault("SUBSCRIPTION_SWEEP_INTERVAL", "15m")
	viper.SetDefault("SWEEP_TIMEOUT", "45s")
	viper.SetDefault("SWEEP_BATCH_SIZE", 200)
	viper.SetDefault("SWEEP_CONCURRENCY", 8)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
