package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	AMQP        AMQPConfig
	JWT         JWTConfig
	Payment     PaymentConfig
	Reservation ReservationConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// SnapshotTTL bounds how stale a cached seat map may get.
	SnapshotTTL time.Duration
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type PaymentConfig struct {
	// WebhookSecret signs and verifies gateway callbacks.
	WebhookSecret string
	Currency      string
}

type ReservationConfig struct {
	// HoldDuration is how long a granted hold stays valid.
	HoldDuration time.Duration
	// MaxSeatsPerOrder caps a single selection.
	MaxSeatsPerOrder int
	// ReapInterval is how often the background sweep runs.
	ReapInterval time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_SNAPSHOT_TTL_SECONDS", 5)
	viper.SetDefault("AMQP_EXCHANGE", "bookings")
	viper.SetDefault("PAYMENT_CURRENCY", "usd")
	viper.SetDefault("HOLD_DURATION_MINUTES", 10)
	viper.SetDefault("MAX_SEATS_PER_ORDER", 10)
	viper.SetDefault("REAP_INTERVAL_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:        viper.GetString("REDIS_ADDR"),
			Password:    viper.GetString("REDIS_PASS"),
			DB:          viper.GetInt("REDIS_DB"),
			SnapshotTTL: time.Duration(viper.GetInt("REDIS_SNAPSHOT_TTL_SECONDS")) * time.Second,
		},
		AMQP: AMQPConfig{
			URL:      viper.GetString("AMQP_URL"),
			Exchange: viper.GetString("AMQP_EXCHANGE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Payment: PaymentConfig{
			WebhookSecret: viper.GetString("PAYMENT_WEBHOOK_SECRET"),
			Currency:      viper.GetString("PAYMENT_CURRENCY"),
		},
		Reservation: ReservationConfig{
			HoldDuration:     time.Duration(viper.GetInt("HOLD_DURATION_MINUTES")) * time.Minute,
			MaxSeatsPerOrder: viper.GetInt("MAX_SEATS_PER_ORDER"),
			ReapInterval:     time.Duration(viper.GetInt("REAP_INTERVAL_SECONDS")) * time.Second,
		},
	}

	return config, nil
}
