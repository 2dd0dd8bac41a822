package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Booking BookingConfig
	Insight InsightConfig
	QR      QRConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StoreConfig selects the durable backend: redis, sqlite or postgres.
type StoreConfig struct {
	Driver    string
	DSN       string
	KeyPrefix string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers []string
	Enabled bool
	Topics  TopicConfig
}

type TopicConfig struct {
	BookingConfirmed string
	BookingCancelled string
}

type BookingConfig struct {
	SeatHoldTTL    time.Duration
	MaxSeats       int
	DefaultPerPage int
	PaymentDelay   time.Duration
}

type InsightConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

type QRConfig struct {
	SecretKey string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8084"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Store: StoreConfig{
			Driver:    strings.ToLower(getEnv("STORE_DRIVER", "redis")),
			DSN:       getEnv("STORE_DSN", "file:busbooking.db?cache=shared"),
			KeyPrefix: getEnv("STORE_KEY_PREFIX", "busbooking:"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Topics: TopicConfig{
				BookingConfirmed: getEnv("KAFKA_TOPIC_BOOKING_CONFIRMED", "busbooking.booking.confirmed"),
				BookingCancelled: getEnv("KAFKA_TOPIC_BOOKING_CANCELLED", "busbooking.booking.cancelled"),
			},
		},
		Booking: BookingConfig{
			SeatHoldTTL:    time.Duration(getEnvInt("SEAT_HOLD_TTL_MINUTES", 5)) * time.Minute,
			MaxSeats:       getEnvInt("MAX_SEATS_PER_BOOKING", 6),
			DefaultPerPage: getEnvInt("DEFAULT_ROWS_PER_PAGE", 8),
			PaymentDelay:   time.Duration(getEnvInt("PAYMENT_DELAY_MS", 1000)) * time.Millisecond,
		},
		Insight: InsightConfig{
			Endpoint: getEnv("INSIGHT_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"),
			APIKey:   getEnv("INSIGHT_API_KEY", ""),
			Timeout:  time.Duration(getEnvInt("INSIGHT_TIMEOUT_SECONDS", 20)) * time.Second,
		},
		QR: QRConfig{
			SecretKey: getEnv("QR_SECRET_KEY", "change-me"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
