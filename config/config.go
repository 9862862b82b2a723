package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string `env:"SERVER_PORT" env-default:"8080"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info"`

	DB       DB
	RabbitMQ RabbitMQ
	Redis    Redis
	Auth     Auth
	Flights  Flights
	Metrics  Metrics
}

type DB struct {
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     string `env:"DB_PORT" env-default:"5432"`
	User     string `env:"DB_USER" env-default:"postgres"`
	Password string `env:"DB_PASSWORD" env-default:"postgres"`
	Name     string `env:"DB_NAME" env-default:"ground_ops"`
	SSLMode  string `env:"DB_SSLMODE" env-default:"disable"`
}

// RabbitMQ is optional; an empty URL disables publishing and the schedule feed.
type RabbitMQ struct {
	URL string `env:"RABBITMQ_URL"`
}

// Redis is optional; an empty address disables idempotency keys.
type Redis struct {
	Addr string `env:"REDIS_ADDR"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET" env-required:"true"`
}

type Flights struct {
	HomeAirport          string `env:"HOME_AIRPORT" env-default:"SVO"`
	BoardingOpenOnGateOn bool   `env:"FLIGHT_BOARDING_OPEN_ON_GATE" env-default:"false"`
}

type Metrics struct {
	Namespace string `env:"METRICS_NAMESPACE" env-default:"ground_ops"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if len(cfg.Flights.HomeAirport) != 3 {
		return nil, fmt.Errorf("config error: HOME_AIRPORT must be a 3-letter IATA code, got %q", cfg.Flights.HomeAirport)
	}
	return cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}
