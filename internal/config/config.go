package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreDriverPostgREST = "postgrest"
	StoreDriverPostgres  = "postgres"
)

var (
	ErrMissingStoreURL    = errors.New("SUPABASE_URL is required")
	ErrMissingStoreKey    = errors.New("SUPABASE_ANON_KEY is required")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for the postgres store driver")
	ErrUnsupportedDriver  = errors.New("unsupported STORE_DRIVER")
)

type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Logging LoggingConfig
	Robot   RobotConfig
	Kafka   KafkaConfig
	AMQP    AMQPConfig
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8000"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Driver      string        `env:"STORE_DRIVER" envDefault:"postgrest"`
	URL         string        `env:"SUPABASE_URL"`
	APIKey      string        `env:"SUPABASE_ANON_KEY"`
	DatabaseURL string        `env:"DATABASE_URL"`
	Migrate     bool          `env:"DATABASE_MIGRATE" envDefault:"false"`
	Timeout     time.Duration `env:"STORE_TIMEOUT" envDefault:"10s"`
}

type LoggingConfig struct {
	Level     string `env:"LOG_LEVEL" envDefault:"info"`
	Format    string `env:"LOG_FORMAT" envDefault:"json"`
	Directory string `env:"LOG_DIRECTORY" envDefault:"./logs"`
}

type RobotConfig struct {
	TransitDelay time.Duration `env:"ROBOT_TRANSIT_DELAY" envDefault:"1s"`
}

// KafkaConfig is disabled when Brokers is empty. LegacyBrokers is read from
// KAFKA_BROKER and only used when KAFKA_BROKERS is unset.
type KafkaConfig struct {
	Brokers       []string `env:"KAFKA_BROKERS" envSeparator:","`
	LegacyBrokers []string `env:"KAFKA_BROKER" envSeparator:","`
	GroupID       string   `env:"KAFKA_GROUP_ID" envDefault:"smart-waiter"`
	CommandTopic  string   `env:"KAFKA_COMMAND_TOPIC" envDefault:"robot.commands"`
	EventTopic    string   `env:"KAFKA_EVENT_TOPIC" envDefault:"smart-waiter.events"`
}

// AMQPConfig is disabled when URL is empty.
type AMQPConfig struct {
	URL      string `env:"AMQP_URL"`
	Exchange string `env:"AMQP_EXCHANGE" envDefault:"smart_waiter_events"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	err := env.ParseWithOptions(&cfg, env.Options{
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(""):               parseTrimmed,
			reflect.TypeOf(time.Duration(0)): parseSeconds,
		},
	})
	if err != nil {
		return Config{}, err
	}

	cfg.Store.Driver = strings.ToLower(cfg.Store.Driver)
	cfg.Kafka.Brokers = compact(cfg.Kafka.Brokers)
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = compact(cfg.Kafka.LegacyBrokers)
	}

	if err := cfg.Store.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (s StoreConfig) validate() error {
	switch s.Driver {
	case StoreDriverPostgREST:
		if s.URL == "" {
			return ErrMissingStoreURL
		}
		if s.APIKey == "" {
			return ErrMissingStoreKey
		}
	case StoreDriverPostgres:
		if s.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, s.Driver)
	}
	return nil
}

func parseTrimmed(raw string) (interface{}, error) {
	return strings.TrimSpace(raw), nil
}

// parseSeconds accepts plain seconds ("2.5") as well as Go durations ("250ms").
func parseSeconds(raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	if seconds, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(seconds * float64(time.Second)), nil
	}
	return time.ParseDuration(raw)
}

func compact(items []string) []string {
	var out []string
	for _, item := range items {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
