package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

const (
	defaultPort        = "8080"
	defaultKafkaTopic  = "waste_events"
	defaultEventsCount = 5
)

type Mongo struct {
	Addr     string
	Database string
}

type Cache struct {
	Addr     string
	User     string
	Password string
}

type Kafka struct {
	Brokers string
	Topic   string
}

type Rabbit struct {
	URL string
}

type Config struct {
	Port     string
	Store    string
	Mongo    Mongo
	Postgres string
	// nil - не настроено
	Cache  *Cache
	Kafka  *Kafka
	Rabbit *Rabbit

	OtelEndpoint string
	Seed         bool
	EventsCount  int
}

// Load подхватывает .env (если есть) и читает переменные окружения
func Load(files ...string) (*Config, error) {
	err := godotenv.Load(files...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv собирает конфигурацию из getenv; обязательные переменные проверяются по выбранным компонентам
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:         getenv("WASTE_PORT"),
		Store:        getenv("WASTE_STORE"),
		OtelEndpoint: getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Seed:         true,
		EventsCount:  defaultEventsCount,
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.Store == "" {
		cfg.Store = StoreMemory
	}

	// storage
	switch cfg.Store {
	case StoreMemory:
	case StoreMongo:
		cfg.Mongo.Addr = getenv("WASTE_MONGO")
		if cfg.Mongo.Addr == "" {
			return nil, fmt.Errorf("env WASTE_MONGO is not set")
		}
		cfg.Mongo.Database = getenv("WASTE_MONGO_DB")
	case StorePostgres:
		cfg.Postgres = getenv("WASTE_DB")
		if cfg.Postgres == "" {
			return nil, fmt.Errorf("env WASTE_DB is not set")
		}
	default:
		return nil, fmt.Errorf("env WASTE_STORE: unknown store %q", cfg.Store)
	}

	// cache
	if addr := getenv("WASTE_CACHE_URL"); addr != "" {
		cfg.Cache = &Cache{
			Addr:     addr,
			User:     getenv("WASTE_CACHE_USER"),
			Password: getenv("WASTE_CACHE_PWD"),
		}
	}

	// kafka
	if url := getenv("WASTE_KAFKA_URL"); url != "" {
		port := getenv("WASTE_KAFKA_PORT")
		if port == "" {
			return nil, fmt.Errorf("env WASTE_KAFKA_PORT is not set")
		}
		topic := getenv("WASTE_KAFKA_TOPIC")
		if topic == "" {
			topic = defaultKafkaTopic
		}
		cfg.Kafka = &Kafka{Brokers: url + ":" + port, Topic: topic}
	}

	// rabbit
	if url := getenv("RABBIT_URL"); url != "" {
		port := getenv("RABBIT_PORT")
		if port == "" {
			return nil, fmt.Errorf("env RABBIT_PORT is not set")
		}
		user := getenv("RABBIT_USER")
		if user == "" {
			return nil, fmt.Errorf("env RABBIT_USER is not set")
		}
		pass := getenv("RABBIT_PASSWORD")
		if pass == "" {
			return nil, fmt.Errorf("env RABBIT_PASSWORD is not set")
		}
		cfg.Rabbit = &Rabbit{URL: "amqp://" + user + ":" + pass + "@" + url + ":" + port + "/"}
	}

	if v := getenv("WASTE_SEED"); v != "" {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("env WASTE_SEED: %w", err)
		}
		cfg.Seed = seed
	}

	if v := getenv("WASTE_EVENTS_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n > 0 {
			cfg.EventsCount = n
		}
	}
	return cfg, nil
}
