package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	pstrings "peppolcheck/pkg/platform/strings"
)

// DefaultCountryCodes is the country-prefix allowlist used by the identifier normalizer.
var DefaultCountryCodes = []string{"BE", "NL", "PL", "FR", "DE", "IT", "ES", "GB", "US", "TR"}

// Server captures process level configuration.
type Server struct {
	Addr        string
	Environment string
	LogLevel    string
	OTelEnabled bool

	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Directory DirectoryConfig
	Lookup    LookupConfig
}

// DatabaseConfig configures the participants table connection pool.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the optional lookup result cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures lookup event publishing.
type KafkaConfig struct {
	Brokers         string
	LookupTopic     string
	Acks            string
	Retries         int
	DeliveryTimeout time.Duration
}

// DirectoryConfig configures the directory snapshot and its in-memory index.
type DirectoryConfig struct {
	Snapshot     string
	Format       string
	IndexTTL     time.Duration
	FetchTimeout time.Duration
}

// LookupConfig configures participant resolution.
type LookupConfig struct {
	StoreQueryTimeout time.Duration
	CacheTTL          time.Duration
	CountryCodes      []string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:        envString("PEPPOL_ADDR", ":8080"),
		Environment: envString("ENVIRONMENT", "development"),
		LogLevel:    envString("LOG_LEVEL", "info"),
		OTelEnabled: os.Getenv("OTEL_ENABLED") == "true",
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:         os.Getenv("KAFKA_BROKERS"),
			LookupTopic:     envString("KAFKA_LOOKUP_TOPIC", "peppol.participant.lookups"),
			Acks:            envString("KAFKA_ACKS", "all"),
			Retries:         envInt("KAFKA_RETRIES", 3),
			DeliveryTimeout: envDuration("KAFKA_DELIVERY_TIMEOUT", 30*time.Second),
		},
		Directory: DirectoryConfig{
			Snapshot:     os.Getenv("DIRECTORY_SNAPSHOT"),
			Format:       strings.ToLower(envString("DIRECTORY_FORMAT", "csv")),
			IndexTTL:     envDuration("DIRECTORY_INDEX_TTL", 5*time.Minute),
			FetchTimeout: envDuration("DIRECTORY_FETCH_TIMEOUT", 60*time.Second),
		},
		Lookup: LookupConfig{
			StoreQueryTimeout: envDuration("STORE_QUERY_TIMEOUT", 5*time.Second),
			CacheTTL:          envDuration("LOOKUP_CACHE_TTL", time.Minute),
			CountryCodes:      envList("NORMALIZER_COUNTRY_CODES", DefaultCountryCodes),
		},
	}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Malformed values fall back to the default rather than failing startup.
func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	out := pstrings.DedupeAndTrimUpper(strings.Split(raw, ","))
	if len(out) == 0 {
		return fallback
	}
	return out
}
