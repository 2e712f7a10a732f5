package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const ServiceName = "retailpos"

// Config holds application configuration values.
type Config struct {
	Secret           string
	HTTPPort         string
	HTTPWriteTimeout time.Duration
	DatabaseDriver   string
	DatabaseDSN      string
	CatalogCSV       string
	LogLevel         string
	AllowOversell    bool
	KafkaBrokers     []string
	OtelEndpoint     string
	OtelAuthHeader   string
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	secret := os.Getenv("SECRET")
	if secret == "" {
		secret = "dev_secret"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	writeTimeout := 15 * time.Second
	if raw := os.Getenv("HTTP_WRITE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("invalid HTTP_WRITE_TIMEOUT value %q, defaulting to %s", raw, writeTimeout)
		} else {
			writeTimeout = d
		}
	}

	driver := strings.ToLower(os.Getenv("DATABASE_DRIVER"))
	if driver == "" {
		driver = "sqlite"
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		if driver == "postgres" {
			dsn = postgresDSN()
		} else {
			dsn = "retailpos.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(0)"
		}
	}

	catalog := os.Getenv("CATALOG_CSV")
	if catalog == "" {
		catalog = "assets/catalog.csv"
	}

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	oversell, _ := strconv.ParseBool(os.Getenv("LEDGER_ALLOW_OVERSELL"))

	var brokers []string
	for _, b := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	return Config{
		Secret:           secret,
		HTTPPort:         port,
		HTTPWriteTimeout: writeTimeout,
		DatabaseDriver:   driver,
		DatabaseDSN:      dsn,
		CatalogCSV:       catalog,
		LogLevel:         level,
		AllowOversell:    oversell,
		KafkaBrokers:     brokers,
		OtelEndpoint:     os.Getenv("OTEL_ENDPOINT"),
		OtelAuthHeader:   os.Getenv("OTEL_AUTH_HEADER"),
	}
}

func postgresDSN() string {
	host := os.Getenv("HOST")
	if host == "" {
		host = "localhost"
	}
	user := os.Getenv("USER")
	if user == "" {
		user = "postgres"
	}
	dbPort := os.Getenv("PORT")
	if dbPort == "" {
		dbPort = "5432"
	}
	name := os.Getenv("NAME")
	if name == "" {
		name = "retailpos"
	}
	password := os.Getenv("PASSWORD")

	return "postgres://" + user + ":" + password + "@" + host + ":" + dbPort + "/" + name + "?sslmode=disable"
}
