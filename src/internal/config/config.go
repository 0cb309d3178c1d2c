package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=bank_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultHTTPAddr = ":8080"
const defaultHomeCardPrefixes = "2"

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	HTTPAddr        string        `validate:"required"`
	StoreDriver     string        `validate:"oneof=postgres memory"`
	DatabaseDSN     string        `validate:"required_if=StoreDriver postgres"`
	DBMaxOpenConns  int           `validate:"gte=1"`
	DBMaxIdleConns  int           `validate:"gte=0,ltefield=DBMaxOpenConns"`
	DBConnMaxIdle   time.Duration `validate:"gte=0"`
	DBConnMaxLife   time.Duration `validate:"gte=0"`
	ChannelID       string
	ChannelKey      string   `validate:"required_with=ChannelID"`
	HomePrefixes    []string `validate:"min=1,dive,numeric,max=6"`
	RecordRejected  bool
	CORSOrigins     []string      `validate:"min=1"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
	LogLevel        string        `validate:"oneof=debug info warn error"`
}

func Load() (Config, error) {
	conn := envOr("DATABASE_DSN", defaultConnectionString)

	maxOpen, err := envInt("DB_MAX_OPEN_CONNS", 30)
	if err != nil {
		return Config{}, err
	}
	maxIdle, err := envInt("DB_MAX_IDLE_CONNS", 20)
	if err != nil {
		return Config{}, err
	}
	maxIdleTime, err := envDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	maxLifetime, err := envDuration("DB_CONN_MAX_LIFETIME", 15*time.Minute)
	if err != nil {
		return Config{}, err
	}
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	recordRejected, err := envBool("RECORD_REJECTED_TRANSFERS", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPAddr:        envOr("HTTP_ADDR", defaultHTTPAddr),
		StoreDriver:     strings.ToLower(envOr("STORE_DRIVER", StoreDriverPostgres)),
		DatabaseDSN:     normalizeConnectionString(conn),
		DBMaxOpenConns:  maxOpen,
		DBMaxIdleConns:  maxIdle,
		DBConnMaxIdle:   maxIdleTime,
		DBConnMaxLife:   maxLifetime,
		ChannelID:       strings.TrimSpace(os.Getenv("CHANNEL_ID")),
		ChannelKey:      strings.TrimSpace(os.Getenv("CHANNEL_KEY")),
		HomePrefixes:    splitList(envOr("HOME_CARD_PREFIXES", defaultHomeCardPrefixes)),
		RecordRejected:  recordRejected,
		CORSOrigins:     splitList(envOr("CORS_ALLOWED_ORIGINS", "*")),
		ShutdownTimeout: shutdownTimeout,
		LogLevel:        strings.ToLower(envOr("LOG_LEVEL", "info")),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeConnectionString turns an ADO-style "Host=…;Port=…" string into a
// lib/pq keyword/value DSN. URLs and already-normalized DSNs pass through.
func normalizeConnectionString(raw string) string {
	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
