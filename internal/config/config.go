package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
)

// Queue backends.
const (
	QueueRedis = "redis"
	QueueSQS   = "sqs"
)

// DefaultValidationFields is the superset of fields sent to the validation backend.
var DefaultValidationFields = []string{"plot_number", "buyer_id", "seller_id"}

type Config struct {
	Addr     string // e.g. ":3000"
	RunLocal bool

	BackendHost          string
	BackendPort          int `validate:"min=1,max=65535"`
	BackendValidationURL string `validate:"omitempty,url"`
	ValidationTimeout    time.Duration `validate:"gt=0"`
	ValidationFields     []string      `validate:"min=1,dive,oneof=plot_number plot_num size county location buyer_name buyer_id buyer_tel seller_name seller_id seller_tel value transaction_cost"`

	RedisAddr     string `validate:"required"`
	RedisUser     string
	RedisPassword string
	RedisDB       int    `validate:"min=0"`
	QueueKey      string `validate:"required"`
	CacheKey      string `validate:"required"`

	QueueBackend string `validate:"oneof=redis sqs"`
	SQSQueueURL  string `validate:"required_if=QueueBackend sqs"`

	ReceiptsTable    string
	IdempotencyTable string
	IdempotencyTTL   time.Duration `validate:"gt=0"`
	MetricsNamespace string

	AlertLogPath   string `validate:"required"`
	ServiceLogPath string
	LogLevel       string `validate:"oneof=debug info warn error"`
	LogsTail       int    `validate:"min=1"`
}

// FromEnv reads the configuration from environment variables, applying
// defaults for unset ones. Malformed numbers and durations are reported in
// the returned error; the config still carries the defaults for them.
func FromEnv() (Config, error) {
	var errs []error
	getint := func(key string, def int) int {
		n, err := parseInt(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return n
	}
	getduration := func(key string, def time.Duration) time.Duration {
		d, err := parseDuration(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return d
	}

	cfg := Config{
		Addr:                 getenv("FRONTEND_ADDR", ":3000"),
		RunLocal:             os.Getenv("RUN_LOCAL") == "true",
		BackendHost:          getenv("BACKEND_HOST", "localhost"),
		BackendPort:          getint("BACKEND_PORT", 5000),
		BackendValidationURL: os.Getenv("BACKEND_VALIDATION_URL"),
		ValidationTimeout:    getduration("VALIDATION_TIMEOUT", 5*time.Second),
		ValidationFields:     DefaultValidationFields,
		RedisAddr:            redisAddr(getenv("REDIS_DB_HOST", "localhost")),
		RedisUser:            os.Getenv("REDIS_DB_USER"),
		RedisPassword:        os.Getenv("REDIS_DB_PASSWORD"),
		RedisDB:              getint("REDIS_DB_INDEX", 0),
		QueueKey:             getenv("RECORDS_QUEUE_KEY", "records_queue"),
		CacheKey:             getenv("RECORDS_CACHE_KEY", "records_cache"),
		QueueBackend:         strings.ToLower(getenv("QUEUE_BACKEND", QueueRedis)),
		SQSQueueURL:          os.Getenv("RECORDS_QUEUE_URL"),
		ReceiptsTable:        os.Getenv("RECEIPTS_TABLE"),
		IdempotencyTable:     os.Getenv("IDEMPOTENCY_TABLE"),
		IdempotencyTTL:       getduration("IDEMPOTENCY_TTL", 48*time.Hour),
		MetricsNamespace:     os.Getenv("METRICS_NAMESPACE"),
		AlertLogPath:         getenv("ALERT_LOG_FILE", "./frontend_logs"),
		ServiceLogPath:       os.Getenv("FRONTEND_LOGFILE"),
		LogLevel:             strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogsTail:             getint("LOGS_TAIL", 200),
	}
	if s := os.Getenv("VALIDATION_FIELDS"); s != "" {
		var fields []string
		for _, f := range strings.Split(s, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
		cfg.ValidationFields = fields
	}
	if len(errs) > 0 {
		return cfg, fmt.Errorf("invalid environment: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// Validate checks the configuration for values that would fail at runtime.
func (c Config) Validate() error {
	if err := validatorv10.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ValidationURL is the backend endpoint that accepts or rejects a transaction.
func (c Config) ValidationURL() string {
	if c.BackendValidationURL != "" {
		return c.BackendValidationURL
	}
	return fmt.Sprintf("http://%s/backend/v1/block", net.JoinHostPort(c.BackendHost, strconv.Itoa(c.BackendPort)))
}

// UsesAWS reports whether any AWS-backed feature is enabled.
func (c Config) UsesAWS() bool {
	return c.QueueBackend == QueueSQS || c.ReceiptsTable != "" || c.IdempotencyTable != "" || c.MetricsNamespace != ""
}

// redisAddr appends the default Redis port when REDIS_DB_HOST names only a host.
func redisAddr(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, "6379")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s=%q: not an integer", key, v)
	}
	return n, nil
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s=%q: not a duration (e.g. 5s, 48h)", key, v)
	}
	return d, nil
}
