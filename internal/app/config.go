package app

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/yungbote/memoquiz-backend/internal/data/db"
)

const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	Port    string
	LogMode string

	DataDir     string
	MemoriesDir string

	QuizStore    string
	QuizPoolPath string

	DBDriver    string
	SQLitePath  string
	PostgresDSN string

	RedisAddr    string
	RedisLockKey string
	RedisLockTTL time.Duration

	DefaultSessionSize int
	MaxSessionSize     int
	ExplorationRate    float64
	RefillAttempts     int
	GenerationTimeout  time.Duration
	Distractors        int
	PoolDiagnostics    bool
	RandomSeed         uint64

	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	OpenAIMaxRetries int

	AllowedOrigins []string

	MetricsEnabled  bool
	OtelEnabled     bool
	OtelServiceName string
	OtelEndpoint    string
	OtelInsecure    bool
	OtelSampleRatio float64
	Environment     string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_mode", "development")
	v.SetDefault("data_dir", "data")
	v.SetDefault("memories_dir", "data/memories")
	v.SetDefault("quiz_store", StoreFile)
	v.SetDefault("quiz_pool_path", "data/quizs.json")
	v.SetDefault("db_driver", db.DriverSQLite)
	v.SetDefault("sqlite_path", "data/memoquiz.db")
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_lock_key", "memoquiz:quiz-pool:lock")
	v.SetDefault("redis_lock_ttl_seconds", 30)
	v.SetDefault("quiz_default_session_size", 5)
	v.SetDefault("quiz_max_session_size", 50)
	v.SetDefault("quiz_exploration_rate", 0.2)
	v.SetDefault("quiz_refill_attempts", 0)
	v.SetDefault("quiz_generation_timeout_seconds", 60)
	v.SetDefault("quiz_distractors", 3)
	v.SetDefault("quiz_pool_diagnostics", true)
	v.SetDefault("quiz_random_seed", 0)
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_base_url", "https://api.openai.com")
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("openai_max_retries", 0)
	v.SetDefault("cors_allowed_origins", "")
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("otel_enabled", false)
	v.SetDefault("otel_service_name", "memoquiz")
	v.SetDefault("otel_exporter_otlp_endpoint", "")
	v.SetDefault("otel_exporter_otlp_insecure", false)
	v.SetDefault("otel_sample_ratio", 1.0)
	v.SetDefault("environment", "development")
}

// LoadConfig reads memoquiz.yaml from the working directory or
// $MEMOQUIZ_CONFIG_DIR, then lets environment variables override each key.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetConfigName("memoquiz")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir := strings.TrimSpace(os.Getenv("MEMOQUIZ_CONFIG_DIR")); dir != "" {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return configFrom(v)
}

func configFrom(v *viper.Viper) (Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		Port:               v.GetString("port"),
		LogMode:            v.GetString("log_mode"),
		DataDir:            v.GetString("data_dir"),
		MemoriesDir:        v.GetString("memories_dir"),
		QuizStore:          strings.ToLower(strings.TrimSpace(v.GetString("quiz_store"))),
		QuizPoolPath:       v.GetString("quiz_pool_path"),
		DBDriver:           strings.ToLower(strings.TrimSpace(v.GetString("db_driver"))),
		SQLitePath:         v.GetString("sqlite_path"),
		PostgresDSN:        v.GetString("postgres_dsn"),
		RedisAddr:          strings.TrimSpace(v.GetString("redis_addr")),
		RedisLockKey:       v.GetString("redis_lock_key"),
		RedisLockTTL:       time.Duration(v.GetInt("redis_lock_ttl_seconds")) * time.Second,
		DefaultSessionSize: v.GetInt("quiz_default_session_size"),
		MaxSessionSize:     v.GetInt("quiz_max_session_size"),
		ExplorationRate:    v.GetFloat64("quiz_exploration_rate"),
		RefillAttempts:     v.GetInt("quiz_refill_attempts"),
		GenerationTimeout:  time.Duration(v.GetInt("quiz_generation_timeout_seconds")) * time.Second,
		Distractors:        v.GetInt("quiz_distractors"),
		PoolDiagnostics:    v.GetBool("quiz_pool_diagnostics"),
		RandomSeed:         v.GetUint64("quiz_random_seed"),
		OpenAIAPIKey:       v.GetString("openai_api_key"),
		OpenAIBaseURL:      v.GetString("openai_base_url"),
		OpenAIModel:        v.GetString("openai_model"),
		OpenAIMaxRetries:   v.GetInt("openai_max_retries"),
		AllowedOrigins:     splitList(v.GetString("cors_allowed_origins")),
		MetricsEnabled:     v.GetBool("metrics_enabled"),
		OtelEnabled:        v.GetBool("otel_enabled"),
		OtelServiceName:    v.GetString("otel_service_name"),
		OtelEndpoint:       v.GetString("otel_exporter_otlp_endpoint"),
		OtelInsecure:       v.GetBool("otel_exporter_otlp_insecure"),
		OtelSampleRatio:    v.GetFloat64("otel_sample_ratio"),
		Environment:        v.GetString("environment"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) Validate() error {
	if math.IsNaN(c.ExplorationRate) || c.ExplorationRate < 0 || c.ExplorationRate > 1 {
		return fmt.Errorf("config: QUIZ_EXPLORATION_RATE must be within [0, 1], got %v", c.ExplorationRate)
	}
	if c.MaxSessionSize <= 0 {
		return fmt.Errorf("config: QUIZ_MAX_SESSION_SIZE must be positive")
	}
	if c.DefaultSessionSize <= 0 || c.DefaultSessionSize > c.MaxSessionSize {
		return fmt.Errorf("config: QUIZ_DEFAULT_SESSION_SIZE must be within [1, %d]", c.MaxSessionSize)
	}
	if c.RefillAttempts < 0 {
		return fmt.Errorf("config: QUIZ_REFILL_ATTEMPTS must be >= 0")
	}
	if c.GenerationTimeout <= 0 {
		return fmt.Errorf("config: QUIZ_GENERATION_TIMEOUT_SECONDS must be positive")
	}
	if c.Distractors <= 0 {
		return fmt.Errorf("config: QUIZ_DISTRACTORS must be positive")
	}
	switch c.QuizStore {
	case StoreFile, StoreSQLite, StorePostgres:
	default:
		return fmt.Errorf("config: unknown QUIZ_STORE %q", c.QuizStore)
	}
	switch c.DBDriver {
	case db.DriverSQLite, db.DriverPostgres:
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q", c.DBDriver)
	}
	if (c.DBDriver == db.DriverPostgres || c.QuizStore == StorePostgres) && strings.TrimSpace(c.PostgresDSN) == "" {
		return fmt.Errorf("config: POSTGRES_DSN is required for the postgres driver")
	}
	return nil
}

// DBDriverFor resolves which SQL driver backs history and, when selected, the
// quiz pool.
func (c Config) DBDriverFor() string {
	if c.QuizStore == StorePostgres {
		return db.DriverPostgres
	}
	if c.QuizStore == StoreSQLite {
		return db.DriverSQLite
	}
	return c.DBDriver
}
