package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	Logger   LoggerConfig
	Server   ServerConfig
	Bank     BankConfig
	Quiz     QuizConfig
	Session  SessionConfig
	Redis    RedisConfig
	Database DatabaseConfig
}

type LoggerConfig struct {
	Env   string `mapstructure:"env"`
	Level string `mapstructure:"level"`
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// BankSourceConfig is one candidate location for the question bank.
// Sources are tried in the order they are listed.
type BankSourceConfig struct {
	Location string `mapstructure:"location"`
	Format   string `mapstructure:"format"`
	Encoding string `mapstructure:"encoding"`
}

type BankConfig struct {
	Sources      []BankSourceConfig
	FetchTimeout time.Duration
	FetchRetries int
}

type QuizConfig struct {
	DefaultCount int
}

type SessionConfig struct {
	Store          string
	TTL            time.Duration
	MemoryCapacity int
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DatabaseConfig points at the sqlite file holding the mistake journal.
// An empty Path disables the journal.
type DatabaseConfig struct {
	Path string
}

func (d DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(d.Path) != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.level", "info")

	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)

	v.SetDefault("bank.location", "")
	v.SetDefault("bank.format", "auto")
	v.SetDefault("bank.encoding", "iso-8859-1")
	v.SetDefault("bank.fetch_timeout", 10)
	v.SetDefault("bank.fetch_retries", 0)

	v.SetDefault("quiz.default_count", 60)

	v.SetDefault("session.store", SessionStoreMemory)
	v.SetDefault("session.ttl", 24*60)
	v.SetDefault("session.memory_capacity", 1024)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("database.path", "")
}

// LoadConfig reads config.yaml (optional), a .env file (optional) and the
// environment. Environment keys are the config keys upper-cased with '.'
// replaced by '_', e.g. SERVER_PORT or BANK_LOCATION.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../configs")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("./configs")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", absPath)
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Logger: LoggerConfig{
			Env:   v.GetString("logger.env"),
			Level: v.GetString("logger.level"),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
		},
		Bank: BankConfig{
			FetchTimeout: time.Duration(v.GetInt("bank.fetch_timeout")) * time.Second,
			FetchRetries: v.GetInt("bank.fetch_retries"),
		},
		Quiz: QuizConfig{
			DefaultCount: v.GetInt("quiz.default_count"),
		},
		Session: SessionConfig{
			Store:          strings.ToLower(v.GetString("session.store")),
			TTL:            time.Duration(v.GetInt("session.ttl")) * time.Minute,
			MemoryCapacity: v.GetInt("session.memory_capacity"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("database.path"),
		},
	}

	if err := v.UnmarshalKey("bank.sources", &cfg.Bank.Sources); err != nil {
		return nil, fmt.Errorf("failed to read bank.sources: %w", err)
	}
	// BANK_LOCATION (or bank.location) is a single source placed ahead of the list.
	if location := strings.TrimSpace(v.GetString("bank.location")); location != "" {
		primary := BankSourceConfig{
			Location: location,
			Format:   v.GetString("bank.format"),
			Encoding: v.GetString("bank.encoding"),
		}
		cfg.Bank.Sources = append([]BankSourceConfig{primary}, cfg.Bank.Sources...)
	}
	for i := range cfg.Bank.Sources {
		if cfg.Bank.Sources[i].Format == "" {
			cfg.Bank.Sources[i].Format = "auto"
		}
		if cfg.Bank.Sources[i].Encoding == "" {
			cfg.Bank.Sources[i].Encoding = v.GetString("bank.encoding")
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Store {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("unsupported session.store %q (want %q or %q)", c.Session.Store, SessionStoreMemory, SessionStoreRedis)
	}
	if c.Quiz.DefaultCount < 1 {
		return fmt.Errorf("quiz.default_count must be at least 1, got %d", c.Quiz.DefaultCount)
	}
	if c.Session.MemoryCapacity < 1 {
		return fmt.Errorf("session.memory_capacity must be at least 1, got %d", c.Session.MemoryCapacity)
	}
	return nil
}
