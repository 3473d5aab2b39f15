package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Limits   LimitsConfig   `mapstructure:"limits"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	Overlay  OverlayConfig  `mapstructure:"overlay"`
	Notify   NotifyConfig   `mapstructure:"notify"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type OpenAIConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	MaxTokens      int    `mapstructure:"max_tokens"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// LimitsConfig selects the counter store and the quota values. Store is one
// of "redis", "postgres" or "none"; "none" disables limiting.
type LimitsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Store   string `mapstructure:"store"`
	Daily   int64  `mapstructure:"daily"`
	Monthly int64  `mapstructure:"monthly"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type OverlayConfig struct {
	Path string `mapstructure:"path"`
}

type NotifyConfig struct {
	Email          string `mapstructure:"email"`
	ResendAPIKey   string `mapstructure:"resend_api_key"`
	TelegramToken  string `mapstructure:"telegram_token"`
	TelegramChatID int64  `mapstructure:"telegram_chat_id"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	// Remove leading slash from path to get database name
	dbName := strings.TrimPrefix(u.Path, "/")

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   dbName,
		SSLMode:  "disable",
	}, nil
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", "8080")
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.max_tokens", 2000)
	v.SetDefault("openai.timeout_seconds", 120)
	v.SetDefault("limits.enabled", true)
	v.SetDefault("limits.store", "redis")
	v.SetDefault("limits.daily", 500)
	v.SetDefault("limits.monthly", 5000)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("overlay.path", "./data/overlay")

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file; environment variables alone are enough when the
	// file is absent.
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %v", err)
		}
		config.Database = dbConfig
	}

	// Get other environment variables
	if port := v.GetString("PORT"); port != "" {
		config.Server.Port = port
	}
	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}
	if baseURL := v.GetString("OPENAI_BASE_URL"); baseURL != "" {
		config.OpenAI.BaseURL = baseURL
	}
	if addr := v.GetString("REDIS_ADDR"); addr != "" {
		config.Redis.Addr = addr
	}
	if password := v.GetString("REDIS_PASSWORD"); password != "" {
		config.Redis.Password = password
	}
	if email := v.GetString("NOTIFICATION_EMAIL"); email != "" {
		config.Notify.Email = email
	}
	if key := v.GetString("RESEND_API_KEY"); key != "" {
		config.Notify.ResendAPIKey = key
	}
	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Notify.TelegramToken = token
	}
	if chatID := v.GetString("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TELEGRAM_CHAT_ID: %v", err)
		}
		config.Notify.TelegramChatID = id
	}

	return &config, nil
}
