package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port             string
	Env              string
	LogLevel         string
	StorageBackend   string
	DBPath           string
	FallbackPath     string
	Location         *time.Location
	ReminderInterval time.Duration
	APIToken         string
	CORSOrigins      string
	RateLimit        int
	Calendar         CalendarConfig
}

// CalendarConfig holds the optional Google Calendar mirror settings
type CalendarConfig struct {
	Enabled      bool
	ClientID     string
	ClientSecret string
	TokenFile    string
	CalendarID   string
}

var AppConfig *Config

// file holds values read from the optional YAML config file
var file *viper.Viper

// Load reads .env and the optional YAML config file, then builds AppConfig.
// Environment variables take precedence over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	file = nil
	path := os.Getenv("ENDIFY_CONFIG")
	if path == "" {
		path = "endify.yaml"
	}
	if err := loadFile(path); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(GetEnv("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	interval, err := time.ParseDuration(GetEnv("REMINDER_INTERVAL", "30s"))
	if err != nil || interval <= 0 {
		return nil, fmt.Errorf("invalid REMINDER_INTERVAL %q", GetEnv("REMINDER_INTERVAL", ""))
	}

	cfg := &Config{
		Port:             GetEnv("PORT", "3000"),
		Env:              GetEnv("ENV", "development"),
		LogLevel:         GetEnv("LOG_LEVEL", "info"),
		StorageBackend:   strings.ToLower(GetEnv("STORAGE_BACKEND", "sqlite")),
		DBPath:           GetEnv("DB_PATH", "./data/endify.db"),
		FallbackPath:     GetEnv("FALLBACK_PATH", "./data/tasks.json"),
		Location:         loc,
		ReminderInterval: interval,
		APIToken:         GetEnv("API_TOKEN", ""),
		CORSOrigins:      GetEnv("CORS_ORIGINS", "*"),
		RateLimit:        getInt("RATE_LIMIT", 200),
		Calendar: CalendarConfig{
			Enabled:      getBool("GOOGLE_CALENDAR_ENABLED", false),
			ClientID:     GetEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: GetEnv("GOOGLE_CLIENT_SECRET", ""),
			TokenFile:    GetEnv("GOOGLE_TOKEN_FILE", "./data/google-token.json"),
			CalendarID:   GetEnv("GOOGLE_CALENDAR_ID", "primary"),
		},
	}

	if cfg.Calendar.Enabled && (cfg.Calendar.ClientID == "" || cfg.Calendar.ClientSecret == "") {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required when GOOGLE_CALENDAR_ENABLED is set")
	}

	AppConfig = cfg
	return cfg, nil
}

func loadFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	file = v
	return nil
}

// GetEnv returns the environment variable, then the config file value, then
// defaultValue
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if file != nil {
		if name := strings.ToLower(key); file.IsSet(name) {
			return file.GetString(name)
		}
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(GetEnv(key, strconv.Itoa(defaultValue)))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(GetEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return b
}
