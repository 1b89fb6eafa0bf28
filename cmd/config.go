package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strings"
	"time"

	"bookstore/internal/adapters/in/http/session"
	"bookstore/internal/pkg/errs"
	"bookstore/internal/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LocalSettingsFile is the optional, machine specific settings file looked up
// in the settings directory. Environment variables take precedence over it.
const LocalSettingsFile = "app.local.settings"

type Config struct {
	HTTPPort    string
	Environment string
	LogLevel    string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBMigrate  bool

	SessionSecret     string
	SessionCookieName string
	SessionTTL        time.Duration

	RestBaseRoute      string
	APIVersion         string
	StatisticsSchedule string
	AllowAnonymous     bool
	TraceSampleRatio   float64
}

// LoadConfig reads the configuration. Variables from envFile are exported
// first without overriding the process environment, then every key is
// resolved from the environment, the local settings file in settingsDir, or
// its default, in that order. Missing envFile and settings file are ignored.
func LoadConfig(envFile, settingsDir string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("ENVIRONMENT", logger.EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "bookstore")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_COOKIE_NAME", "bookstore_session")
	v.SetDefault("SESSION_TTL", "336h")
	v.SetDefault("REST_BASE_ROUTE", "rest")
	v.SetDefault("API_VERSION", "v1")
	v.SetDefault("STATISTICS_SCHEDULE", "0 * * * * *")
	v.SetDefault("ALLOW_ANONYMOUS", false)
	v.SetDefault("TRACE_SAMPLE_RATIO", 1.0)
	v.AutomaticEnv()

	if settingsDir != "" {
		v.SetConfigName(LocalSettingsFile)
		v.SetConfigType("yaml")
		v.AddConfigPath(settingsDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read local settings: %w", err)
			}
		}
	}

	cfg := Config{
		HTTPPort:           v.GetString("HTTP_PORT"),
		Environment:        v.GetString("ENVIRONMENT"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetString("DB_PORT"),
		DBUser:             v.GetString("DB_USER"),
		DBPassword:         v.GetString("DB_PASSWORD"),
		DBName:             v.GetString("DB_NAME"),
		DBSslMode:          v.GetString("DB_SSLMODE"),
		DBMigrate:          v.GetBool("DB_MIGRATE"),
		SessionSecret:      v.GetString("SESSION_SECRET"),
		SessionCookieName:  v.GetString("SESSION_COOKIE_NAME"),
		SessionTTL:         v.GetDuration("SESSION_TTL"),
		RestBaseRoute:      strings.Trim(v.GetString("REST_BASE_ROUTE"), "/"),
		APIVersion:         v.GetString("API_VERSION"),
		StatisticsSchedule: v.GetString("STATISTICS_SCHEDULE"),
		AllowAnonymous:     v.GetBool("ALLOW_ANONYMOUS"),
		TraceSampleRatio:   v.GetFloat64("TRACE_SAMPLE_RATIO"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errList []error
	required := []struct {
		name  string
		value string
	}{
		{"HTTP_PORT", c.HTTPPort},
		{"ENVIRONMENT", c.Environment},
		{"DB_HOST", c.DBHost},
		{"DB_PORT", c.DBPort},
		{"DB_USER", c.DBUser},
		{"DB_NAME", c.DBName},
		{"SESSION_COOKIE_NAME", c.SessionCookieName},
		{"REST_BASE_ROUTE", c.RestBaseRoute},
		{"API_VERSION", c.APIVersion},
		{"STATISTICS_SCHEDULE", c.StatisticsSchedule},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errList = append(errList, errs.NewValueIsRequiredError(r.name))
		}
	}

	if len(c.SessionSecret) < session.MinSecretLength {
		errList = append(errList, errs.NewValueIsOutOfRangeError("SESSION_SECRET length", len(c.SessionSecret), session.MinSecretLength, "unbounded"))
	}
	if c.SessionTTL <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("SESSION_TTL", c.SessionTTL.String(), "1ns", "unbounded"))
	}
	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("TRACE_SAMPLE_RATIO", c.TraceSampleRatio, 0, 1))
	}

	return errors.Join(errList...)
}

func (c Config) IsDevelopment() bool {
	return c.Environment == logger.EnvDevelopment
}

// DatabaseURL returns the postgres connection URL used by gorm and by the
// migrations.
func (c Config) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   net.JoinHostPort(c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	if c.DBSslMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.DBSslMode}}.Encode()
	}
	return u.String()
}
