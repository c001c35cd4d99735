package utils

import (
	"errors"
	"io/fs"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Email    EmailConfig
	Code     CodeConfig
	Redis    RedisConfig
	Jobs     JobsConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// CodeConfig controls confirmation codes issued at signup.
type CodeConfig struct {
	Length                int
	TTLMinutes            int
	ResendCooldownSeconds int
}

type RedisConfig struct {
	URL string
}

type JobsConfig struct {
	CleanupCron string
}

// LoadConfig reads the env file at path (if present) and overlays the process environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "yamdb")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("EMAIL_FROM", "noreply@yamdb.local")
	v.SetDefault("CODE_LENGTH", 6)
	v.SetDefault("CODE_TTL_MINUTES", 1440)
	v.SetDefault("SIGNUP_RESEND_COOLDOWN_SECONDS", 60)
	v.SetDefault("CLEANUP_CRON", "@hourly")

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Email: EmailConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASS"),
			From:     v.GetString("EMAIL_FROM"),
		},
		Code: CodeConfig{
			Length:                v.GetInt("CODE_LENGTH"),
			TTLMinutes:            v.GetInt("CODE_TTL_MINUTES"),
			ResendCooldownSeconds: v.GetInt("SIGNUP_RESEND_COOLDOWN_SECONDS"),
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
		},
		Jobs: JobsConfig{
			CleanupCron: v.GetString("CLEANUP_CRON"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}
