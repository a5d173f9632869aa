package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database      DatabaseConfig
	Redis         RedisConfig
	DeviceAuth    DeviceAuthConfig
	CORS          CORSConfig
	Log           LogConfig
	Attendance    AttendanceConfig
	Sweep         SweepConfig
	Notifications NotificationsConfig
	Rules         RulesConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// DeviceAuthConfig holds the shared secret scan devices sign their tokens with.
type DeviceAuthConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AttendanceConfig carries the system-wide default time windows used when a
// group has no rules at all.
type AttendanceConfig struct {
	DefaultCheckInStart  string
	DefaultCheckInEnd    string
	DefaultCheckOutStart string
	DefaultCheckOutEnd   string
}

// SweepConfig gates the daily absent-marking job.
type SweepConfig struct {
	TargetTime   string
	Tolerance    time.Duration
	TickInterval time.Duration
	Workers      int
}

// NotificationsConfig configures the scan event publisher.
type NotificationsConfig struct {
	Enabled bool
	Channel string
}

// RulesConfig tunes rule resolution caching.
type RulesConfig struct {
	CacheTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.DeviceAuth = DeviceAuthConfig{
		Secret: v.GetString("DEVICE_TOKEN_SECRET"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Attendance = AttendanceConfig{
		DefaultCheckInStart:  v.GetString("ATTENDANCE_DEFAULT_CHECKIN_START"),
		DefaultCheckInEnd:    v.GetString("ATTENDANCE_DEFAULT_CHECKIN_END"),
		DefaultCheckOutStart: v.GetString("ATTENDANCE_DEFAULT_CHECKOUT_START"),
		DefaultCheckOutEnd:   v.GetString("ATTENDANCE_DEFAULT_CHECKOUT_END"),
	}

	cfg.Sweep = SweepConfig{
		TargetTime:   v.GetString("ABSENT_SWEEP_TIME"),
		Tolerance:    parseDuration(v.GetString("ABSENT_SWEEP_TOLERANCE"), time.Minute),
		TickInterval: parseDuration(v.GetString("ABSENT_SWEEP_TICK_INTERVAL"), time.Minute),
		Workers:      v.GetInt("ABSENT_SWEEP_WORKERS"),
	}

	cfg.Notifications = NotificationsConfig{
		Enabled: v.GetBool("ENABLE_SCAN_NOTIFICATIONS"),
		Channel: v.GetString("SCAN_NOTIFICATION_CHANNEL"),
	}

	cfg.Rules = RulesConfig{
		CacheTTL: parseDuration(v.GetString("RULE_CACHE_TTL"), 5*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "presensi")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("DEVICE_TOKEN_SECRET", "dev_device_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ATTENDANCE_DEFAULT_CHECKIN_START", "06:30")
	v.SetDefault("ATTENDANCE_DEFAULT_CHECKIN_END", "07:15")
	v.SetDefault("ATTENDANCE_DEFAULT_CHECKOUT_START", "14:00")
	v.SetDefault("ATTENDANCE_DEFAULT_CHECKOUT_END", "17:00")

	v.SetDefault("ABSENT_SWEEP_TIME", "09:00")
	v.SetDefault("ABSENT_SWEEP_TOLERANCE", "1m")
	v.SetDefault("ABSENT_SWEEP_TICK_INTERVAL", "1m")
	v.SetDefault("ABSENT_SWEEP_WORKERS", 1)

	v.SetDefault("ENABLE_SCAN_NOTIFICATIONS", false)
	v.SetDefault("SCAN_NOTIFICATION_CHANNEL", "attendance:scans")

	v.SetDefault("RULE_CACHE_TTL", "5m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
