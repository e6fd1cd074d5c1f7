package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Seed     SeedConfig
	Leave    LeaveConfig
	RBAC     RBACConfig
}

type AppConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

type DatabaseConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	MaxRetries int
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Broker        string
	ConsumerGroup string
}

type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type SeedConfig struct {
	AdminEmail              string
	AdminPassword           string
	EmployeeDefaultPassword string
}

type LeaveConfig struct {
	// RejectOverlap makes the ledger refuse a request whose period overlaps
	// another pending or approved request of the same requester.
	RejectOverlap bool
}

type RBACConfig struct {
	ModelPath string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Port:         getEnv("PORT", "3000"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", ""),
			Name:       getEnv("DB_NAME", "go_ems"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			MaxRetries: 5,
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", ""),
		},
		Kafka: KafkaConfig{
			Broker:        getEnv("KAFKA_BROKER", ""),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "go-ems-leave-audit"),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", ""),
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Seed: SeedConfig{
			AdminEmail:              getEnv("ADMIN_EMAIL", "admin@test.com"),
			AdminPassword:           getEnv("ADMIN_PASSWORD", ""),
			EmployeeDefaultPassword: getEnv("EMPLOYEE_DEFAULT_PASSWORD", "abc@123"),
		},
		RBAC: RBACConfig{
			ModelPath: getEnv("RBAC_MODEL_PATH", ""),
		},
	}

	rejectOverlap, err := getEnvBool("LEAVE_REJECT_OVERLAP", false)
	if err != nil {
		return nil, err
	}
	cfg.Leave.RejectOverlap = rejectOverlap

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
