package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Events   EventsConfig
}

type ServerConfig struct {
	Port string
	Host string
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	PoolSize int
	CacheTTL time.Duration
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

type DatabaseConfig struct {
	// Driver is one of mysql, postgres, sqlite or memory.
	Driver       string
	MaxOpenConns int
	MaxIdleConns int
	// SeedData loads the reference clients into an empty store on startup.
	SeedData bool
	MySQL    MySQLConfig
	Postgres PostgresConfig
	// SQLitePath is a file name or a mattn/go-sqlite3 DSN.
	SQLitePath string
}

type MySQLConfig struct {
	Host     string
	User     string
	Password string
	Database string
}

// DSN reports found rows on UPDATE so an unchanged row still counts as
// existing.
func (m MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&clientFoundRows=true",
		m.User,
		m.Password,
		m.Host,
		m.Database,
	)
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		p.Host,
		p.Port,
		p.User,
		p.Password,
		p.Database,
		p.SSLMode,
	)
}

type EventsConfig struct {
	Enabled       bool
	ConsumerGroup string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			PoolSize: getEnvAsInt("REDIS_POOL_SIZE", 100),
			CacheTTL: getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", DriverMySQL),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			SeedData:     getEnvAsBool("SEED_DATA", false),
			MySQL: MySQLConfig{
				Host:     getEnv("MYSQL_HOST", "localhost:3306"),
				User:     getEnv("MYSQL_USER", "client"),
				Password: getEnv("MYSQL_PASSWORD", "client123"),
				Database: getEnv("MYSQL_DATABASE", "clients"),
			},
			Postgres: PostgresConfig{
				Host:     getEnv("POSTGRES_HOST", "localhost"),
				Port:     getEnv("POSTGRES_PORT", "5432"),
				User:     getEnv("POSTGRES_USER", "client"),
				Password: getEnv("POSTGRES_PASSWORD", "client123"),
				Database: getEnv("POSTGRES_DATABASE", "clients"),
				SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			},
			SQLitePath: getEnv("SQLITE_PATH", "clients.db?_foreign_keys=on"),
		},
		Events: EventsConfig{
			Enabled:       getEnvAsBool("EVENTS_ENABLED", true),
			ConsumerGroup: getEnv("EVENTS_CONSUMER_GROUP", "client-auditors"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
