// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Supported store drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// DevSessionSecret signs sessions when SESSION_SECRET is unset.
const DevSessionSecret = "devsessionsecret"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Auth     AuthConfig
	Logger   LoggerConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds store connection settings for every supported driver.
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the database file used by the sqlite driver.
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // seconds
	BusyTimeoutMS   int // sqlite only
	Debug           bool
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env        string
	Dev        bool
	Migrations bool
}

// AuthConfig holds session signing and bootstrap admin settings.
type AuthConfig struct {
	SessionSecret string
	SessionTTL    time.Duration
	AdminUsername string
	AdminPhone    string
	AdminPassword string
}

// LoggerConfig holds zap settings.
type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

// DSN returns the driver-specific connection string used to open the store.
func (d DatabaseConfig) DSN() string {
	switch d.Driver {
	case DriverMySQL:
		return d.mysqlConfig().FormatDSN()
	case DriverSQLite:
		return SQLiteDSN(d.Path, d.BusyTimeoutMS)
	default:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
		)
	}
}

// URL returns the connection string in the URL form expected by golang-migrate.
func (d DatabaseConfig) URL() string {
	switch d.Driver {
	case DriverMySQL:
		c := d.mysqlConfig()
		c.MultiStatements = true
		return "mysql://" + c.FormatDSN()
	case DriverSQLite:
		return "sqlite3://" + d.Path
	default:
		u := &url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
			Path:     "/" + d.DBName,
			RawQuery: "sslmode=" + d.SSLMode,
		}
		return u.String()
	}
}

func (d DatabaseConfig) mysqlConfig() *mysql.Config {
	c := mysql.NewConfig()
	c.User = d.User
	c.Passwd = d.Password
	c.Net = "tcp"
	c.Addr = fmt.Sprintf("%s:%d", d.Host, d.Port)
	c.DBName = d.DBName
	c.ParseTime = true
	c.Loc = time.UTC
	return c
}

// SQLiteDSN builds a file DSN whose transactions start with BEGIN IMMEDIATE, so
// concurrent writers queue on the busy timeout instead of failing mid-transaction.
func SQLiteDSN(path string, busyTimeoutMS int) string {
	if busyTimeoutMS <= 0 {
		busyTimeoutMS = 5000
	}
	return fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=%d&_foreign_keys=1", path, busyTimeoutMS)
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	env := getEnv("APP_ENV", "development")
	driver := strings.ToLower(getEnv("DB_DRIVER", DriverPostgres))
	defaultPort := 5432
	if driver == DriverMySQL {
		defaultPort = 3306
	}
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:          driver,
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", defaultPort),
			User:            getEnv("DB_USER", "tvstock"),
			Password:        getEnv("DB_PASSWORD", "tvstock"),
			DBName:          getEnv("DB_NAME", "tvstock"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			Path:            getEnv("DB_PATH", "tvstock.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("DB_CONN_MAX_LIFETIME", 300),
			BusyTimeoutMS:   getEnvInt("DB_BUSY_TIMEOUT_MS", 5000),
			Debug:           getEnvBool("DB_DEBUG", false),
		},
		App: AppConfig{
			Env:        env,
			Dev:        getEnvBool("DEV", env == "development"),
			Migrations: getEnvBool("MIGRATIONS", false),
		},
		Auth: AuthConfig{
			SessionSecret: getEnv("SESSION_SECRET", DevSessionSecret),
			SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_HOURS", 12)) * time.Hour,
			AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
			AdminPhone:    getEnv("ADMIN_PHONE", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOG_LEVEL", "info"),
			Encoding:          getEnv("LOG_ENCODING", "json"),
			DisableCaller:     getEnvBool("LOG_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOG_DISABLE_STACKTRACE", true),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
