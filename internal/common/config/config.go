package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type DB struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	User     string        `yaml:"user"`
	Pass     string        `yaml:"password"`
	Name     string        `yaml:"database"`
	SSLMode  string        `yaml:"sslmode"`
	MaxConns int32         `yaml:"max_conns"`
	MinConns int32         `yaml:"min_conns"`
	Migrate  bool          `yaml:"migrate"`
	Timeout  time.Duration `yaml:"connect_timeout"`
}

func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", d.User, d.Pass, d.Host, d.Port, d.Name, d.SSLMode)
}

type MQ struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	User    string `yaml:"user"`
	Pass    string `yaml:"password"`
	VHost   string `yaml:"vhost"`
	UseTLS  bool   `yaml:"tls"`
}

type HTTP struct {
	Port          int      `yaml:"port"`
	MaxConcurrent int      `yaml:"max_concurrent"`
	CORSOrigins   []string `yaml:"cors_origins"`
}

type Loyalty struct {
	PointsPerUnit string `yaml:"points_per_unit"`
}

func (l Loyalty) PerUnit() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(l.PointsPerUnit)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid loyalty.points_per_unit %q: %w", l.PointsPerUnit, err)
	}
	return d, nil
}

type Store struct {
	Driver string `yaml:"driver"` // postgres | memory
}

type App struct {
	Database DB      `yaml:"database"`
	Rabbit   MQ      `yaml:"rabbitmq"`
	HTTP     HTTP    `yaml:"http"`
	Loyalty  Loyalty `yaml:"loyalty"`
	Store    Store   `yaml:"store"`
	LogLevel string  `yaml:"log_level"`
}

func Default() App {
	return App{
		Database: DB{Host: "localhost", Port: 5432, User: "restaurant_user", Name: "restaurant_db",
			SSLMode: "disable", MaxConns: 25, MinConns: 5, Migrate: true, Timeout: 5 * time.Second},
		Rabbit:   MQ{Host: "localhost", Port: 5672, User: "guest", Pass: "guest", VHost: "/"},
		HTTP:     HTTP{Port: 3000, MaxConcurrent: 50},
		Loyalty:  Loyalty{PointsPerUnit: "1"},
		Store:    Store{Driver: "postgres"},
		LogLevel: "info",
	}
}

// Load reads the YAML file at path (skipped when path is empty), then a
// .env file if present, then POS_* environment variables.
func Load(path string) (App, error) {
	a := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return App{}, err
		}
		if err := yaml.Unmarshal(b, &a); err != nil {
			return App{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return App{}, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(&a, os.Getenv)
	return a, a.Validate()
}

func (a App) Validate() error {
	switch a.Store.Driver {
	case "memory":
	case "postgres":
		if a.Database.Host == "" || a.Database.Name == "" {
			return errors.New("invalid config: missing database host/name")
		}
	default:
		return fmt.Errorf("invalid config: unknown store driver %q", a.Store.Driver)
	}
	if a.Rabbit.Enabled && a.Rabbit.Host == "" {
		return errors.New("invalid config: missing rabbitmq host")
	}
	if a.HTTP.Port <= 0 || a.HTTP.Port > 65535 {
		return fmt.Errorf("invalid config: http port %d", a.HTTP.Port)
	}
	per, err := a.Loyalty.PerUnit()
	if err != nil {
		return err
	}
	if per.Sign() < 0 {
		return errors.New("invalid config: loyalty.points_per_unit must not be negative")
	}
	return nil
}

func applyEnv(a *App, getenv func(string) string) {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if n, err := strconv.Atoi(getenv(key)); err == nil {
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if b, err := strconv.ParseBool(getenv(key)); err == nil {
			*dst = b
		}
	}

	str("POS_DB_HOST", &a.Database.Host)
	num("POS_DB_PORT", &a.Database.Port)
	str("POS_DB_USER", &a.Database.User)
	str("POS_DB_PASSWORD", &a.Database.Pass)
	str("POS_DB_NAME", &a.Database.Name)
	str("POS_DB_SSLMODE", &a.Database.SSLMode)
	flag("POS_DB_MIGRATE", &a.Database.Migrate)

	flag("POS_RABBITMQ_ENABLED", &a.Rabbit.Enabled)
	str("POS_RABBITMQ_HOST", &a.Rabbit.Host)
	num("POS_RABBITMQ_PORT", &a.Rabbit.Port)
	str("POS_RABBITMQ_USER", &a.Rabbit.User)
	str("POS_RABBITMQ_PASSWORD", &a.Rabbit.Pass)

	num("POS_HTTP_PORT", &a.HTTP.Port)
	num("POS_HTTP_MAX_CONCURRENT", &a.HTTP.MaxConcurrent)
	if v := getenv("POS_HTTP_CORS_ORIGINS"); v != "" {
		a.HTTP.CORSOrigins = strings.Split(v, ",")
	}

	str("POS_LOYALTY_POINTS_PER_UNIT", &a.Loyalty.PointsPerUnit)
	str("POS_STORE_DRIVER", &a.Store.Driver)
	str("POS_LOG_LEVEL", &a.LogLevel)
}

func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}
