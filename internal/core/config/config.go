package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultPath = "./configs/config.local.yaml"

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec  int `mapstructure:"idle_timeout_sec"`
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin HTTP
	// CORSOrigins empty allows any origin.
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int `mapstructure:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups"`
	MaxAgeDays int `mapstructure:"max_age_days"`
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

type JWT struct {
	Secret   string
	Issuer   string
	TTLHours int `mapstructure:"ttl_hours"`
}

func (j JWT) TTL() time.Duration { return time.Duration(j.TTLHours) * time.Hour }

type Auth struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
	// EscalationSecret gates the super-admin bootstrap path; empty disables it.
	EscalationSecret string `mapstructure:"escalation_secret"`
}

type Redis struct {
	Addr         string `mapstructure:"addr"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	StatusTTLSec int    `mapstructure:"status_ttl_sec"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	AutoMigrate        bool   `mapstructure:"auto_migrate"`
	LogLevel           string `mapstructure:"log_level"`
}

type Limits struct {
	RPS          float64
	Burst        int
	PerIPRPS     float64 `mapstructure:"per_ip_rps"`
	PerIPBurst   int     `mapstructure:"per_ip_burst"`
	Concurrency  int64
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
	TimeoutSec   int   `mapstructure:"timeout_sec"`
}

type Scoring struct {
	Provider   string // passthrough | gemini
	APIKey     string `mapstructure:"api_key"`
	Endpoint   string
	Models     []string
	TimeoutSec int `mapstructure:"timeout_sec"`
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	Auth    Auth
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Limits  Limits
	Scoring Scoring
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sizing-eval")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.read_timeout_sec", 10)
	v.SetDefault("app.http.write_timeout_sec", 30)
	v.SetDefault("app.http.idle_timeout_sec", 60)
	v.SetDefault("app.admin.host", "0.0.0.0")
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("app.admin.read_timeout_sec", 5)
	v.SetDefault("app.admin.write_timeout_sec", 30)
	v.SetDefault("app.admin.idle_timeout_sec", 60)
	v.SetDefault("app.cors_origins", []string{})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.rotate.enable", false)
	v.SetDefault("log.rotate.filename", "logs/app.log")
	v.SetDefault("log.rotate.max_size_mb", 100)
	v.SetDefault("log.rotate.max_backups", 7)
	v.SetDefault("log.rotate.max_age_days", 30)
	v.SetDefault("log.rotate.compress", true)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "sizing-eval")
	v.SetDefault("jwt.ttl_hours", 24*7)

	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.escalation_secret", "")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "sizing-eval.db")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.max_open_conns", 50)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime_min", 30)
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.log_level", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.status_ttl_sec", 30)

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.per_ip_rps", 20)
	v.SetDefault("limits.per_ip_burst", 40)
	v.SetDefault("limits.concurrency", 300)
	v.SetDefault("limits.max_body_bytes", 1<<20)
	v.SetDefault("limits.timeout_sec", 30)

	v.SetDefault("scoring.provider", "passthrough")
	v.SetDefault("scoring.api_key", "")
	v.SetDefault("scoring.endpoint", "https://generativelanguage.googleapis.com/v1beta/models")
	v.SetDefault("scoring.models", []string{"gemini-2.0-flash", "gemini-2.5-flash"})
	v.SetDefault("scoring.timeout_sec", 60)
}

// LoadFrom reads path (if it exists) on top of the defaults, then APP_* env.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	explicit := path != ""
	if !explicit {
		path = defaultPath
	}
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if explicit {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func Load(path string) *Config {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	c, err := LoadFrom(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return c
}
