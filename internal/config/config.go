// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	Database DatabaseConfig `mapstructure:"database"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Games    GamesConfig    `mapstructure:"games"`
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token string `mapstructure:"token"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// AdminConfig holds admin user configuration.
type AdminConfig struct {
	IDs []int64 `mapstructure:"ids"`
}

// GamesConfig holds game-specific configuration.
type GamesConfig struct {
	Mines    MinesConfig    `mapstructure:"mines"`
	Roulette RouletteConfig `mapstructure:"roulette"`
	Dice     DiceConfig     `mapstructure:"dice"`
	Colors   ColorsConfig   `mapstructure:"colors"`
}

// MinesConfig holds mine-field game configuration.
type MinesConfig struct {
	MinBet int64 `mapstructure:"min_bet"`
}

// RouletteConfig holds roulette round configuration.
type RouletteConfig struct {
	MinBet          int64 `mapstructure:"min_bet"`
	MaxBets         int   `mapstructure:"max_bets"`
	CooldownSeconds int   `mapstructure:"cooldown_seconds"`
	HistorySize     int   `mapstructure:"history_size"`
}

// DiceConfig holds dice game configuration.
type DiceConfig struct {
	MinBet int64 `mapstructure:"min_bet"`
}

// ColorsConfig holds color game configuration.
type ColorsConfig struct {
	MinBet int64 `mapstructure:"min_bet"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. BOT_TOKEN, DATABASE_HOST, DATABASE_PORT.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - env vars can provide everything.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "casino")
	v.SetDefault("database.name", "casino")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Game defaults
	v.SetDefault("games.mines.min_bet", 10)
	v.SetDefault("games.roulette.min_bet", 10)
	v.SetDefault("games.roulette.max_bets", 16)
	v.SetDefault("games.roulette.cooldown_seconds", 15)
	v.SetDefault("games.roulette.history_size", 100)
	v.SetDefault("games.dice.min_bet", 10)
	v.SetDefault("games.colors.min_bet", 10)
}

// IsAdmin checks if a user ID is in the admin list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Admin.IDs {
		if id == userID {
			return true
		}
	}
	return false
}
