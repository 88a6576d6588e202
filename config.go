package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds everything the app needs to start. Values come from three
// layers: compiled-in defaults, an optional .config.json file, and
// HOTTAKES_* environment variables, each overriding the one before.
type Config struct {
	Port      int            `json:"port" env:"HOTTAKES_PORT, overwrite"`
	Env       string         `json:"env" env:"HOTTAKES_ENV, overwrite"`
	Pepper    string         `json:"pepper" env:"HOTTAKES_PEPPER, overwrite"`
	JWTSecret string         `json:"jwt_secret" env:"HOTTAKES_JWT_SECRET, overwrite"`
	TokenTTL  time.Duration  `json:"-" env:"HOTTAKES_TOKEN_TTL, overwrite"`
	Database  PostgresConfig `json:"database"`
}

type PostgresConfig struct {
	Host     string `json:"host" env:"HOTTAKES_DB_HOST, overwrite"`
	Port     int    `json:"port" env:"HOTTAKES_DB_PORT, overwrite"`
	User     string `json:"user" env:"HOTTAKES_DB_USER, overwrite"`
	Password string `json:"password" env:"HOTTAKES_DB_PASSWORD, overwrite"`
	Name     string `json:"name" env:"HOTTAKES_DB_NAME, overwrite"`
}

func (pc PostgresConfig) ConnectionInfo() string {
	if pc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Password, pc.Name)
}

// IsProd reports whether we're running in production.
func (c Config) IsProd() bool {
	return c.Env == "prod"
}

func DefaultConfig() Config {
	return Config{
		Port:      1111,
		Env:       "dev",
		Pepper:    "secret-random-string",
		JWTSecret: "secret-jwt-key",
		// Tokens live 60 days, logout revokes them earlier.
		TokenTTL: 60 * 24 * time.Hour,
		Database: DefaultPostgresConfig(),
	}
}

func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "",
		Name:     "hottakes",
	}
}

// LoadConfig loads configuration from a .config.json file if present,
// otherwise it falls back to the default dev setup. In production the file
// is required, running prod on dev defaults would be a silent disaster.
// Environment variables override whatever the file said.
func LoadConfig(prod bool) Config {
	c := DefaultConfig()
	f, err := os.Open(".config.json")
	if err != nil {
		if prod {
			panic("A .config.json file is required in production.")
		}
	} else {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(&c); err != nil {
			panic(err)
		}
		fmt.Println("Successfully loaded .config.json")
	}
	if err := envconfig.Process(context.Background(), &c); err != nil {
		panic(err)
	}
	return c
}
