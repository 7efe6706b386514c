// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON config file and
// environment variables.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"address" env:"SERVER_ADDRESS"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `json:"database_dsn" env:"DATABASE_DSN"`

	// Config is the path to the Config file.
	Config string `json:"-" env:"CONFIG"`

	// LogLevel is the minimum zap level that gets written.
	LogLevel string `json:"log_level" env:"LOG_LEVEL"`

	// SessionTTL is how long a visitor session stays valid. Durations are
	// set by flag or environment only, never by the config file.
	SessionTTL time.Duration `json:"-" env:"SESSION_TTL"`

	// CleanupInterval is how often expired sessions are purged.
	CleanupInterval time.Duration `json:"-" env:"SESSION_CLEANUP_INTERVAL"`

	// Providers lists the ids of the third-party providers accounts can be
	// connected to.
	Providers []string `json:"providers" env:"PROVIDERS" envSeparator:","`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert" env:"TLS_CERT"`
	TLSKey  string `json:"tls_key" env:"TLS_KEY"`
}

// Parse parses the process command-line flags and environment variables.
// It exits the process when the configuration cannot be loaded.
func Parse() *Options {
	options, err := Load(os.Args[1:])
	if err != nil {
		log.Fatalf("error while loading config: %v", err)
	}
	return options
}

// Load builds Options from flag defaults, the config file (if it exists),
// environment variables and flags given explicitly in args, each later
// source overriding the earlier one.
func Load(args []string) (*Options, error) {
	options := &Options{}
	var providers string

	fs := flag.NewFlagSet("showcase", flag.ContinueOnError)
	fs.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&options.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&options.Config, "config", "config.json", "path to config file")
	fs.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	fs.StringVar(&options.LogLevel, "l", "info", "log level")
	fs.DurationVar(&options.SessionTTL, "session-ttl", 24*time.Hour, "session lifetime")
	fs.DurationVar(&options.CleanupInterval, "session-cleanup", time.Hour, "expired session cleanup interval")
	fs.StringVar(&providers, "providers", "twitter,facebook", "comma-separated provider ids")
	fs.StringVar(&options.TLSCert, "tls-cert", "", "path to TLS certificate")
	fs.StringVar(&options.TLSKey, "tls-key", "", "path to TLS private key")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	options.Providers = splitList(providers)

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := env.Parse(options); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Parsing again sets only the flags present in args.
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "providers" {
			options.Providers = splitList(providers)
		}
	})

	if options.SessionTTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", options.SessionTTL)
	}
	if options.CleanupInterval <= 0 {
		return nil, fmt.Errorf("session cleanup interval must be positive, got %s", options.CleanupInterval)
	}

	return options, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
