// Package config provides centralized configuration loaded from environment
// variables. Shared by cmd/aa-alert; cmd/aactl talks to the running service
// over HTTP and only needs the API address.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultEventsURL is the DST-free variant of the archeage-tools event feed.
// The no-DST feed keeps every time rule in plain UTC wall-clock, which is
// what the occurrence resolver assumes.
const DefaultEventsURL = "https://raw.githubusercontent.com/Archey6/archeage-tools/data/static/service/eventsNoDST.json"

// DefaultTargets are the monitored event name keys, matched by lowercased
// substring containment against catalog entry names.
var DefaultTargets = []string{
	"Hiram Rift",
	"Akasch Invasion",
	"Kraken",
	"Jola, Meina, & Glenn",
	"Black Dragon",
	"Golden Plains Battle",
	"Crimson Rift",
	"Crimson Rift (Auroria)",
	"Grimghast Rift",
}

// Config is populated from environment variables.
type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// Discord transport
	DiscordToken   string
	DiscordAPIBase string
	AlertChannelID string // startup destination; the settings store may override it
	AlertRoleID    string // optional role to mention on alerts

	// Alert pipeline
	Region      string
	EventsURL   string
	Targets     []string // lowercased monitored keys
	LeadMinutes []int
	TickCron    string
	Tolerance   time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string
	AdminToken  string // empty disables mutating admin endpoints

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// Missing required values are collected into a single error so the operator
// sees everything at once.
func Load() (*Config, error) {
	var missing []string

	dbURL := envOr("DATABASE_URL", "")
	if dbURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	token := envOr("DISCORD_TOKEN", "")
	if token == "" {
		missing = append(missing, "DISCORD_TOKEN")
	}
	channelID := envOr("ALERT_CHANNEL_ID", "")
	if channelID == "" {
		missing = append(missing, "ALERT_CHANNEL_ID")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required env: %s", strings.Join(missing, ", "))
	}

	targets := envList("ALERT_TARGETS", DefaultTargets)
	lowered := make([]string, len(targets))
	for i, t := range targets {
		lowered[i] = strings.ToLower(t)
	}

	leads, err := envIntList("ALERT_LEAD_MINUTES", []int{10, 1})
	if err != nil {
		return nil, fmt.Errorf("ALERT_LEAD_MINUTES: %w", err)
	}

	tolerance := time.Duration(envInt("TOLERANCE_SECONDS", 20)) * time.Second
	if tolerance <= 0 {
		return nil, fmt.Errorf("TOLERANCE_SECONDS must be positive, got %s", tolerance)
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 4),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		DiscordToken:   token,
		DiscordAPIBase: envOr("DISCORD_API_BASE", "https://discord.com/api/v10"),
		AlertChannelID: channelID,
		AlertRoleID:    envOr("ALERT_ROLE_ID", ""),

		Region:      envOr("REGION", "NA"),
		EventsURL:   envOr("EVENTS_URL", DefaultEventsURL),
		Targets:     lowered,
		LeadMinutes: leads,
		// Tolerance must stay below half the tick interval or the same
		// alert instant can be observed in two adjacent windows.
		TickCron:  envOr("TICK_CRON", "*/1 * * * *"),
		Tolerance: tolerance,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		AdminToken:  envOr("ADMIN_TOKEN", ""),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

func envIntList(key string, fallback []int) ([]int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parts := strings.Split(v, ",")
	result := make([]int, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", trimmed)
		}
		result = append(result, n)
	}
	if len(result) == 0 {
		return fallback, nil
	}
	return result, nil
}
