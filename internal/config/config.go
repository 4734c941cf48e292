// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"dayout/pkg/utils"
)

const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Config holds all configuration values for the API server.
type Config struct {
	Port        string
	LogLevel    string
	LogFormat   string
	CORSOrigins []string

	LLM     LLMConfig
	Session SessionConfig

	RateLimitRPS   float64
	RateLimitBurst int

	// GoogleMapsAPIKey enables place lookups when set.
	GoogleMapsAPIKey string
	// DatabaseURL enables the Postgres place cache when set.
	DatabaseURL   string
	PlaceCacheTTL time.Duration
}

type LLMConfig struct {
	Provider              string
	APIKey                string
	BaseURL               string
	Model                 string
	MaxTokens             int
	Timeout               time.Duration
	FullTemperature       float32
	RegenerateTemperature float32
}

type SessionConfig struct {
	Secret               string
	TTL                  time.Duration
	ClearUsedNamesOnBack bool
	SupplementRounds     int
}

var defaultModels = map[string]string{
	ProviderGroq:      "llama-3.3-70b-versatile",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderGemini:    "gemini-1.5-flash",
	ProviderAnthropic: "claude-sonnet-4-5-20250929",
}

// Load reads configuration from environment variables and returns a Config.
// The error lists every variable that is missing or malformed.
func Load() (Config, error) {
	p := &parser{}

	provider := strings.ToLower(getEnv("LLM_PROVIDER", ProviderGroq))
	if _, ok := defaultModels[provider]; !ok {
		p.fail("LLM_PROVIDER (must be groq, openai, gemini or anthropic)")
	}

	baseURL := os.Getenv("LLM_BASE_URL")
	if baseURL == "" && provider == ProviderGroq {
		baseURL = utils.GroqBaseURL
	}

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		LLM: LLMConfig{
			Provider:              provider,
			APIKey:                p.required("LLM_API_KEY"),
			BaseURL:               baseURL,
			Model:                 getEnv("LLM_MODEL", defaultModels[provider]),
			MaxTokens:             p.intVar("LLM_MAX_TOKENS", 0),
			Timeout:               p.durationVar("LLM_TIMEOUT", 45*time.Second),
			FullTemperature:       p.float32Var("FULL_TEMPERATURE", 0.7),
			RegenerateTemperature: p.float32Var("REGENERATE_TEMPERATURE", 0.8),
		},
		Session: SessionConfig{
			Secret:               p.required("SESSION_SECRET"),
			TTL:                  p.durationVar("SESSION_TTL", 2*time.Hour),
			ClearUsedNamesOnBack: p.boolVar("CLEAR_USED_NAMES_ON_BACK", false),
			SupplementRounds:     p.intVar("SUPPLEMENT_ROUNDS", 0),
		},
		RateLimitRPS:     p.floatVar("RATE_LIMIT_RPS", 1),
		RateLimitBurst:   p.intVar("RATE_LIMIT_BURST", 5),
		GoogleMapsAPIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		DatabaseURL:      os.Getenv("POSTGRES_URL"),
		PlaceCacheTTL:    p.durationVar("PLACE_CACHE_TTL", 24*time.Hour),
	}

	switch cfg.LogFormat {
	case "json", "console":
	default:
		p.fail("LOG_FORMAT (must be json or console)")
	}
	if cfg.Session.SupplementRounds < 0 {
		p.fail("SUPPLEMENT_ROUNDS (must be >= 0)")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst < 1 {
		p.fail("RATE_LIMIT_RPS/RATE_LIMIT_BURST (must be positive)")
	}

	if len(p.problems) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(p.problems, ", "))
	}
	return cfg, nil
}

// parser collects every problem instead of stopping at the first.
type parser struct {
	problems []string
}

func (p *parser) fail(what string) {
	p.problems = append(p.problems, what)
}

func (p *parser) required(key string) string {
	v := os.Getenv(key)
	if v == "" {
		p.fail(key + " (required)")
	}
	return v
}

func (p *parser) intVar(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key)
		return fallback
	}
	return n
}

func (p *parser) floatVar(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key)
		return fallback
	}
	return f
}

func (p *parser) float32Var(key string, fallback float32) float32 {
	return float32(p.floatVar(key, float64(fallback)))
}

func (p *parser) boolVar(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key)
		return fallback
	}
	return b
}

func (p *parser) durationVar(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key)
		return fallback
	}
	return d
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
