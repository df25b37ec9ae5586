package cfg

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// HTTP configuration
	Port         string  `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string  `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	MaxBodyBytes int64   `long:"max-body-bytes" env:"MAX_BODY_BYTES" default:"1048576" description:"Maximum accepted request body size in bytes"`
	RateLimit    float64 `long:"rate-limit" env:"RATE_LIMIT" default:"20" description:"API requests per second (0 disables rate limiting)"`
	RateBurst    int     `long:"rate-burst" env:"RATE_BURST" default:"40" description:"API burst size per client"`

	TrustedProxies []string `long:"trusted-proxy" env:"TRUSTED_PROXIES" env-delim:"," description:"Proxy IPs or CIDRs allowed to set X-Forwarded-For (repeatable)"`

	// Scoring configuration
	ScoringProfile string `long:"scoring-profile" env:"SCORING_PROFILE" description:"Path to a YAML scoring profile (built-in weights when empty)"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs parses args and the environment; it returns nil, nil when help was requested
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.Port == "" {
		return nil, fmt.Errorf("port must not be empty")
	}
	if raw.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("max body bytes must be positive, got %d", raw.MaxBodyBytes)
	}
	if raw.RateLimit < 0 || raw.RateBurst < 0 {
		return nil, fmt.Errorf("rate limit and burst must be non-negative")
	}

	cfg := &Cfg{
		Port:           raw.Port,
		APIAccessKey:   raw.APIAccessKey,
		MaxBodyBytes:   raw.MaxBodyBytes,
		RateLimit:      raw.RateLimit,
		RateBurst:      raw.RateBurst,
		TrustedProxies: raw.TrustedProxies,
		ScoringProfile: raw.ScoringProfile,
		Timezone:       raw.Timezone,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone == "" {
		return nil
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}
	time.Local = loc
	slog.Debug("Timezone configured", "timezone", timezone)
	return nil
}
