package config

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/exp/slices"
)

type Config struct {
	Addr           string
	AllowedOrigins []string
	// AllowCredentials lets browsers send cookies and auth headers
	// cross-origin. It cannot be combined with a "*" origin.
	AllowCredentials bool
	AIDepth          int
	MaxDepth         int
	MatchInterval    time.Duration
	LogLevel         log.Level
	ShutdownTimeout  time.Duration
}

// Load parses args (without the program name). Every flag falls back to an
// environment variable read through getenv, then to its default.
func Load(args []string, getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}
	envInt := func(key string, def int) (int, error) {
		v := getenv(key)
		if v == "" {
			return def, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return n, nil
	}
	envDuration := func(key string, def time.Duration) (time.Duration, error) {
		v := getenv(key)
		if v == "" {
			return def, nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return d, nil
	}

	aiDepth, err := envInt("CHESS_AI_DEPTH", 3)
	if err != nil {
		return Config{}, err
	}
	maxDepth, err := envInt("CHESS_MAX_DEPTH", 5)
	if err != nil {
		return Config{}, err
	}
	interval, err := envDuration("CHESS_MATCH_INTERVAL", time.Second)
	if err != nil {
		return Config{}, err
	}
	credentials := true
	if v := getenv("CHESS_ALLOW_CREDENTIALS"); v != "" {
		if credentials, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("CHESS_ALLOW_CREDENTIALS: %w", err)
		}
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	addr := fs.String("addr", env("CHESS_ADDR", ":3000"), "listen address")
	origins := fs.String("origins", env("CHESS_ALLOWED_ORIGINS", "http://localhost:5173"), "comma-separated origins allowed for CORS and websockets")
	fs.BoolVar(&credentials, "credentials", credentials, "allow credentialed cross-origin requests")
	fs.IntVar(&aiDepth, "ai-depth", aiDepth, "default search depth for the computer opponent")
	fs.IntVar(&maxDepth, "max-depth", maxDepth, "deepest search a client may request")
	fs.DurationVar(&interval, "match-interval", interval, "how often queued players are paired")
	level := fs.String("log-level", env("CHESS_LOG_LEVEL", "info"), "trace, debug, info, warn or error")
	shutdown := fs.Duration("shutdown-timeout", 10*time.Second, "grace period for open requests on shutdown")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Addr:             *addr,
		AllowedOrigins:   splitList(*origins),
		AllowCredentials: credentials,
		AIDepth:          aiDepth,
		MaxDepth:         maxDepth,
		MatchInterval:    interval,
		ShutdownTimeout:  *shutdown,
	}
	if cfg.LogLevel, err = ParseLevel(*level); err != nil {
		return Config{}, err
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	if c.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("max depth %d must be positive", c.MaxDepth))
	}
	if c.AIDepth < 1 || c.AIDepth > c.MaxDepth {
		errs = append(errs, fmt.Errorf("ai depth %d not in 1..%d", c.AIDepth, c.MaxDepth))
	}
	if c.AllowCredentials && slices.Contains(c.AllowedOrigins, "*") {
		errs = append(errs, errors.New(`origin "*" cannot be used with credentials`))
	}
	if c.MatchInterval <= 0 {
		errs = append(errs, fmt.Errorf("match interval %s must be positive", c.MatchInterval))
	}
	return errors.Join(errs...)
}

// CORSOrigins is AllowedOrigins in the form the cors middleware expects.
func (c Config) CORSOrigins() string {
	return strings.Join(c.AllowedOrigins, ", ")
}

func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info", "":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
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
