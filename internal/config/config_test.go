package config

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, envMap(nil))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":3000" || cfg.AIDepth != 3 || cfg.MaxDepth != 5 || cfg.MatchInterval != time.Second {
		t.Fatalf("defaults = %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:5173" {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.LogLevel != log.LevelInfo {
		t.Fatalf("log level = %v, want info", cfg.LogLevel)
	}
	if !cfg.AllowCredentials {
		t.Fatalf("credentials disabled by default")
	}
}

func TestLoadWildcardWithoutCredentials(t *testing.T) {
	cfg, err := Load([]string{"-origins", "*", "-credentials=false"}, envMap(nil))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AllowCredentials || cfg.CORSOrigins() != "*" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	env := envMap(map[string]string{
		"CHESS_ADDR":            ":9000",
		"CHESS_ALLOWED_ORIGINS": "http://a.test, http://b.test",
		"CHESS_AI_DEPTH":        "2",
		"CHESS_MATCH_INTERVAL":  "250ms",
		"CHESS_LOG_LEVEL":       "debug",
	})
	cfg, err := Load([]string{"-addr", ":7000", "-ai-depth", "4"}, env)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":7000" {
		t.Fatalf("flag did not override env: addr %q", cfg.Addr)
	}
	if cfg.AIDepth != 4 || cfg.MatchInterval != 250*time.Millisecond || cfg.LogLevel != log.LevelDebug {
		t.Fatalf("cfg = %+v", cfg)
	}
	if got := cfg.CORSOrigins(); got != "http://a.test, http://b.test" {
		t.Fatalf("CORSOrigins = %q", got)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"depth above max", []string{"-ai-depth", "6"}, nil},
		{"zero max depth", []string{"-max-depth", "0"}, nil},
		{"bad env depth", nil, map[string]string{"CHESS_AI_DEPTH": "deep"}},
		{"bad interval", nil, map[string]string{"CHESS_MATCH_INTERVAL": "soon"}},
		{"negative interval", []string{"-match-interval", "-1s"}, nil},
		{"bad level", []string{"-log-level", "loud"}, nil},
		{"unknown flag", []string{"-verbose"}, nil},
		{"wildcard origin with credentials", []string{"-origins", "*"}, nil},
		{"wildcard origin among others", nil, map[string]string{"CHESS_ALLOWED_ORIGINS": "http://a.test, *"}},
		{"bad credentials env", nil, map[string]string{"CHESS_ALLOW_CREDENTIALS": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.args, envMap(tt.env)); err == nil {
				t.Fatalf("Load(%v) succeeded", tt.args)
			}
		})
	}
}
