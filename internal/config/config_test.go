package config

import (
	"testing"
	"time"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, envOf(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":3000" || cfg.DataDir != "" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Clock != 10*time.Minute || cfg.MatchInterval != time.Second {
		t.Fatalf("unexpected durations %+v", cfg)
	}
}

func TestLoadEnvAndFlags(t *testing.T) {
	env := envOf(map[string]string{
		"CHESS_ADDR":     ":8080",
		"CHESS_DATA_DIR": "/tmp/chess",
		"CHESS_CLOCK":    "5m",
	})

	cfg, err := Load(nil, env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DataDir != "/tmp/chess" || cfg.Clock != 5*time.Minute {
		t.Fatalf("env not applied: %+v", cfg)
	}

	cfg, err = Load([]string{"-addr", ":9090", "-clock", "3m"}, env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.Clock != 3*time.Minute {
		t.Fatalf("flags should override env: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad env duration", nil, map[string]string{"CHESS_CLOCK": "soon"}},
		{"bad flag duration", []string{"-match-interval", "x"}, nil},
		{"zero clock", []string{"-clock", "0s"}, nil},
		{"empty addr", []string{"-addr", ""}, nil},
		{"unknown flag", []string{"-nope"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.args, envOf(tt.env)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
