package config

import (
	"flag"
	"io"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Addr() != "localhost:12345" {
		t.Errorf("addr = %q", cfg.Addr())
	}
	if cfg.TickInterval != 30*time.Second {
		t.Errorf("tick = %v", cfg.TickInterval)
	}
	if cfg.PaceInterval != time.Second || cfg.PaceBurst != 5 {
		t.Errorf("pace = %v/%d", cfg.PaceInterval, cfg.PaceBurst)
	}
	if cfg.HTTPAddr != "" || cfg.JournalPath != "" {
		t.Error("optional surfaces should be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestParse_EnvThenFlags(t *testing.T) {
	opts := env.Options{Environment: map[string]string{
		"MOOD_HOST":          "0.0.0.0",
		"MOOD_PORT":          "4000",
		"MOOD_TICK_INTERVAL": "5s",
		"MOOD_SEED":          "7",
		"LOG_FORMAT":         "json",
	}}

	cfg, err := parse(newFlagSet(), []string{"-port", "4001"}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "0.0.0.0" {
		t.Errorf("host = %q", cfg.Host)
	}
	if cfg.Port != 4001 {
		t.Errorf("flag should win over env, port = %d", cfg.Port)
	}
	if cfg.TickInterval != 5*time.Second || cfg.WorldSeed() != 7 || cfg.LogFormat != "json" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"port out of range", nil, []string{"-port", "70000"}},
		{"zero tick", map[string]string{"MOOD_TICK_INTERVAL": "0s"}, nil},
		{"bad duration", map[string]string{"MOOD_TICK_INTERVAL": "soon"}, nil},
		{"zero outbox", map[string]string{"MOOD_OUTBOX_SIZE": "0"}, nil},
		{"outbox of one", map[string]string{"MOOD_OUTBOX_SIZE": "1"}, nil},
		{"unknown flag", nil, []string{"-verbose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			environment := tt.env
			if environment == nil {
				environment = map[string]string{}
			}
			if _, err := parse(newFlagSet(), tt.args, env.Options{Environment: environment}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWorldSeed_ZeroMeansRandom(t *testing.T) {
	cfg := Default()
	if cfg.WorldSeed() == 0 {
		t.Error("zero seed should be replaced")
	}
}
