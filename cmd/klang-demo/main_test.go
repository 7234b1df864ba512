package main

import (
	"testing"

	"github.com/klang-rt/klang/config"
)

func TestRunSucceedsWithDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	if err := run(cfg, false); err != nil {
		t.Fatalf("run(DefaultConfig()) = %v, want nil", err)
	}
}

func TestRunRejectsUnknownShiftMode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Bitwise.DefaultMode = "bogus"
	if err := run(cfg, false); err == nil {
		t.Error("run() with an invalid default_mode should fail")
	}
}
