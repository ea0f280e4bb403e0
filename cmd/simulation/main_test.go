package main

import (
	"context"
	"testing"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	golog "github.com/tochemey/goakt/v3/log"
)

func TestRun(t *testing.T) {
	cfg := simulation.DefaultConfig()
	cfg.GridSize = 4
	cfg.Steps = 30
	cfg.LogInterval = 0

	stats, err := run(context.Background(), cfg, 16*time.Millisecond, golog.DiscardLogger)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stats.Count != 16 {
		t.Errorf("Count = %d, want 16", stats.Count)
	}
	if stats.MaxSpeed > float64(cfg.Rules.MaxSpeed)+1e-3 {
		t.Errorf("MaxSpeed = %v exceeds the %v clamp", stats.MaxSpeed, cfg.Rules.MaxSpeed)
	}
}
