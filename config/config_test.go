package config_test

import (
	"errors"
	"testing"

	"github.com/katalvlaran/fpmgraph/config"
)

func TestNewDefaults(t *testing.T) {
	c, err := config.New(1, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Rank != 1 || c.Size != 4 {
		t.Fatalf("rank/size not carried: %+v", c)
	}
	if c.SyncMode != config.Ghost {
		t.Fatalf("expected default sync mode ghost, got %q", c.SyncMode)
	}
	if c.LoadBalancer != config.RoundRobinBalancer {
		t.Fatalf("expected default load balancer round_robin, got %q", c.LoadBalancer)
	}
}

func TestNewWithOptions(t *testing.T) {
	c, err := config.New(0, 1,
		config.WithSyncMode(config.Hard),
		config.WithPartitionSeed(42),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.SyncMode != config.Hard {
		t.Fatalf("expected hard sync mode, got %q", c.SyncMode)
	}
	if c.PartitionSeed != 42 {
		t.Fatalf("expected seed 42, got %d", c.PartitionSeed)
	}
}

func TestNewRejectsInvalidRank(t *testing.T) {
	if _, err := config.New(4, 4); !errors.Is(err, config.ErrInvalidRank) {
		t.Fatalf("expected ErrInvalidRank, got %v", err)
	}
	if _, err := config.New(-1, 4); !errors.Is(err, config.ErrInvalidRank) {
		t.Fatalf("expected ErrInvalidRank, got %v", err)
	}
}

func TestNewRejectsInvalidSize(t *testing.T) {
	if _, err := config.New(0, 0); !errors.Is(err, config.ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
}

func TestNewRejectsUnknownSyncMode(t *testing.T) {
	if _, err := config.New(0, 1, config.WithSyncMode("quantum")); err == nil {
		t.Fatal("expected validation error for unknown sync mode")
	}
}
