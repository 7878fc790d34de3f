package params

import (
	"testing"
	"time"
)

func TestDefaultGeneratorSection(t *testing.T) {
	cfg := Default()

	g := cfg.Generator
	if g.MarketOrderProb != 0.15 {
		t.Errorf("MarketOrderProb = %v, want 0.15", g.MarketOrderProb)
	}
	if g.LargeOrderProb != 0.05 {
		t.Errorf("LargeOrderProb = %v, want 0.05", g.LargeOrderProb)
	}
	if g.SpreadWidth != 10.0 {
		t.Errorf("SpreadWidth = %v, want 10.0", g.SpreadWidth)
	}
	if g.DriftStdDev != 0.5 {
		t.Errorf("DriftStdDev = %v, want 0.5", g.DriftStdDev)
	}
	if g.SmallQtyMin != 1 || g.SmallQtyMax != 100 {
		t.Errorf("small qty bounds = [%d,%d], want [1,100]", g.SmallQtyMin, g.SmallQtyMax)
	}
	if g.LargeQtyMin != 500 || g.LargeQtyMax != 1000 {
		t.Errorf("large qty bounds = [%d,%d], want [500,1000]", g.LargeQtyMin, g.LargeQtyMax)
	}
	if g.AgeMin != 10 || g.AgeMax != 100 {
		t.Errorf("age bounds = [%d,%d], want [10,100]", g.AgeMin, g.AgeMax)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("TICK_MS", "250")
	t.Setenv("MARKET_ORDER_PROB", "0.3")
	t.Setenv("SPREAD_WIDTH", "5")

	cfg := LoadFromEnv("")

	if cfg.Simulation.TickInterval != 250*time.Millisecond {
		t.Errorf("TickInterval = %v, want 250ms", cfg.Simulation.TickInterval)
	}
	if cfg.Generator.MarketOrderProb != 0.3 {
		t.Errorf("MarketOrderProb = %v, want 0.3", cfg.Generator.MarketOrderProb)
	}
	if cfg.Generator.SpreadWidth != 5 {
		t.Errorf("SpreadWidth = %v, want 5", cfg.Generator.SpreadWidth)
	}
	// Untouched fields keep their defaults.
	if cfg.Generator.LargeOrderProb != 0.05 {
		t.Errorf("LargeOrderProb = %v, want default 0.05", cfg.Generator.LargeOrderProb)
	}
}

func TestLoadFromEnvRejectsInvalid(t *testing.T) {
	t.Setenv("MARKET_ORDER_PROB", "1.5")
	t.Setenv("TICK_MS", "-10")

	cfg := LoadFromEnv("")

	if cfg.Generator.MarketOrderProb != 0.15 {
		t.Errorf("MarketOrderProb = %v, want default 0.15", cfg.Generator.MarketOrderProb)
	}
	if cfg.Simulation.TickInterval != 100*time.Millisecond {
		t.Errorf("TickInterval = %v, want default 100ms", cfg.Simulation.TickInterval)
	}
}
