package params

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Simulation struct {
	// TickInterval is the fixed period of the engine loop.
	TickInterval time.Duration
	// InitialFairPrice seeds the generator's random walk.
	InitialFairPrice float64
	// Seed fixes the generator's RNG; 0 means seed from the wall clock.
	Seed int64
}

// Generator tunes the synthetic order flow.
type Generator struct {
	MarketOrderProb float64
	LargeOrderProb  float64
	SpreadWidth     float64
	DriftStdDev     float64

	SmallQtyMin, SmallQtyMax int64
	LargeQtyMin, LargeQtyMax int64
	AgeMin, AgeMax           int
}

type Server struct {
	ListenAddr string
	LogFile    string
}

type Config struct {
	Simulation Simulation
	Generator  Generator
	Server     Server
}

func Default() Config {
	return Config{
		Simulation: Simulation{
			TickInterval:     100 * time.Millisecond,
			InitialFairPrice: 100.0,
		},
		Generator: Generator{
			MarketOrderProb: 0.15,
			LargeOrderProb:  0.05,
			SpreadWidth:     10.0,
			DriftStdDev:     0.5,
			SmallQtyMin:     1,
			SmallQtyMax:     100,
			LargeQtyMin:     500,
			LargeQtyMax:     1000,
			AgeMin:          10,
			AgeMax:          100,
		},
		Server: Server{
			ListenAddr: ":8080",
			LogFile:    "data/simd.log",
		},
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if tick := os.Getenv("TICK_MS"); tick != "" {
		if ms, err := strconv.Atoi(tick); err == nil && ms > 0 {
			cfg.Simulation.TickInterval = time.Duration(ms) * time.Millisecond
		}
	}
	if fair := os.Getenv("FAIR_PRICE"); fair != "" {
		if v, err := strconv.ParseFloat(fair, 64); err == nil {
			cfg.Simulation.InitialFairPrice = v
		}
	}
	if seed := os.Getenv("SEED"); seed != "" {
		if v, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.Simulation.Seed = v
		}
	}
	if p := os.Getenv("MARKET_ORDER_PROB"); p != "" {
		if v, err := strconv.ParseFloat(p, 64); err == nil && v >= 0 && v <= 1 {
			cfg.Generator.MarketOrderProb = v
		}
	}
	if p := os.Getenv("LARGE_ORDER_PROB"); p != "" {
		if v, err := strconv.ParseFloat(p, 64); err == nil && v >= 0 && v <= 1 {
			cfg.Generator.LargeOrderProb = v
		}
	}
	if w := os.Getenv("SPREAD_WIDTH"); w != "" {
		if v, err := strconv.ParseFloat(w, 64); err == nil && v > 0 {
			cfg.Generator.SpreadWidth = v
		}
	}
	if addr := os.Getenv("LISTEN"); addr != "" {
		cfg.Server.ListenAddr = addr
	}
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		cfg.Server.LogFile = logFile
	}

	return cfg
}
