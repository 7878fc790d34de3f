package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketsim/params"
	"marketsim/pkg/api"
	"marketsim/pkg/book"
	"marketsim/pkg/sim"
	"marketsim/pkg/util"
)

func main() {
	cfg := params.LoadFromEnv("")

	logger, err := util.NewLoggerWithFile(cfg.Server.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	b := book.New()

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen := sim.NewGenerator(genConfig(cfg.Generator), cfg.Simulation.InitialFairPrice, seed)
	sugar.Infow("generator_ready", "fair_price", cfg.Simulation.InitialFairPrice, "seed", seed)

	srv := api.NewServer(b, sugar)
	engine := sim.NewEngine(b, gen, srv, cfg.Simulation.TickInterval, sugar)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(cfg.Server.ListenAddr); err != nil {
			sugar.Fatalw("api_server_failed", "err", err)
		}
	}()

	engine.Run(ctx)
}

func genConfig(g params.Generator) sim.GenConfig {
	return sim.GenConfig{
		MarketOrderProb: g.MarketOrderProb,
		LargeOrderProb:  g.LargeOrderProb,
		SpreadWidth:     g.SpreadWidth,
		DriftStdDev:     g.DriftStdDev,
		SmallQtyMin:     g.SmallQtyMin,
		SmallQtyMax:     g.SmallQtyMax,
		LargeQtyMin:     g.LargeQtyMin,
		LargeQtyMax:     g.LargeQtyMax,
		AgeMin:          g.AgeMin,
		AgeMax:          g.AgeMax,
	}
}
