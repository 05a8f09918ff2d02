package main

import (
	"context"
	"flag"
	"log"
	"time"

	"skill-atlas/internal/app"
	"skill-atlas/internal/config"
)

// Rebuilds the global tree from every stored user graph, outside the
// HTTP server. Intended for cron and operational recovery.
func main() {
	timeout := flag.Duration("timeout", 10*time.Minute, "rebuild timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	stats, err := c.Rebuild.Rebuild(ctx)
	if err != nil {
		log.Fatalf("rebuild failed: %v", err)
	}

	log.Printf("rebuild done | users=%d/%d skills=%d nodes=%d connections=%d errors=%d",
		stats.UsersProcessed, stats.UsersConsidered, stats.SkillsProcessed,
		stats.FinalNodes, stats.FinalConnections, stats.ErrorsEncountered)
}
