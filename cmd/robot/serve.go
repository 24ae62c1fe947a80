package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vinayprograms/robot/internal/interp"
	"github.com/vinayprograms/robot/internal/robot"
)

// Run serves the configured scripted world until interrupted.
func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	if c.Subject != "" {
		cfg.NATS.Subject = c.Subject
	}

	conn, err := robot.Connect(cfg.NATS.URL, "robot-server", cfg.RequestTimeout())
	if err != nil {
		return err
	}
	defer conn.Close()

	var world interp.Robot = robot.NewScripted(cfg.Settings())
	if tick := cfg.Tick(); tick > 0 {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		world = robot.NewTicked(world, ticker.C)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving robot on %s.> via %s (Ctrl+C to stop)\n", cfg.NATS.Subject, cfg.NATS.URL)
	return robot.NewServer(world, cfg.NATS.Subject).Serve(ctx, conn)
}
