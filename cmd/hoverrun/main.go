package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/hoverrun/internal/config"
	"github.com/zeusync/hoverrun/internal/injector"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML or JSON config file")
		logLevel   = flag.String("log-level", "", "override the configured log level")
		ticks      = flag.Uint64("ticks", 0, "stop after this many ticks, 0 runs until interrupted")
		restart    = flag.Bool("restart", false, "start a new run after game over instead of exiting")
		realtime   = flag.Bool("realtime", false, "pace ticks at the configured tick rate")
		verify     = flag.Int("verify", 0, "run this many headless sessions in parallel and compare digests")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath, *logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *verify > 0 {
		if err = verifyDeterminism(ctx, cfg, *verify, *ticks); err != nil {
			fmt.Fprintln(os.Stderr, "Verification failed:", err)
			os.Exit(1)
		}
		return
	}

	app, err := injector.InitializeApp(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error building session:", err)
		os.Exit(1)
	}

	pause := make(chan os.Signal, 1)
	signal.Notify(pause, syscall.SIGUSR1)
	defer signal.Stop(pause)

	err = run(ctx, app, Options{
		Ticks:    *ticks,
		Restart:  *restart,
		Realtime: *realtime,
		Pause:    pause,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running session:", err)
		os.Exit(1)
	}
}

func loadConfig(path, level string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if level != "" {
		cfg.Log.Level = level
	}
	return cfg, cfg.Validate()
}
