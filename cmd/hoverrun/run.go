package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/hoverrun/internal/config"
	"github.com/zeusync/hoverrun/internal/core/observability/log"
	"github.com/zeusync/hoverrun/internal/injector"
	"github.com/zeusync/hoverrun/pkg/concurrent"
	"github.com/zeusync/hoverrun/pkg/sequence"
)

const shutdownTimeout = 5 * time.Second

type Options struct {
	// Ticks bounds the total number of simulated ticks across runs. Zero
	// means unbounded.
	Ticks    uint64
	Restart  bool
	Realtime bool
	// Pause toggles the pause state each time it fires.
	Pause <-chan os.Signal
}

// run drives app until the tick limit is reached, a run ends without Restart
// or ctx is cancelled.
func run(ctx context.Context, app *injector.App, opts Options) error {
	logger := app.Logger.Named("runner")
	sess := app.Session

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if app.Config.Server.Enabled {
		if err := app.Server.Start(ctx); err != nil {
			return fmt.Errorf("start spectator server: %w", err)
		}
		g.Go(func() error {
			<-ctx.Done()
			stopCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
			defer stop()
			return app.Server.Stop(stopCtx)
		})
	}

	var total uint64
	g.Go(func() error {
		defer cancel()
		n, err := tickLoop(ctx, app, opts, logger)
		total = n
		return err
	})

	err := g.Wait()

	final := sess.Snapshot()
	logger.Info("session finished",
		log.String("session", final.Session),
		log.Uint64("tick", final.Tick),
		log.String("phase", final.Phase),
		log.Int("score", final.Score),
		log.Int("high_score", final.HighScore),
		log.String("digest", final.Digest),
		log.Uint64("total_ticks", total),
	)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func tickLoop(ctx context.Context, app *injector.App, opts Options, logger log.Log) (uint64, error) {
	sess := app.Session
	dt := app.Config.Session.TickDelta()
	every := uint64(app.Config.Server.BroadcastEvery)

	var pace <-chan time.Time
	if opts.Realtime {
		ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
		defer ticker.Stop()
		pace = ticker.C
	}

	sess.Start()
	var total uint64
	for opts.Ticks == 0 || total < opts.Ticks {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		// Paused sessions do not count against the tick limit; wait for the
		// next toggle instead of spinning.
		if sess.State().Paused() && pace == nil {
			select {
			case <-ctx.Done():
				return total, ctx.Err()
			case <-opts.Pause:
				sess.State().TogglePause()
				continue
			}
		}

		if pace != nil {
			select {
			case <-ctx.Done():
				return total, ctx.Err()
			case <-opts.Pause:
				sess.State().TogglePause()
				continue
			case <-pace:
			}
		} else {
			select {
			case <-opts.Pause:
				sess.State().TogglePause()
				continue
			default:
			}
		}

		if sess.State().Paused() {
			continue
		}

		if err := sess.Tick(dt); err != nil {
			logger.Warn("tick failed", log.Uint64("tick", sess.Ticks()), log.Err(err))
		}
		total++

		if app.Config.Server.Enabled && sess.Ticks()%every == 0 {
			if err := app.Server.Broadcast(sess.Snapshot()); err != nil {
				logger.Warn("broadcast failed", log.Err(err))
			}
		}

		if sess.State().GameOver() {
			snap := sess.Snapshot()
			logger.Info("game over",
				log.Uint64("tick", snap.Tick),
				log.Int("score", snap.Score),
				log.Float64("distance", snap.Vehicle.Position.Z()),
				log.String("digest", snap.Digest),
			)
			if app.Config.Server.Enabled {
				_ = app.Server.Broadcast(snap)
			}
			if !opts.Restart {
				return total, nil
			}
			sess.Restart()
		}
	}
	return total, nil
}

// verifyDeterminism runs n independent sessions for ticks ticks each and
// fails when their digests disagree.
func verifyDeterminism(ctx context.Context, cfg *config.Config, n int, ticks uint64) error {
	if ticks == 0 {
		ticks = uint64(cfg.Session.TickRate) * 60
	}
	headless := *cfg
	headless.Server.Enabled = false

	runs := make([]int, n)
	for i := range runs {
		runs[i] = i
	}
	digests, err := concurrent.ParallelMap(ctx, sequence.From(runs), n, func(ctx context.Context, _ int) (string, error) {
		app, err := injector.InitializeApp(&headless)
		if err != nil {
			return "", err
		}
		if _, err = tickLoop(ctx, app, Options{Ticks: ticks}, app.Logger); err != nil {
			return "", err
		}
		return app.Session.Snapshot().Digest, nil
	})
	if err != nil {
		return err
	}

	want := digests[0]
	if mismatch, found := sequence.From(digests).Find(func(d string) bool { return d != want }); found {
		return fmt.Errorf("digest %s differs from %s", mismatch, want)
	}
	fmt.Printf("%d runs of %d ticks agree: %s\n", n, ticks, want)
	return nil
}
