package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/athuff02/fit-2026-journal/internal/artifact"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, loadConfig(), os.Stdout)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// run executes the monthly statistics scenario once. The browser is closed
// before it returns on every path.
func run(ctx context.Context, cfg Config, out io.Writer) error {
	target := cfg.TargetURL
	if cfg.ServeDir != "" {
		srv, err := serveDir(cfg.ServeDir)
		if err != nil {
			fmt.Fprintf(out, "Test failed: %v\n", err)
			return err
		}
		defer srv.close()
		target = srv.indexURL()
	}

	sess, err := newSession(ctx, cfg)
	if err != nil {
		fmt.Fprintf(out, "Test failed: %v\n", err)
		return err
	}
	defer sess.close()

	sc := NewScenario(target, artifact.NewWriter(cfg.OutDir), out)
	if err := sc.Run(sess.ctx); err != nil {
		return err
	}
	slog.Info("stats verification passed", "url", target)
	return nil
}
