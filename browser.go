package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chromedp/chromedp"
)

// session owns the allocator and browser contexts for one run. close
// releases both; it is safe to call more than once.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newSession(parent context.Context, cfg Config) (*session, error) {
	var (
		allocCtx    context.Context
		allocCancel context.CancelFunc
	)
	if cfg.CDPURL != "" {
		slog.Info("connecting to chrome", "cdp", cfg.CDPURL)
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(parent, cfg.CDPURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("no-first-run", true),
			chromedp.WindowSize(1280, 900),
		)
		if !cfg.Headless {
			opts = append(opts, chromedp.Flag("headless", false))
		}
		if cfg.ChromeBin != "" {
			opts = append(opts, chromedp.ExecPath(cfg.ChromeBin))
		}
		slog.Info("launching chrome", "headless", cfg.Headless, "bin", cfg.ChromeBin)
		allocCtx, allocCancel = chromedp.NewExecAllocator(parent, opts...)
	}

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	s := &session{
		ctx: browserCtx,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
	}

	// Run with no actions starts the browser and opens the first tab.
	if err := chromedp.Run(browserCtx); err != nil {
		s.close()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	slog.Debug("browser ready", "target", chromedp.FromContext(browserCtx).Target.TargetID)
	return s, nil
}

func (s *session) close() {
	if s == nil || s.cancel == nil {
		return
	}
	s.cancel()
}

// navigate loads url and waits for the load event.
func navigate(ctx context.Context, url string) error {
	tCtx, cancel := context.WithTimeout(ctx, actionTimeout)
	defer cancel()
	if err := chromedp.Run(tCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// fullScreenshot captures the whole page as PNG.
func fullScreenshot(ctx context.Context) ([]byte, error) {
	tCtx, cancel := context.WithTimeout(ctx, actionTimeout)
	defer cancel()
	var buf []byte
	if err := chromedp.Run(tCtx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return buf, nil
}
