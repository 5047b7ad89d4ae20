package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/athuff02/fit-2026-journal/internal/artifact"
	"github.com/athuff02/fit-2026-journal/internal/journal"
)

const (
	statsContainer = "#statsContainer"
	monthlyHeading = "Monthly Consistency"
)

var historyButton = roleQuery{Role: "button", Name: "History"}

// Scenario is the monthly statistics check: seed entries, open the History
// view and verify the "Monthly Consistency" card.
type Scenario struct {
	URL     string
	Seam    Seam
	Entries []journal.Entry
	Order   SeedOrder
	Shots   *artifact.Writer
	Out     io.Writer // receives the "Test failed" line
}

// NewScenario returns the scenario as the CLI runs it.
func NewScenario(url string, shots *artifact.Writer, out io.Writer) *Scenario {
	return &Scenario{
		URL:     url,
		Seam:    DefaultSeam,
		Entries: journal.Fixtures(),
		Order:   CommitThenRender,
		Shots:   shots,
		Out:     out,
	}
}

func (s *Scenario) monthlyCard() textLocator {
	return textLocator{Container: statsContainer, Tag: "div", HasText: monthlyHeading}
}

// Run executes the scenario in the page of ctx. On failure it reports the
// error, captures an error screenshot and returns the error unchanged.
func (s *Scenario) Run(ctx context.Context) error {
	err := s.verify(ctx)
	if err == nil {
		return nil
	}
	fmt.Fprintf(s.Out, "Test failed: %v\n", err)
	if buf, shotErr := fullScreenshot(ctx); shotErr != nil {
		slog.Warn("error screenshot failed", "err", shotErr)
	} else if path, saveErr := s.Shots.Save(errorShot, buf); saveErr != nil {
		slog.Warn("error screenshot not saved", "err", saveErr)
	} else {
		slog.Info("saved error screenshot", "path", path)
	}
	return err
}

func (s *Scenario) verify(ctx context.Context) error {
	if err := navigate(ctx, s.URL); err != nil {
		return err
	}
	slog.Info("page loaded", "url", s.URL)

	tCtx, cancel := context.WithTimeout(ctx, actionTimeout)
	n, err := seedEntries(tCtx, s.Seam, s.Entries, s.Order)
	cancel()
	if err != nil {
		return err
	}
	slog.Info("seeded entries", "count", n, "store", s.Seam.Store, "order", s.Order)

	tCtx, cancel = context.WithTimeout(ctx, actionTimeout)
	err = clickByRole(tCtx, historyButton)
	cancel()
	if err != nil {
		return err
	}

	if err := expectVisible(ctx, statsContainer); err != nil {
		return err
	}
	card := s.monthlyCard()
	if err := expectLocatorVisible(ctx, card); err != nil {
		return err
	}
	for _, text := range journal.ExpectedCardText(s.Entries) {
		if err := expectContainsText(ctx, card, text); err != nil {
			return err
		}
	}
	slog.Info("monthly consistency verified", "months", len(journal.MonthlyConsistency(s.Entries)))

	buf, err := fullScreenshot(ctx)
	if err != nil {
		return err
	}
	path, err := s.Shots.Save(successShot, buf)
	if err != nil {
		return err
	}
	slog.Info("saved screenshot", "path", path)
	return nil
}
