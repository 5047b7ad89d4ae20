package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
)

// textLocator selects the descendants of Container with tag Tag whose text
// contains HasText.
type textLocator struct {
	Container string
	Tag       string
	HasText   string
}

func (l textLocator) String() string {
	return fmt.Sprintf("%s >> %s:has-text(%q)", l.Container, l.Tag, l.HasText)
}

// resolveLocatorJS is the body prefix shared by the locator functions below.
// Polled functions return primitives so the result survives without
// returnByValue.
const resolveLocatorJS = `
	const root = document.querySelector(container);
	const hits = root ? [...root.querySelectorAll(tag)].filter((el) => el.textContent.includes(hasText)) : [];
	const rendered = (el) => {
		const r = el.getBoundingClientRect();
		return r.width > 0 && r.height > 0 && getComputedStyle(el).visibility !== "hidden";
	};
`

const locatorVisibleJS = `(container, tag, hasText) => {` + resolveLocatorJS + `
	if (hits.length > 1 || (hits.length === 1 && rendered(hits[0]))) {
		return hits.length;
	}
	return 0;
}`

// locatorContainsJS returns 1 once the single match contains needle, the
// match count when the locator is ambiguous, and 0 otherwise.
const locatorContainsJS = `(container, tag, hasText, needle) => {` + resolveLocatorJS + `
	if (hits.length > 1) {
		return hits.length;
	}
	return hits.length === 1 && hits[0].textContent.includes(needle) ? 1 : 0;
}`

const locatorTextJS = `(container, tag, hasText) => {` + resolveLocatorJS + `
	return hits.map((el) => el.textContent).join(" | ");
}`

// expectVisible waits up to expectTimeout for the element matching sel to be
// visible.
func expectVisible(ctx context.Context, sel string) error {
	tCtx, cancel := context.WithTimeout(ctx, expectTimeout)
	defer cancel()
	if err := chromedp.Run(tCtx, chromedp.WaitVisible(sel, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("expect %s to be visible: %w", sel, err)
	}
	return nil
}

// expectLocatorVisible waits for l to resolve to exactly one visible element.
func expectLocatorVisible(ctx context.Context, l textLocator) error {
	var count int
	err := chromedp.Run(ctx,
		chromedp.PollFunction(locatorVisibleJS, &count,
			chromedp.WithPollingArgs(l.Container, l.Tag, l.HasText),
			chromedp.WithPollingInterval(locatorPollInterval),
			chromedp.WithPollingTimeout(expectTimeout),
		),
	)
	if err != nil {
		return fmt.Errorf("expect %s to be visible: %w", l, err)
	}
	return strictCount(l, count, "to be visible")
}

// strictCount turns a polled match count into errStrictMode when the locator
// resolved to more than one element.
func strictCount(l textLocator, count int, what string) error {
	if count > 1 {
		return fmt.Errorf("expect %s %s: resolved to %d elements: %w", l, what, count, errStrictMode)
	}
	return nil
}

// expectContainsText waits for the single element matching l to contain
// needle. On timeout the error carries the text that was actually rendered.
func expectContainsText(ctx context.Context, l textLocator, needle string) error {
	var count int
	err := chromedp.Run(ctx,
		chromedp.PollFunction(locatorContainsJS, &count,
			chromedp.WithPollingArgs(l.Container, l.Tag, l.HasText, needle),
			chromedp.WithPollingInterval(locatorPollInterval),
			chromedp.WithPollingTimeout(expectTimeout),
		),
	)
	if err == nil {
		return strictCount(l, count, fmt.Sprintf("to contain %q", needle))
	}
	if !errors.Is(err, chromedp.ErrPollingTimeout) {
		return fmt.Errorf("expect %s to contain %q: %w", l, needle, err)
	}
	var actual string
	_ = chromedp.Run(ctx,
		chromedp.CallFunctionOn(locatorTextJS, &actual, awaitPromise, l.Container, l.Tag, l.HasText),
	)
	return fmt.Errorf("expect %s to contain %q, got %q: %w",
		l, needle, strings.TrimSpace(actual), err)
}
