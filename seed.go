package main

import (
	"context"
	"fmt"
	"regexp"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/athuff02/fit-2026-journal/internal/journal"
)

// Seam names the page globals the run depends on. The application declares
// them at the top level of a classic script, so they are looked up by name in
// the page's global scope rather than as window properties.
type Seam struct {
	DB      string `json:"db"`      // open IDBDatabase handle
	Store   string `json:"store"`   // object store holding entries
	Refetch string `json:"refetch"` // func(callback(entries)) reading every entry
	Render  string `json:"render"`  // func() re-rendering the statistics view
	Entries string `json:"entries"` // window property the render function reads
}

// DefaultSeam is what the journal application exposes.
var DefaultSeam = Seam{
	DB:      "db",
	Store:   "entries",
	Refetch: "getDBEntries",
	Render:  "renderStats",
	Entries: "journalEntries",
}

var jsIdent = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func (s Seam) Validate() error {
	for field, name := range map[string]string{
		"db": s.DB, "refetch": s.Refetch, "render": s.Render, "entries": s.Entries,
	} {
		if !jsIdent.MatchString(name) {
			return fmt.Errorf("seam %s: %q is not a JavaScript identifier", field, name)
		}
	}
	if s.Store == "" {
		return fmt.Errorf("seam store: name required")
	}
	return nil
}

// SeedOrder controls when the render function runs relative to the write
// transaction committing.
type SeedOrder int

const (
	// CommitThenRender re-reads and renders only after the transaction completes.
	CommitThenRender SeedOrder = iota
	// RenderThenCommit renders the stale in-memory entries before the writes
	// land and never refreshes them. Only useful to prove the ordering matters.
	RenderThenCommit
)

func (o SeedOrder) String() string {
	switch o {
	case CommitThenRender:
		return "commit-then-render"
	case RenderThenCommit:
		return "render-then-commit"
	default:
		return fmt.Sprintf("SeedOrder(%d)", int(o))
	}
}

// dbReadyJS reports whether the handle can open a transaction on store. A
// handle assigned during onupgradeneeded still has its versionchange
// transaction running and throws InvalidStateError here.
const dbReadyJS = `(name, store) => {
	try {
		const handle = (0, eval)(name);
		if (!handle || typeof handle.transaction !== "function") {
			return false;
		}
		handle.transaction([store], "readonly");
		return true;
	} catch (e) {
		return false;
	}
}`

func dbReadyArgs(s Seam) []any {
	return []any{s.DB, s.Store}
}

const seedJS = `function(records, seam, renderFirst) {
	const lookup = (name) => { try { return (0, eval)(name); } catch (e) { return undefined; } };
	const handle = lookup(seam.db);
	const refetch = lookup(seam.refetch);
	const render = lookup(seam.render);
	if (!handle || typeof handle.transaction !== "function") {
		return Promise.reject(new Error("seam " + seam.db + ": database handle is not open"));
	}
	if (typeof refetch !== "function") {
		return Promise.reject(new Error("seam " + seam.refetch + ": not a function"));
	}
	if (typeof render !== "function") {
		return Promise.reject(new Error("seam " + seam.render + ": not a function"));
	}
	return new Promise((resolve, reject) => {
		const tx = handle.transaction([seam.store], "readwrite");
		const store = tx.objectStore(seam.store);
		if (renderFirst) {
			render();
		}
		records.forEach((r) => store.put(r));
		tx.onerror = () => reject(tx.error || new Error("seed transaction failed"));
		tx.onabort = () => reject(tx.error || new Error("seed transaction aborted"));
		tx.oncomplete = () => {
			if (renderFirst) {
				resolve(records.length);
				return;
			}
			refetch((entries) => {
				window[seam.entries] = entries;
				render();
				resolve(records.length);
			});
		};
	});
}`

func awaitPromise(p *runtime.CallFunctionOnParams) *runtime.CallFunctionOnParams {
	return p.WithAwaitPromise(true).WithReturnByValue(true)
}

// seedEntries waits for the seam's database handle, writes entries in one
// transaction and, per order, re-renders the statistics view. It returns the
// number of records written.
func seedEntries(ctx context.Context, seam Seam, entries []journal.Entry, order SeedOrder) (int, error) {
	if err := seam.Validate(); err != nil {
		return 0, err
	}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return 0, err
		}
	}

	var ready bool
	if err := chromedp.Run(ctx,
		chromedp.PollFunction(dbReadyJS, &ready,
			chromedp.WithPollingArgs(dbReadyArgs(seam)...),
			chromedp.WithPollingInterval(locatorPollInterval),
			chromedp.WithPollingTimeout(expectTimeout),
		),
	); err != nil {
		return 0, fmt.Errorf("wait for %s: %w", seam.DB, err)
	}

	var written int
	if err := chromedp.Run(ctx,
		chromedp.CallFunctionOn(seedJS, &written, awaitPromise,
			entries, seam, order == RenderThenCommit),
	); err != nil {
		return 0, fmt.Errorf("seed %s: %w", seam.Store, err)
	}
	return written, nil
}
