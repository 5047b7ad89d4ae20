package main

import (
	"os"
	"strings"
	"time"
)

const (
	successShot = "stats_verification.png"
	errorShot   = "error.png"
)

var (
	actionTimeout = 30 * time.Second
	expectTimeout = 5 * time.Second
)

// Config is read once from the environment at startup.
type Config struct {
	TargetURL string // page under test
	OutDir    string // screenshot directory
	CDPURL    string // empty = launch Chrome ourselves
	ChromeBin string // empty = let chromedp find Chrome
	Headless  bool
	ServeDir  string // non-empty = serve this directory instead of TargetURL
}

func loadConfig() Config {
	return Config{
		TargetURL: envOr("STATSCHECK_URL", "http://localhost:8000/index.html"),
		OutDir:    envOr("STATSCHECK_OUT_DIR", "verification"),
		CDPURL:    os.Getenv("CDP_URL"),
		ChromeBin: os.Getenv("CHROME_BIN"),
		Headless:  !strings.EqualFold(os.Getenv("STATSCHECK_HEADLESS"), "false"),
		ServeDir:  os.Getenv("STATSCHECK_SERVE_DIR"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
