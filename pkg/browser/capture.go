package browser

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jmylchreest/docpull/internal/logger"
)

var unsafeLabel = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// CaptureName makes label safe for use as a file name.
func CaptureName(label string) string {
	name := strings.Trim(unsafeLabel.ReplaceAllString(label, "_"), "_.")
	if name == "" {
		name = "page"
	}
	return name
}

// Capture writes the page markup to dir/<label>.html and a full-page
// screenshot to dir/<label>.png. Failures are logged and never returned.
func Capture(ctx context.Context, p Page, dir, label string) {
	if dir == "" {
		return
	}
	// Use a short timeout; the page may already be in a bad state.
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("failed to create debug directory", "dir", dir, "error", err)
		return
	}
	base := filepath.Join(dir, CaptureName(label))

	if html, err := p.HTML(ctx); err != nil {
		logger.Warn("failed to capture debug HTML", "url", p.URL(), "error", err)
	} else if err := os.WriteFile(base+".html", []byte(html), 0o644); err != nil {
		logger.Warn("failed to save debug HTML", "path", base+".html", "error", err)
	} else {
		logger.Info("debug HTML saved", "path", base+".html")
	}

	if png, err := p.Screenshot(ctx); err != nil {
		logger.Warn("failed to capture debug screenshot", "url", p.URL(), "error", err)
	} else if err := os.WriteFile(base+".png", png, 0o644); err != nil {
		logger.Warn("failed to save debug screenshot", "path", base+".png", "error", err)
	} else {
		logger.Info("debug screenshot saved", "path", base+".png")
	}
}
