// Package render produces page snapshot artifacts with a headless
// browser. One browser process is shared across renders; each render
// runs in its own tab with a bounded deadline.
package render

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"pagesnap/internal/logging"
	"pagesnap/internal/page"
)

const (
	// DefaultTimeout bounds a single render from navigation to capture.
	DefaultTimeout = 8 * time.Second

	// DefaultWidth and DefaultHeight fix the viewport all artifacts are
	// rendered at.
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// Config controls browser launch and render behavior. Zero values fall
// back to the package defaults.
type Config struct {
	// BrowserBin overrides the browser executable path. Empty lets the
	// launcher resolve or download one.
	BrowserBin string
	Timeout    time.Duration
	Width      int
	Height     int
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	return c
}

// Renderer renders websites into snapshot artifacts.
type Renderer struct {
	cfg      Config
	launcher *launcher.Launcher
	browser  *rod.Browser
	logger   *logging.Logger
}

// New launches a headless browser and connects to it.
func New(cfg Config, logger *logging.Logger) (*Renderer, error) {
	cfg = cfg.withDefaults()

	l := launcher.New().
		Headless(true).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-dev-shm-usage")
	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}

	browserURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	logger.Info("browser ready", "timeout", cfg.Timeout.String(), "viewport", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))

	return &Renderer{
		cfg:      cfg,
		launcher: l,
		browser:  browser,
		logger:   logger,
	}, nil
}

// Render navigates to site in a fresh tab and captures it as the given
// artifact type. The whole operation is bounded by the configured
// timeout in addition to the caller's context.
func (r *Renderer) Render(ctx context.Context, site string, pageType page.Type) ([]byte, error) {
	tab, err := r.browser.Page(proto.TargetCreateTarget{URL: site})
	if err != nil {
		return nil, fmt.Errorf("failed to open page %s: %w", site, err)
	}
	defer func() {
		if err := tab.Close(); err != nil {
			r.logger.Warn("failed to close tab", "site", site, "error", err)
		}
	}()

	tab = tab.Context(ctx).Timeout(r.cfg.Timeout)

	if err := tab.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             r.cfg.Width,
		Height:            r.cfg.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	if err := tab.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", site, err)
	}

	if pageType == page.TypePDF {
		return r.capturePDF(tab)
	}
	return r.captureScreenshot(tab, pageType)
}

func (r *Renderer) capturePDF(tab *rod.Page) ([]byte, error) {
	stream, err := tab.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to print pdf: %w", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf stream: %w", err)
	}
	return data, nil
}

func (r *Renderer) captureScreenshot(tab *rod.Page, pageType page.Type) ([]byte, error) {
	fullPage, req, err := screenshotRequest(pageType)
	if err != nil {
		return nil, err
	}
	data, err := tab.Screenshot(fullPage, req)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return data, nil
}

// screenshotRequest builds the capture parameters for an image type.
// Captures cover the whole document, not just the visible viewport.
func screenshotRequest(pageType page.Type) (bool, *proto.PageCaptureScreenshot, error) {
	format, err := screenshotFormat(pageType)
	if err != nil {
		return false, nil, err
	}
	return true, &proto.PageCaptureScreenshot{Format: format}, nil
}

func screenshotFormat(pageType page.Type) (proto.PageCaptureScreenshotFormat, error) {
	switch pageType {
	case page.TypePNG:
		return proto.PageCaptureScreenshotFormatPng, nil
	case page.TypeJPEG:
		return proto.PageCaptureScreenshotFormatJpeg, nil
	case page.TypeWEBP:
		return proto.PageCaptureScreenshotFormatWebp, nil
	default:
		return "", fmt.Errorf("unsupported screenshot type: %s", pageType)
	}
}

// Close shuts the browser down, honoring the context deadline.
func (r *Renderer) Close(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		done <- r.browser.Close()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
