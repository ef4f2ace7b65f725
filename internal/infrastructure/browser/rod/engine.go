package rod

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"browser-mcp/internal/application/port/output"
)

var (
	_ output.BrowserEngine = (*Engine)(nil)
	_ output.Browser       = (*Browser)(nil)
)

type Config struct {
	// Bin is the browser executable; empty lets the launcher find or fetch one.
	Bin       string
	NoSandbox bool
	// Stealth opens pages with evasions against automation fingerprinting.
	Stealth bool
	Trace   bool
}

func DefaultConfig() Config {
	return Config{NoSandbox: true}
}

type Engine struct {
	cfg    Config
	logger output.LoggerPort
}

func NewEngine(cfg Config, logger output.LoggerPort) *Engine {
	return &Engine{cfg: cfg, logger: logger}
}

func (e *Engine) launcher(opts output.LaunchOptions) *launcher.Launcher {
	l := launcher.New().
		Headless(opts.Headless).
		NoSandbox(e.cfg.NoSandbox).
		Delete("use-mock-keychain").
		Set("disable-dev-shm-usage").
		Set("disable-blink-features", "AutomationControlled")
	if e.cfg.Bin != "" {
		l = l.Bin(e.cfg.Bin)
	}
	if !opts.Headless {
		l = l.Set("window-size", "1920,1080")
	}
	if opts.Policy.Aggressive() {
		l = l.Set("blink-settings", "imagesEnabled=false").
			Set("disable-plugins").
			Set("disable-extensions")
	}
	return l
}

// Launch starts a browser process and connects to it. The process outlives
// ctx; it ends with Browser.Close.
func (e *Engine) Launch(ctx context.Context, opts output.LaunchOptions) (output.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := e.launcher(opts)

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Trace(e.cfg.Trace)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	// The viewport is set per page; rod's default device would override it.
	browser = browser.NoDefaultDevice()

	e.logger.Debug("Browser launched", "control_url", controlURL, "headless", opts.Headless, "block_level", string(opts.Policy.Level))
	return &Browser{
		browser:  browser,
		launcher: l,
		stealth:  e.cfg.Stealth,
		logger:   e.logger,
	}, nil
}

type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	stealth  bool
	logger   output.LoggerPort

	mu     sync.Mutex
	pages  []*Page
	closed bool
}

func (b *Browser) NewPage(ctx context.Context) (output.Page, error) {
	var (
		page *rod.Page
		err  error
	)
	if b.stealth {
		page, err = stealth.Page(b.browser)
	} else {
		page, err = b.browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	p := &Page{page: page, logger: b.logger}
	b.mu.Lock()
	b.pages = append(b.pages, p)
	b.mu.Unlock()
	return p, nil
}

// Close stops request interception, closes the browser and kills its
// process. Calling it twice is a no-op.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	for _, p := range b.pages {
		p.stopFilter()
	}
	err := b.browser.Close()
	b.launcher.Kill()
	b.launcher.Cleanup()
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}
