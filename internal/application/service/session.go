package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"browser-mcp/internal/application/catalog"
	"browser-mcp/internal/application/port/output"
	"browser-mcp/internal/domain/entity"
)

type SessionConfig struct {
	UserAgent       string
	Viewport        entity.Viewport
	Policy          entity.ResourcePolicy
	WaitUntil       string
	NavigateTimeout time.Duration
}

func SessionConfigFrom(d catalog.Defaults) SessionConfig {
	return SessionConfig{
		UserAgent:       d.UserAgent,
		Viewport:        d.Viewport(),
		Policy:          d.ResourcePolicy(),
		WaitUntil:       d.NavigateWaitUntil,
		NavigateTimeout: d.NavigateTimeout(),
	}
}

// SessionManager owns the single browser/page pair of the process. It is
// either Closed (browser and page nil) or Open (both set). Launch and Close
// are serialized by the Dispatcher; mu only guards reads from elsewhere.
type SessionManager struct {
	engine output.BrowserEngine
	cfg    SessionConfig
	logger output.LoggerPort

	mu      sync.RWMutex
	id      string
	browser output.Browser
	page    output.Page
}

func NewSessionManager(engine output.BrowserEngine, cfg SessionConfig, logger output.LoggerPort) *SessionManager {
	return &SessionManager{
		engine: engine,
		cfg:    cfg,
		logger: logger,
	}
}

// Launch replaces any open session with a fresh one. A failure anywhere,
// including closing the previous browser, leaves the manager Closed.
func (s *SessionManager) Launch(ctx context.Context, req catalog.LaunchArgs) (string, error) {
	if err := s.Close(ctx); err != nil {
		return "", fmt.Errorf("close previous browser: %w", err)
	}

	browser, err := s.engine.Launch(ctx, output.LaunchOptions{
		Headless: req.Headless,
		Policy:   s.cfg.Policy,
	})
	if err != nil {
		return "", fmt.Errorf("launch browser: %w", err)
	}

	page, err := s.preparePage(ctx, browser)
	if err != nil {
		if closeErr := browser.Close(); closeErr != nil {
			s.logger.Warn("Failed to close browser after launch error", "error", closeErr)
		}
		return "", err
	}

	if req.URL != "" {
		if err := page.Navigate(ctx, req.URL, s.cfg.WaitUntil, s.cfg.NavigateTimeout); err != nil {
			if closeErr := browser.Close(); closeErr != nil {
				s.logger.Warn("Failed to close browser after navigation error", "error", closeErr)
			}
			return "", err
		}
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.id, s.browser, s.page = id, browser, page
	s.mu.Unlock()
	s.logger.Info("Session launched", "session", id, "headless", req.Headless, "url", req.URL)

	if req.URL != "" {
		return "Launched at " + req.URL, nil
	}
	return "Launched", nil
}

func (s *SessionManager) preparePage(ctx context.Context, browser output.Browser) (output.Page, error) {
	page, err := browser.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.SetUserAgent(ctx, s.cfg.UserAgent); err != nil {
		return nil, fmt.Errorf("set user agent: %w", err)
	}
	if err := page.SetViewport(ctx, s.cfg.Viewport); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	if err := page.InstallResourceFilter(s.cfg.Policy); err != nil {
		return nil, fmt.Errorf("install resource filter: %w", err)
	}
	return page, nil
}

func (s *SessionManager) RequireOpen() (output.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.page == nil {
		return nil, entity.ErrNotLaunched
	}
	return s.page, nil
}

// Close tears the session down. Closing a Closed manager is a no-op. The
// manager ends up Closed even when the browser reports an error.
func (s *SessionManager) Close(ctx context.Context) error {
	s.mu.Lock()
	id, browser := s.id, s.browser
	s.id, s.browser, s.page = "", nil, nil
	s.mu.Unlock()
	if browser == nil {
		return nil
	}

	if err := browser.Close(); err != nil {
		s.logger.Error("Session close failed", "session", id, "error", err)
		return err
	}
	s.logger.Info("Session closed", "session", id)
	return nil
}

func (s *SessionManager) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.browser != nil
}

// ID identifies the current session; it changes on every launch and is
// empty while Closed.
func (s *SessionManager) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}
