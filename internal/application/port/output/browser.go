package output

import (
	"context"
	"time"

	"browser-mcp/internal/domain/entity"
	"browser-mcp/internal/domain/inspector"
)

type LaunchOptions struct {
	Headless bool
	Policy   entity.ResourcePolicy
}

// BrowserEngine starts browser processes.
type BrowserEngine interface {
	Launch(ctx context.Context, opts LaunchOptions) (Browser, error)
}

type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is the single active tab of a session. All waits are bounded by the
// given timeout and report entity.ErrTimeout when it elapses.
type Page interface {
	SetUserAgent(ctx context.Context, userAgent string) error
	SetViewport(ctx context.Context, viewport entity.Viewport) error
	// InstallResourceFilter intercepts every request of the page for its
	// whole lifetime and aborts the categories the policy rejects.
	InstallResourceFilter(policy entity.ResourcePolicy) error

	Navigate(ctx context.Context, url, waitUntil string, timeout time.Duration) error
	Title(ctx context.Context) (string, error)
	URL(ctx context.Context) (string, error)

	WaitForSelector(ctx context.Context, selector string, visible bool, timeout time.Duration) error
	Click(ctx context.Context, selector string, timeout time.Duration) error
	Type(ctx context.Context, selector, text string, delay, timeout time.Duration) error
	WaitForResponse(ctx context.Context, urlPattern string, timeout time.Duration) (*entity.ResponseInfo, error)

	// Evaluate runs trusted caller code in the page and returns the value as
	// JSON text. An exception thrown by the code comes back as the JSON
	// object {"error": message}, not as an error.
	Evaluate(ctx context.Context, code string) (string, error)

	// InnerText reads the visible text of the first match of selector, or of
	// the body when selector is empty.
	InnerText(ctx context.Context, selector string) (string, error)
	// HTML returns the outer HTML of the first match of selector, or of the
	// whole document when selector is empty.
	HTML(ctx context.Context, selector string) (string, error)
	Document(ctx context.Context) (inspector.Document, error)

	Screenshot(ctx context.Context, opts entity.ScreenshotOptions) ([]byte, error)
}
