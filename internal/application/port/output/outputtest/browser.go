// Package outputtest provides in-memory implementations of the output ports
// for tests of the application and adapter layers.
package outputtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"browser-mcp/internal/application/port/output"
	"browser-mcp/internal/domain/entity"
	"browser-mcp/internal/domain/inspector"
	"browser-mcp/internal/infrastructure/browser/htmldoc"
)

var (
	_ output.BrowserEngine = (*Engine)(nil)
	_ output.Browser       = (*Browser)(nil)
	_ output.Page          = (*Page)(nil)
)

// Engine hands out Browsers whose single page is built by NewPage.
type Engine struct {
	mu        sync.Mutex
	LaunchErr error
	// NewPage, when set, builds the page of every launched browser.
	NewPage  func() *Page
	Browsers []*Browser
	Options  []output.LaunchOptions
}

func (e *Engine) Launch(ctx context.Context, opts output.LaunchOptions) (output.Browser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Options = append(e.Options, opts)
	if e.LaunchErr != nil {
		return nil, e.LaunchErr
	}
	page := NewPage()
	if e.NewPage != nil {
		page = e.NewPage()
	}
	b := &Browser{Page: page}
	e.Browsers = append(e.Browsers, b)
	return b, nil
}

// Last returns the most recently launched browser or nil.
func (e *Engine) Last() *Browser {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Browsers) == 0 {
		return nil
	}
	return e.Browsers[len(e.Browsers)-1]
}

type Browser struct {
	Page       *Page
	PageErr    error
	CloseErr   error
	CloseCalls int
}

func (b *Browser) NewPage(ctx context.Context) (output.Page, error) {
	if b.PageErr != nil {
		return nil, b.PageErr
	}
	return b.Page, nil
}

func (b *Browser) Close() error {
	b.CloseCalls++
	return b.CloseErr
}

func (b *Browser) Closed() bool {
	return b.CloseCalls > 0
}

// Page records every call and answers from its fields. Errs maps a method
// name ("Navigate", "Click", ...) to the error that method returns.
type Page struct {
	mu sync.Mutex

	PageURL   string
	PageTitle string
	// Body is the document served by HTML and Document.
	Body string
	// Texts maps selectors to InnerText answers; "" is the body text.
	Texts     map[string]string
	EvalValue string
	Response  *entity.ResponseInfo
	Image     []byte
	Errs      map[string]error

	UserAgent string
	Viewport  entity.Viewport
	Policy    *entity.ResourcePolicy
	Calls     []string
	Typed     map[string]string
	Shots     []entity.ScreenshotOptions
}

func NewPage() *Page {
	return &Page{
		PageURL: "about:blank",
		Body:    "<html><body></body></html>",
		Texts:   map[string]string{},
		Errs:    map[string]error{},
		Typed:   map[string]string{},
	}
}

func (p *Page) record(method string, detail ...any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	call := method
	if len(detail) > 0 {
		call = fmt.Sprintf("%s %v", method, detail)
	}
	p.Calls = append(p.Calls, call)
	return p.Errs[method]
}

// Called reports whether method was invoked at least once.
func (p *Page) Called(method string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.Calls {
		if c == method || len(c) > len(method) && c[:len(method)+1] == method+" " {
			return true
		}
	}
	return false
}

func (p *Page) SetUserAgent(ctx context.Context, userAgent string) error {
	p.UserAgent = userAgent
	return p.record("SetUserAgent")
}

func (p *Page) SetViewport(ctx context.Context, viewport entity.Viewport) error {
	p.Viewport = viewport
	return p.record("SetViewport")
}

func (p *Page) InstallResourceFilter(policy entity.ResourcePolicy) error {
	p.Policy = &policy
	return p.record("InstallResourceFilter")
}

func (p *Page) Navigate(ctx context.Context, url, waitUntil string, timeout time.Duration) error {
	if err := p.record("Navigate", url, waitUntil, timeout); err != nil {
		return err
	}
	p.PageURL = url
	return nil
}

func (p *Page) Title(ctx context.Context) (string, error) {
	return p.PageTitle, p.record("Title")
}

func (p *Page) URL(ctx context.Context) (string, error) {
	return p.PageURL, p.record("URL")
}

func (p *Page) WaitForSelector(ctx context.Context, selector string, visible bool, timeout time.Duration) error {
	return p.record("WaitForSelector", selector, visible, timeout)
}

func (p *Page) Click(ctx context.Context, selector string, timeout time.Duration) error {
	return p.record("Click", selector, timeout)
}

func (p *Page) Type(ctx context.Context, selector, text string, delay, timeout time.Duration) error {
	if err := p.record("Type", selector, delay, timeout); err != nil {
		return err
	}
	p.Typed[selector] = text
	return nil
}

func (p *Page) WaitForResponse(ctx context.Context, urlPattern string, timeout time.Duration) (*entity.ResponseInfo, error) {
	if err := p.record("WaitForResponse", urlPattern, timeout); err != nil {
		return nil, err
	}
	if p.Response == nil {
		return &entity.ResponseInfo{URL: urlPattern, Status: 200}, nil
	}
	return p.Response, nil
}

func (p *Page) Evaluate(ctx context.Context, code string) (string, error) {
	return p.EvalValue, p.record("Evaluate")
}

func (p *Page) InnerText(ctx context.Context, selector string) (string, error) {
	if err := p.record("InnerText", selector); err != nil {
		return "", err
	}
	text, ok := p.Texts[selector]
	if !ok {
		return "", fmt.Errorf("%w: %s", entity.ErrElementNotFound, selector)
	}
	return text, nil
}

func (p *Page) HTML(ctx context.Context, selector string) (string, error) {
	if err := p.record("HTML", selector); err != nil {
		return "", err
	}
	if selector == "" {
		return p.Body, nil
	}
	doc, err := htmldoc.Parse(p.Body)
	if err != nil {
		return "", err
	}
	return doc.OuterHTML(selector)
}

func (p *Page) Document(ctx context.Context) (inspector.Document, error) {
	if err := p.record("Document"); err != nil {
		return nil, err
	}
	return htmldoc.Parse(p.Body)
}

func (p *Page) Screenshot(ctx context.Context, opts entity.ScreenshotOptions) ([]byte, error) {
	if err := p.record("Screenshot"); err != nil {
		return nil, err
	}
	p.Shots = append(p.Shots, opts)
	return p.Image, nil
}
