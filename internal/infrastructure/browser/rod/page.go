package rod

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"browser-mcp/internal/application/port/output"
	"browser-mcp/internal/domain/entity"
	"browser-mcp/internal/domain/inspector"
)

var _ output.Page = (*Page)(nil)

const (
	// evalWrapper runs caller code and turns an exception, sync or async,
	// into an {error} value.
	evalWrapper = `async (code) => {
		try {
			return await eval(code);
		} catch (e) {
			return { error: e && e.message !== undefined ? e.message : String(e) };
		}
	}`

	domContentLoaded = `() => new Promise((resolve) => {
		if (document.readyState !== 'loading') {
			resolve();
			return;
		}
		document.addEventListener('DOMContentLoaded', () => resolve(), { once: true });
	})`
)

type Page struct {
	page   *rod.Page
	logger output.LoggerPort

	mu     sync.Mutex
	router *rod.HijackRouter
}

func (p *Page) SetUserAgent(ctx context.Context, userAgent string) error {
	return p.page.Context(ctx).SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: userAgent})
}

func (p *Page) SetViewport(ctx context.Context, viewport entity.Viewport) error {
	return p.page.Context(ctx).SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewport.Width,
		Height:            viewport.Height,
		DeviceScaleFactor: 1,
	})
}

// InstallResourceFilter hijacks every request of the page. Requests whose
// resource type the policy rejects fail as blocked-by-client.
func (p *Page) InstallResourceFilter(policy entity.ResourcePolicy) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.router != nil {
		return nil
	}

	router := p.page.HijackRequests()
	err := router.Add("*", "", func(h *rod.Hijack) {
		category := string(h.Request.Type())
		if !policy.Allows(category) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})
	if err != nil {
		return fmt.Errorf("failed to register request filter: %w", err)
	}
	go router.Run()
	p.router = router
	return nil
}

func (p *Page) stopFilter() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.router == nil {
		return
	}
	if err := p.router.Stop(); err != nil {
		p.logger.Debug("Request filter stop failed", "error", err)
	}
	p.router = nil
}

func (p *Page) Navigate(ctx context.Context, url, waitUntil string, timeout time.Duration) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	page := p.page.Context(tctx)

	var waitIdle func()
	switch waitUntil {
	case "networkidle0":
		waitIdle = page.WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	case "networkidle2":
		waitIdle = page.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	}

	if err := page.Navigate(url); err != nil {
		return navigationError(url, err)
	}

	var err error
	switch waitUntil {
	case "load":
		err = page.WaitLoad()
	case "networkidle0", "networkidle2":
		waitIdle()
		err = tctx.Err()
	default:
		_, err = page.Eval(domContentLoaded)
	}
	if err != nil {
		return navigationError(url, fmt.Errorf("waiting for %s: %w", waitUntil, err))
	}
	return nil
}

func (p *Page) Title(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

func (p *Page) URL(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (p *Page) WaitForSelector(ctx context.Context, selector string, visible bool, timeout time.Duration) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := p.page.Context(tctx).Element(selector)
	if err == nil && visible {
		err = el.WaitVisible()
	}
	if err != nil {
		return waitError(selector, timeout, err)
	}
	return nil
}

func (p *Page) Click(ctx context.Context, selector string, timeout time.Duration) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := p.visibleElement(tctx, selector, timeout)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

// Type replaces the element's content with text, one keystroke per rune.
// Printable ASCII goes through key events; anything else is inserted as
// composed text.
func (p *Page) Type(ctx context.Context, selector, text string, delay, timeout time.Duration) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := p.visibleElement(tctx, selector, timeout)
	if err != nil {
		return err
	}
	if err := el.Focus(); err != nil {
		return fmt.Errorf("focus %s: %w", selector, err)
	}
	if err := p.clear(el); err != nil {
		return fmt.Errorf("clear %s: %w", selector, err)
	}

	page := p.page.Context(ctx)
	for i, r := range text {
		if i > 0 && delay > 0 {
			if err := pause(ctx, delay); err != nil {
				return err
			}
		}
		if r >= 0x20 && r < 0x7f {
			err = page.Keyboard.Type(input.Key(r))
		} else {
			err = page.InsertText(string(r))
		}
		if err != nil {
			return fmt.Errorf("type into %s: %w", selector, err)
		}
	}
	return nil
}

// clear selects the focused element's content and deletes it. Elements
// without a text selection API, like contenteditable hosts, get Ctrl+A.
func (p *Page) clear(el *rod.Element) error {
	if err := el.SelectAllText(); err != nil {
		if err := p.page.KeyActions().Press(input.ControlLeft).Type(input.KeyA).Do(); err != nil {
			return err
		}
	}
	return p.page.Keyboard.Type(input.Backspace)
}

func (p *Page) WaitForResponse(ctx context.Context, urlPattern string, timeout time.Duration) (*entity.ResponseInfo, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var got *entity.ResponseInfo
	wait := p.page.Context(tctx).EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Response == nil || !strings.Contains(e.Response.URL, urlPattern) {
			return false
		}
		got = &entity.ResponseInfo{URL: e.Response.URL, Status: e.Response.Status}
		return true
	})
	wait()

	if got == nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: no response matching %q within %s", entity.ErrTimeout, urlPattern, timeout)
	}
	return got, nil
}

func (p *Page) Evaluate(ctx context.Context, code string) (string, error) {
	res, err := p.page.Context(ctx).Evaluate(rod.Eval(evalWrapper, code).ByPromise())
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrEvaluation, err)
	}
	if res.Type == proto.RuntimeRemoteObjectTypeUndefined {
		return "undefined", nil
	}
	return res.Value.JSON("", "  "), nil
}

func (p *Page) InnerText(ctx context.Context, selector string) (string, error) {
	el, err := p.find(ctx, selector)
	if err != nil {
		return "", err
	}
	return el.Text()
}

func (p *Page) HTML(ctx context.Context, selector string) (string, error) {
	if selector == "" {
		return p.page.Context(ctx).HTML()
	}
	el, err := p.find(ctx, selector)
	if err != nil {
		return "", err
	}
	return el.HTML()
}

func (p *Page) Document(ctx context.Context) (inspector.Document, error) {
	return &liveDocument{page: p.page.Context(ctx)}, nil
}

func (p *Page) Screenshot(ctx context.Context, opts entity.ScreenshotOptions) ([]byte, error) {
	req := &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng}
	if opts.Format == entity.ScreenshotJPEG {
		req.Format = proto.PageCaptureScreenshotFormatJpeg
		req.Quality = gson.Int(opts.Quality)
	}
	data, err := p.page.Context(ctx).Screenshot(opts.FullPage, req)
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return data, nil
}

// find returns the first match of selector without waiting. An empty
// selector means the body.
func (p *Page) find(ctx context.Context, selector string) (*rod.Element, error) {
	if selector == "" {
		selector = "body"
	}
	has, el, err := p.page.Context(ctx).Has(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrElementNotFound, selector, err)
	}
	if !has {
		return nil, fmt.Errorf("%w: %s", entity.ErrElementNotFound, selector)
	}
	return el, nil
}

func (p *Page) visibleElement(ctx context.Context, selector string, timeout time.Duration) (*rod.Element, error) {
	el, err := p.page.Context(ctx).Element(selector)
	if err == nil {
		err = el.WaitVisible()
	}
	if err != nil {
		if isDeadline(err) {
			return nil, fmt.Errorf("%w: %s not visible within %s", entity.ErrElementNotFound, selector, timeout)
		}
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrElementNotFound, selector, err)
	}
	return el, nil
}

func navigationError(url string, err error) error {
	return fmt.Errorf("%w: %s: %v", entity.ErrNavigationFailure, url, err)
}

func waitError(selector string, timeout time.Duration, err error) error {
	if isDeadline(err) {
		return fmt.Errorf("%w: waiting for %s after %s", entity.ErrTimeout, selector, timeout)
	}
	return fmt.Errorf("%w: %s: %v", entity.ErrElementNotFound, selector, err)
}

func isDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

func pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
