package tool

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"browser-mcp/internal/domain/entity"
)

type NavigateTool struct{ base }

func NewNavigateTool(d Deps) *NavigateTool {
	return &NavigateTool{base: d.base(entity.ToolNavigate)}
}

func (t *NavigateTool) Execute(ctx context.Context, args entity.Arguments) (string, error) {
	page, err := t.session.RequireOpen()
	if err != nil {
		return "", err
	}
	input, err := t.defaults.ParseNavigate(args)
	if err != nil {
		return "", err
	}
	if err := page.Navigate(ctx, input.URL, input.WaitUntil, input.Timeout); err != nil {
		return "", err
	}

	url := input.URL
	if current, err := page.URL(ctx); err == nil && current != "" {
		url = current
	}
	title, err := page.Title(ctx)
	if err != nil {
		t.logger.Debug("Could not read page title", "error", err)
	}
	if title == "" {
		return fmt.Sprintf("Navigated to %s", url), nil
	}
	return fmt.Sprintf("Navigated to %s (title: %s)", url, title), nil
}

type ClickTool struct{ base }

func NewClickTool(d Deps) *ClickTool {
	return &ClickTool{base: d.base(entity.ToolClick)}
}

func (t *ClickTool) Execute(ctx context.Context, args entity.Arguments) (string, error) {
	page, err := t.session.RequireOpen()
	if err != nil {
		return "", err
	}
	input, err := t.defaults.ParseClick(args)
	if err != nil {
		return "", err
	}
	if err := page.Click(ctx, input.Selector, input.Timeout); err != nil {
		return "", err
	}
	return fmt.Sprintf("Clicked %s", input.Selector), nil
}

type TypeTool struct{ base }

func NewTypeTool(d Deps) *TypeTool {
	return &TypeTool{base: d.base(entity.ToolType)}
}

func (t *TypeTool) Execute(ctx context.Context, args entity.Arguments) (string, error) {
	page, err := t.session.RequireOpen()
	if err != nil {
		return "", err
	}
	input, err := t.defaults.ParseType(args)
	if err != nil {
		return "", err
	}
	if err := page.Type(ctx, input.Selector, input.Text, input.Delay, input.Timeout); err != nil {
		return "", err
	}
	return fmt.Sprintf("Typed %d characters into %s", utf8.RuneCountInString(input.Text), input.Selector), nil
}

type WaitForSelectorTool struct{ base }

func NewWaitForSelectorTool(d Deps) *WaitForSelectorTool {
	return &WaitForSelectorTool{base: d.base(entity.ToolWaitForSelector)}
}

func (t *WaitForSelectorTool) Execute(ctx context.Context, args entity.Arguments) (string, error) {
	page, err := t.session.RequireOpen()
	if err != nil {
		return "", err
	}
	input, err := t.defaults.ParseWaitForSelector(args)
	if err != nil {
		return "", err
	}
	if err := page.WaitForSelector(ctx, input.Selector, input.Visible, input.Timeout); err != nil {
		return "", err
	}
	return fmt.Sprintf("Found %s", input.Selector), nil
}

type WaitForResponseTool struct{ base }

func NewWaitForResponseTool(d Deps) *WaitForResponseTool {
	return &WaitForResponseTool{base: d.base(entity.ToolWaitForResponse)}
}

func (t *WaitForResponseTool) Execute(ctx context.Context, args entity.Arguments) (string, error) {
	page, err := t.session.RequireOpen()
	if err != nil {
		return "", err
	}
	input, err := t.defaults.ParseWaitForResponse(args)
	if err != nil {
		return "", err
	}
	resp, err := page.WaitForResponse(ctx, input.URLPattern, input.Timeout)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Response %d from %s", resp.Status, resp.URL), nil
}

type WaitForTimeoutTool struct {
	base
	sleep func(ctx context.Context, d time.Duration) error
}

func NewWaitForTimeoutTool(d Deps) *WaitForTimeoutTool {
	pause := d.Sleep
	if pause == nil {
		pause = sleep
	}
	return &WaitForTimeoutTool{base: d.base(entity.ToolWaitForTimeout), sleep: pause}
}

func (t *WaitForTimeoutTool) Execute(ctx context.Context, args entity.Arguments) (string, error) {
	if _, err := t.session.RequireOpen(); err != nil {
		return "", err
	}
	input, err := t.defaults.ParseWaitForTimeout(args)
	if err != nil {
		return "", err
	}
	if err := t.sleep(ctx, input.Duration); err != nil {
		return "", err
	}
	return fmt.Sprintf("Waited %dms", input.Duration.Milliseconds()), nil
}
