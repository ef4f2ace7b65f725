package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"browser-mcp/internal/domain/entity"
	"browser-mcp/internal/domain/inspector"
	"browser-mcp/internal/infrastructure/browser/htmldoc"
)

type EvaluateTool struct{ base }

func NewEvaluateTool(d Deps) *EvaluateTool {
	return &EvaluateTool{base: d.base(entity.ToolEvaluate)}
}

func (t *EvaluateTool) Execute(ctx context.Context, args entity.Arguments) (string, error) {
	page, err := t.session.RequireOpen()
	if err != nil {
		return "", err
	}
	input, err := t.defaults.ParseEvaluate(args)
	if err != nil {
		return "", err
	}
	return page.Evaluate(ctx, input.Code)
}

type GetContentTool struct{ base }

func NewGetContentTool(d Deps) *GetContentTool {
	return &GetContentTool{base: d.base(entity.ToolGetContent)}
}

func (t *GetContentTool) Execute(ctx context.Context, args entity.Arguments) (string, error) {
	page, err := t.session.RequireOpen()
	if err != nil {
		return "", err
	}
	input, err := t.defaults.ParseGetContent(args)
	if err != nil {
		return "", err
	}
	text, err := page.InnerText(ctx, input.Selector)
	if err != nil {
		return "", err
	}
	return truncateRunes(text, input.Limit), nil
}

type GetHTMLTool struct{ base }

func NewGetHTMLTool(d Deps) *GetHTMLTool {
	return &GetHTMLTool{base: d.base(entity.ToolGetHTML)}
}

func (t *GetHTMLTool) Execute(ctx context.Context, args entity.Arguments) (string, error) {
	page, err := t.session.RequireOpen()
	if err != nil {
		return "", err
	}
	input, err := t.defaults.ParseGetHTML(args)
	if err != nil {
		return "", err
	}
	raw, err := page.HTML(ctx, input.Selector)
	if err != nil {
		return "", err
	}
	opts := htmldoc.DefaultCleanOptions
	opts.Limit = input.Limit
	return htmldoc.Clean(raw, opts)
}

type InspectElementsTool struct {
	base
	document DocumentLoader
}

func NewInspectElementsTool(d Deps) *InspectElementsTool {
	return &InspectElementsTool{base: d.base(entity.ToolInspectElements), document: loader(d)}
}

func (t *InspectElementsTool) Execute(ctx context.Context, args entity.Arguments) (string, error) {
	page, err := t.session.RequireOpen()
	if err != nil {
		return "", err
	}
	input, err := t.defaults.ParseInspect(args)
	if err != nil {
		return "", err
	}
	doc, err := t.document(ctx, page)
	if err != nil {
		return "", err
	}
	found, err := inspector.Inspect(doc, inspector.InspectOptions{
		SearchTerm: input.SearchTerm,
		Types:      input.Types,
		Limit:      input.Limit,
	})
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(found, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode elements: %w", err)
	}
	return fmt.Sprintf("Found %d:\n%s", len(found), data), nil
}

type GetEventsTool struct {
	base
	document DocumentLoader
}

func NewGetEventsTool(d Deps) *GetEventsTool {
	return &GetEventsTool{base: d.base(entity.ToolGetEvents), document: loader(d)}
}

func (t *GetEventsTool) Execute(ctx context.Context, args entity.Arguments) (string, error) {
	page, err := t.session.RequireOpen()
	if err != nil {
		return "", err
	}
	input, err := t.defaults.ParseGetEvents(args)
	if err != nil {
		return "", err
	}
	doc, err := t.document(ctx, page)
	if err != nil {
		return "", err
	}
	events, err := inspector.ExtractEvents(doc, input.ContainerSelector, input.Limit)
	if err != nil {
		return "", err
	}
	if len(events) == 0 {
		return "No events found", nil
	}
	return inspector.FormatEvents(events), nil
}

func loader(d Deps) DocumentLoader {
	if d.Document == nil {
		return LiveDocument
	}
	return d.Document
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
