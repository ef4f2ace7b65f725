// Package tool implements one ToolPort per advertised browser operation.
package tool

import (
	"context"
	"time"

	"browser-mcp/internal/application/catalog"
	"browser-mcp/internal/application/port/output"
	"browser-mcp/internal/domain/entity"
	"browser-mcp/internal/domain/inspector"
)

// Session is the part of the session manager the tools depend on.
type Session interface {
	Launch(ctx context.Context, args catalog.LaunchArgs) (string, error)
	RequireOpen() (output.Page, error)
	Close(ctx context.Context) error
}

// DocumentLoader produces the DOM the inspector heuristics run against.
type DocumentLoader func(ctx context.Context, page output.Page) (inspector.Document, error)

// LiveDocument queries the page itself.
func LiveDocument(ctx context.Context, page output.Page) (inspector.Document, error) {
	return page.Document(ctx)
}

type base struct {
	name     entity.ToolName
	session  Session
	defaults catalog.Defaults
	logger   output.LoggerPort
}

func (b base) Name() entity.ToolName { return b.name }
func (b base) Description() string   { return catalog.Description(b.name) }
func (b base) Parameters() map[string]interface{} {
	return b.defaults.Parameters(b.name)
}

// Deps bundles what every tool is built from.
type Deps struct {
	Session  Session
	Defaults catalog.Defaults
	Logger   output.LoggerPort
	Document DocumentLoader
	// Sleep pauses for d or until ctx is done. Nil means a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (d Deps) base(name entity.ToolName) base {
	return base{
		name:     name,
		session:  d.Session,
		defaults: d.Defaults,
		logger:   d.Logger.WithField("tool", name.String()),
	}
}

// All builds every tool in advertising order.
func All(d Deps) []output.ToolPort {
	return []output.ToolPort{
		NewLaunchTool(d),
		NewNavigateTool(d),
		NewClickTool(d),
		NewTypeTool(d),
		NewWaitForSelectorTool(d),
		NewWaitForResponseTool(d),
		NewWaitForTimeoutTool(d),
		NewEvaluateTool(d),
		NewGetContentTool(d),
		NewGetHTMLTool(d),
		NewInspectElementsTool(d),
		NewGetEventsTool(d),
		NewScreenshotTool(d),
		NewCloseTool(d),
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
