package htmldoc

import (
	"context"

	"browser-mcp/internal/application/port/output"
	"browser-mcp/internal/domain/inspector"
)

// Snapshot parses the page's current HTML once so the inspector can run
// without further round trips to the browser.
func Snapshot(ctx context.Context, page output.Page) (inspector.Document, error) {
	raw, err := page.HTML(ctx, "")
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}
