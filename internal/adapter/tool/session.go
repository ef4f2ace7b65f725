package tool

import (
	"context"

	"browser-mcp/internal/domain/entity"
)

type LaunchTool struct{ base }

func NewLaunchTool(d Deps) *LaunchTool {
	return &LaunchTool{base: d.base(entity.ToolLaunch)}
}

func (t *LaunchTool) Execute(ctx context.Context, args entity.Arguments) (string, error) {
	input, err := t.defaults.ParseLaunch(args)
	if err != nil {
		return "", err
	}
	return t.session.Launch(ctx, input)
}

type CloseTool struct{ base }

func NewCloseTool(d Deps) *CloseTool {
	return &CloseTool{base: d.base(entity.ToolClose)}
}

func (t *CloseTool) Execute(ctx context.Context, args entity.Arguments) (string, error) {
	if err := t.session.Close(ctx); err != nil {
		return "", err
	}
	return "Closed", nil
}
