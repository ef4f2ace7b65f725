package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"browser-mcp/internal/application/port/output"
	"browser-mcp/internal/domain/entity"
)

// Dispatcher routes tool calls to registered tools one at a time and turns
// every outcome into a ToolResult. Nothing it returns is a Go error.
type Dispatcher struct {
	mu       sync.Mutex
	registry output.ToolRegistry
	logger   output.LoggerPort
}

func NewDispatcher(registry output.ToolRegistry, logger output.LoggerPort) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   logger,
	}
}

func (d *Dispatcher) Definitions() []entity.ToolDefinition {
	return d.registry.Definitions()
}

func (d *Dispatcher) Call(ctx context.Context, call entity.ToolCall) (result *entity.ToolResult) {
	tool, ok := d.registry.Get(call.Name)
	if !ok {
		d.logger.Warn("Unknown tool requested", "tool", call.Name.String())
		return entity.ErrorResult(fmt.Errorf("%w: %s", entity.ErrUnknownTool, call.Name))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = entity.ErrorResult(fmt.Errorf("tool %s panicked: %v", call.Name, r))
		}
		fields := []any{
			"tool", call.Name.String(),
			"duration_ms", time.Since(start).Milliseconds(),
			"is_error", result.IsError,
		}
		if result.IsError {
			d.logger.Warn("Tool call failed", append(fields, "kind", string(result.Kind), "error", result.Text)...)
			return
		}
		d.logger.Info("Tool call completed", fields...)
	}()

	if err := ctx.Err(); err != nil {
		return entity.ErrorResult(err)
	}

	d.logger.Debug("Tool call started", "tool", call.Name.String(), "args", call.Arguments)
	text, err := tool.Execute(ctx, call.Arguments)
	if err != nil {
		return entity.ErrorResult(err)
	}
	return entity.SuccessResult(text)
}
