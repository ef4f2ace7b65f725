package entity

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"not launched", ErrNotLaunched, KindNotLaunched},
		{"wrapped timeout", fmt.Errorf("%w: waiting for #x", ErrTimeout), KindTimeout},
		{"deadline", fmt.Errorf("wait: %w", context.DeadlineExceeded), KindTimeout},
		{"navigation beats deadline", fmt.Errorf("%w: %w", ErrNavigationFailure, context.DeadlineExceeded), KindNavigationFailure},
		{"io", fmt.Errorf("%w: open /x", ErrIO), KindIOFailure},
		{"unknown", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorResult(t *testing.T) {
	res := ErrorResult(fmt.Errorf("%w: %q", ErrUnknownTool, "fly"))

	assert.True(t, res.IsError)
	assert.Equal(t, KindUnknownTool, res.Kind)
	assert.Equal(t, `UnknownTool: unknown tool: "fly"`, res.Text)
}
