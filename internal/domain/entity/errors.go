package entity

import (
	"context"
	"errors"
)

type ErrorKind string

const (
	KindNotLaunched       ErrorKind = "NotLaunched"
	KindNavigationFailure ErrorKind = "NavigationFailure"
	KindElementNotFound   ErrorKind = "ElementNotFound"
	KindTimeout           ErrorKind = "Timeout"
	KindEvaluationError   ErrorKind = "EvaluationError"
	KindIOFailure         ErrorKind = "IOFailure"
	KindUnknownTool       ErrorKind = "UnknownTool"
	KindInvalidArgument   ErrorKind = "InvalidArgument"
	KindInternal          ErrorKind = "Internal"
)

var (
	ErrNotLaunched       = errors.New("browser not launched, call launch first")
	ErrNavigationFailure = errors.New("navigation failed")
	ErrElementNotFound   = errors.New("element not found")
	ErrTimeout           = errors.New("timed out")
	ErrEvaluation        = errors.New("evaluation failed")
	ErrIO                = errors.New("i/o failure")
	ErrUnknownTool       = errors.New("unknown tool")
	ErrInvalidArgument   = errors.New("invalid argument")
)

var kindBySentinel = []struct {
	err  error
	kind ErrorKind
}{
	{ErrNotLaunched, KindNotLaunched},
	{ErrUnknownTool, KindUnknownTool},
	{ErrInvalidArgument, KindInvalidArgument},
	{ErrTimeout, KindTimeout},
	{ErrElementNotFound, KindElementNotFound},
	{ErrNavigationFailure, KindNavigationFailure},
	{ErrEvaluation, KindEvaluationError},
	{ErrIO, KindIOFailure},
}

// KindOf classifies err. Sentinels win over context errors so that a wrapped
// "navigation failed: context deadline exceeded" keeps its navigation kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, s := range kindBySentinel {
		if errors.Is(err, s.err) {
			return s.kind
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindInternal
}
