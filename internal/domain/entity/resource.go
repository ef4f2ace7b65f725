package entity

import "strings"

type BlockLevel string

const (
	BlockStandard   BlockLevel = "standard"
	BlockAggressive BlockLevel = "aggressive"
)

// DefaultBlockedResources are the request categories never fetched by an
// automation page.
var DefaultBlockedResources = []string{"image", "stylesheet", "font", "media"}

// ResourcePolicy decides, per request, whether a page may fetch a resource
// category. Categories are compared case-insensitively so both "Image" (CDP)
// and "image" match.
type ResourcePolicy struct {
	Level   BlockLevel
	blocked map[string]struct{}
}

func NewResourcePolicy(level BlockLevel, categories ...string) ResourcePolicy {
	if level == "" {
		level = BlockStandard
	}
	if len(categories) == 0 {
		categories = DefaultBlockedResources
	}
	blocked := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		blocked[strings.ToLower(c)] = struct{}{}
	}
	return ResourcePolicy{Level: level, blocked: blocked}
}

func (p ResourcePolicy) Allows(category string) bool {
	_, blocked := p.blocked[strings.ToLower(category)]
	return !blocked
}

func (p ResourcePolicy) Aggressive() bool {
	return p.Level == BlockAggressive
}
