package catalog

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"browser-mcp/internal/domain/entity"
	"browser-mcp/internal/domain/inspector"
)

const (
	ProfileStandard = "standard"
	ProfileExtended = "extended"

	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var waitUntilValues = []string{"load", "domcontentloaded", "networkidle0", "networkidle2"}

// Defaults holds every value applied when a caller omits an optional
// argument. Durations are milliseconds, matching the advertised schemas.
type Defaults struct {
	Headless       bool              `yaml:"headless"`
	ViewportWidth  int               `yaml:"viewport_width"`
	ViewportHeight int               `yaml:"viewport_height"`
	UserAgent      string            `yaml:"user_agent"`
	BlockLevel     entity.BlockLevel `yaml:"block_level"`

	NavigateWaitUntil string `yaml:"navigate_wait_until"`
	NavigateTimeoutMS int    `yaml:"navigate_timeout_ms"`

	ClickTimeoutMS    int  `yaml:"click_timeout_ms"`
	TypeDelayMS       int  `yaml:"type_delay_ms"`
	WaitTimeoutMS     int  `yaml:"wait_timeout_ms"`
	WaitVisible       bool `yaml:"wait_visible"`
	ResponseTimeoutMS int  `yaml:"response_timeout_ms"`

	ContentLimit   int      `yaml:"content_limit"`
	HTMLLimit      int      `yaml:"html_limit"`
	InspectTypes   []string `yaml:"inspect_types"`
	InspectLimit   int      `yaml:"inspect_limit"`
	EventsSelector string   `yaml:"events_selector"`
	EventsLimit    int      `yaml:"events_limit"`

	ScreenshotQuality int `yaml:"screenshot_quality"`
}

func Standard() Defaults {
	return Defaults{
		Headless:          false,
		ViewportWidth:     1920,
		ViewportHeight:    1080,
		UserAgent:         DefaultUserAgent,
		BlockLevel:        entity.BlockAggressive,
		NavigateWaitUntil: "domcontentloaded",
		NavigateTimeoutMS: 60000,
		ClickTimeoutMS:    15000,
		TypeDelayMS:       50,
		WaitTimeoutMS:     15000,
		WaitVisible:       true,
		ResponseTimeoutMS: 30000,
		ContentLimit:      2000,
		HTMLLimit:         20000,
		InspectTypes:      append([]string(nil), inspector.DefaultElementTypes...),
		InspectLimit:      30,
		EventsSelector:    inspector.DefaultEventContainer,
		EventsLimit:       10,
		ScreenshotQuality: 80,
	}
}

// Extended is the slower deployment variant: longer selector waits, the
// engine's own load event, and request-level blocking only, so plugins and
// extensions stay enabled.
func Extended() Defaults {
	d := Standard()
	d.NavigateWaitUntil = "load"
	d.ClickTimeoutMS = 30000
	d.WaitTimeoutMS = 30000
	d.BlockLevel = entity.BlockStandard
	return d
}

func Profile(name string) (Defaults, error) {
	switch name {
	case "", ProfileStandard:
		return Standard(), nil
	case ProfileExtended:
		return Extended(), nil
	}
	return Defaults{}, fmt.Errorf("unknown catalog profile %q (want %q or %q)", name, ProfileStandard, ProfileExtended)
}

// LoadOverrides applies the YAML file at path on top of base. Fields absent
// from the file keep their base value.
func LoadOverrides(path string, base Defaults) (Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults{}, fmt.Errorf("read catalog defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, &base); err != nil {
		return Defaults{}, fmt.Errorf("parse catalog defaults %s: %w", path, err)
	}
	if err := base.Validate(); err != nil {
		return Defaults{}, fmt.Errorf("catalog defaults %s: %w", path, err)
	}
	return base, nil
}

func (d Defaults) Validate() error {
	positive := map[string]int{
		"viewport_width":      d.ViewportWidth,
		"viewport_height":     d.ViewportHeight,
		"navigate_timeout_ms": d.NavigateTimeoutMS,
		"click_timeout_ms":    d.ClickTimeoutMS,
		"wait_timeout_ms":     d.WaitTimeoutMS,
		"response_timeout_ms": d.ResponseTimeoutMS,
		"content_limit":       d.ContentLimit,
		"html_limit":          d.HTMLLimit,
		"inspect_limit":       d.InspectLimit,
		"events_limit":        d.EventsLimit,
	}
	for name, v := range positive {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	if d.TypeDelayMS < 0 {
		return fmt.Errorf("type_delay_ms must not be negative, got %d", d.TypeDelayMS)
	}
	if d.ScreenshotQuality < 1 || d.ScreenshotQuality > 100 {
		return fmt.Errorf("screenshot_quality must be within 1..100, got %d", d.ScreenshotQuality)
	}
	if !validWaitUntil(d.NavigateWaitUntil) {
		return fmt.Errorf("navigate_wait_until must be one of %v, got %q", waitUntilValues, d.NavigateWaitUntil)
	}
	if d.BlockLevel != entity.BlockStandard && d.BlockLevel != entity.BlockAggressive {
		return fmt.Errorf("block_level must be %q or %q, got %q", entity.BlockStandard, entity.BlockAggressive, d.BlockLevel)
	}
	if len(d.InspectTypes) == 0 {
		return fmt.Errorf("inspect_types must not be empty")
	}
	return nil
}

func (d Defaults) Viewport() entity.Viewport {
	return entity.Viewport{Width: d.ViewportWidth, Height: d.ViewportHeight}
}

func (d Defaults) ResourcePolicy() entity.ResourcePolicy {
	return entity.NewResourcePolicy(d.BlockLevel)
}

func (d Defaults) NavigateTimeout() time.Duration {
	return ms(d.NavigateTimeoutMS)
}

func validWaitUntil(v string) bool {
	for _, w := range waitUntilValues {
		if v == w {
			return true
		}
	}
	return false
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
