package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"browser-mcp/internal/domain/entity"
)

type LaunchArgs struct {
	Headless bool
	URL      string
}

type NavigateArgs struct {
	URL       string
	WaitUntil string
	Timeout   time.Duration
}

type ClickArgs struct {
	Selector string
	Timeout  time.Duration
}

type TypeArgs struct {
	Selector string
	Text     string
	Delay    time.Duration
	Timeout  time.Duration
}

type WaitForSelectorArgs struct {
	Selector string
	Visible  bool
	Timeout  time.Duration
}

type WaitForResponseArgs struct {
	URLPattern string
	Timeout    time.Duration
}

type WaitForTimeoutArgs struct {
	Duration time.Duration
}

type EvaluateArgs struct {
	Code string
}

type GetContentArgs struct {
	Selector string
	Limit    int
}

type GetHTMLArgs struct {
	Selector string
	Limit    int
}

type InspectArgs struct {
	SearchTerm string
	Types      []string
	Limit      int
}

type GetEventsArgs struct {
	ContainerSelector string
	Limit             int
}

type ScreenshotArgs struct {
	Path     string
	FullPage bool
	MaxWidth int
	Format   entity.ScreenshotFormat
	Quality  int
}

func (d Defaults) ParseLaunch(a entity.Arguments) (LaunchArgs, error) {
	r := reader{args: a}
	out := LaunchArgs{
		Headless: r.boolean("headless", d.Headless),
		URL:      r.str("url", false, ""),
	}
	return out, r.err
}

func (d Defaults) ParseNavigate(a entity.Arguments) (NavigateArgs, error) {
	r := reader{args: a}
	out := NavigateArgs{
		URL:       r.str("url", true, ""),
		WaitUntil: r.str("waitUntil", false, d.NavigateWaitUntil),
		Timeout:   r.millis("timeout", d.NavigateTimeoutMS, false),
	}
	if r.err == nil && !validWaitUntil(out.WaitUntil) {
		r.fail("waitUntil", "must be one of %s", strings.Join(waitUntilValues, ", "))
	}
	return out, r.err
}

func (d Defaults) ParseClick(a entity.Arguments) (ClickArgs, error) {
	r := reader{args: a}
	out := ClickArgs{
		Selector: r.str("selector", true, ""),
		Timeout:  r.millis("timeout", d.ClickTimeoutMS, false),
	}
	return out, r.err
}

func (d Defaults) ParseType(a entity.Arguments) (TypeArgs, error) {
	r := reader{args: a}
	out := TypeArgs{
		Selector: r.str("selector", true, ""),
		Text:     r.str("text", true, ""),
		Delay:    r.millis("delay", d.TypeDelayMS, true),
		Timeout:  r.millis("timeout", d.ClickTimeoutMS, false),
	}
	return out, r.err
}

func (d Defaults) ParseWaitForSelector(a entity.Arguments) (WaitForSelectorArgs, error) {
	r := reader{args: a}
	out := WaitForSelectorArgs{
		Selector: r.str("selector", true, ""),
		Visible:  r.boolean("visible", d.WaitVisible),
		Timeout:  r.millis("timeout", d.WaitTimeoutMS, false),
	}
	return out, r.err
}

func (d Defaults) ParseWaitForResponse(a entity.Arguments) (WaitForResponseArgs, error) {
	r := reader{args: a}
	out := WaitForResponseArgs{
		URLPattern: r.str("urlPattern", true, ""),
		Timeout:    r.millis("timeout", d.ResponseTimeoutMS, false),
	}
	return out, r.err
}

func (d Defaults) ParseWaitForTimeout(a entity.Arguments) (WaitForTimeoutArgs, error) {
	r := reader{args: a}
	if _, ok := present(a, "timeout"); !ok {
		r.fail("timeout", "is required")
		return WaitForTimeoutArgs{}, r.err
	}
	out := WaitForTimeoutArgs{Duration: r.millis("timeout", 0, true)}
	return out, r.err
}

func (d Defaults) ParseEvaluate(a entity.Arguments) (EvaluateArgs, error) {
	r := reader{args: a}
	out := EvaluateArgs{Code: r.str("code", true, "")}
	return out, r.err
}

func (d Defaults) ParseGetContent(a entity.Arguments) (GetContentArgs, error) {
	r := reader{args: a}
	out := GetContentArgs{
		Selector: r.str("selector", false, ""),
		Limit:    r.positive("limit", d.ContentLimit),
	}
	return out, r.err
}

func (d Defaults) ParseGetHTML(a entity.Arguments) (GetHTMLArgs, error) {
	r := reader{args: a}
	out := GetHTMLArgs{
		Selector: r.str("selector", false, ""),
		Limit:    r.positive("limit", d.HTMLLimit),
	}
	return out, r.err
}

func (d Defaults) ParseInspect(a entity.Arguments) (InspectArgs, error) {
	r := reader{args: a}
	out := InspectArgs{
		SearchTerm: r.str("searchTerm", false, ""),
		Types:      r.stringList("elementTypes", d.InspectTypes),
		Limit:      r.positive("limit", d.InspectLimit),
	}
	return out, r.err
}

func (d Defaults) ParseGetEvents(a entity.Arguments) (GetEventsArgs, error) {
	r := reader{args: a}
	out := GetEventsArgs{
		ContainerSelector: r.str("containerSelector", false, d.EventsSelector),
		Limit:             r.positive("limit", d.EventsLimit),
	}
	return out, r.err
}

func (d Defaults) ParseScreenshot(a entity.Arguments) (ScreenshotArgs, error) {
	r := reader{args: a}
	out := ScreenshotArgs{
		Path:     r.str("path", true, ""),
		FullPage: r.boolean("fullPage", false),
		MaxWidth: r.integer("maxWidth", 0, true),
		Quality:  r.integer("quality", d.ScreenshotQuality, false),
		Format:   entity.ScreenshotPNG,
	}
	switch strings.ToLower(filepath.Ext(out.Path)) {
	case ".jpg", ".jpeg":
		out.Format = entity.ScreenshotJPEG
	}
	if r.err == nil && out.Quality > 100 {
		r.fail("quality", "must be within 1..100")
	}
	return out, r.err
}

// reader pulls typed values out of an argument bag and remembers the first
// validation failure. A missing or null key yields the default.
type reader struct {
	args entity.Arguments
	err  error
}

func (r *reader) fail(key, format string, a ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s %s", entity.ErrInvalidArgument, key, fmt.Sprintf(format, a...))
	}
}

func present(args entity.Arguments, key string) (any, bool) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (r *reader) str(key string, required bool, def string) string {
	v, ok := present(r.args, key)
	if !ok {
		if required {
			r.fail(key, "is required")
		}
		return def
	}
	s, isString := v.(string)
	if !isString {
		r.fail(key, "must be a string, got %T", v)
		return def
	}
	if s == "" {
		if required {
			r.fail(key, "must not be empty")
		}
		return def
	}
	return s
}

func (r *reader) boolean(key string, def bool) bool {
	v, ok := present(r.args, key)
	if !ok {
		return def
	}
	b, isBool := v.(bool)
	if !isBool {
		r.fail(key, "must be a boolean, got %T", v)
		return def
	}
	return b
}

func (r *reader) number(key string) (float64, bool) {
	v, ok := present(r.args, key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			r.fail(key, "must be a number, got %q", n.String())
			return 0, false
		}
		return f, true
	}
	r.fail(key, "must be a number, got %T", v)
	return 0, false
}

// integer returns the key as a whole int; zero is accepted only when allowZero.
func (r *reader) integer(key string, def int, allowZero bool) int {
	f, ok := r.number(key)
	if !ok {
		return def
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		r.fail(key, "must be a finite number")
		return def
	}
	if f != math.Trunc(f) {
		r.fail(key, "must be a whole number, got %v", f)
		return def
	}
	if f < 0 || f > math.MaxInt32 || (f == 0 && !allowZero) {
		if allowZero {
			r.fail(key, "must not be negative")
		} else {
			r.fail(key, "must be positive")
		}
		return def
	}
	return int(f)
}

func (r *reader) positive(key string, def int) int {
	return r.integer(key, def, false)
}

func (r *reader) millis(key string, def int, allowZero bool) time.Duration {
	return ms(r.integer(key, def, allowZero))
}

func (r *reader) stringList(key string, def []string) []string {
	v, ok := present(r.args, key)
	if !ok {
		return def
	}
	var out []string
	switch list := v.(type) {
	case []string:
		out = list
	case []any:
		out = make([]string, 0, len(list))
		for i, item := range list {
			s, isString := item.(string)
			if !isString || s == "" {
				r.fail(key, "item %d must be a non-empty string", i)
				return def
			}
			out = append(out, s)
		}
	default:
		r.fail(key, "must be an array of strings, got %T", v)
		return def
	}
	if len(out) == 0 {
		return def
	}
	return out
}
