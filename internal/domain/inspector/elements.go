package inspector

import (
	"fmt"
	"strings"

	"browser-mcp/internal/domain/entity"
)

const (
	// MaxCandidates bounds the number of elements examined per inspect call.
	MaxCandidates = 100
	maxLabelLen   = 50
)

// DefaultElementTypes is the advertised elementTypes default. Besides native
// controls it covers links, labels, ARIA checkbox/button divs and
// date-picker widgets.
var DefaultElementTypes = []string{
	"button", "input", "select", "a", "label",
	"div[role='checkbox']", "div[role='button']",
	"div[class*='picker']", "div[class*='calendar']",
}

type InspectOptions struct {
	SearchTerm string
	Types      []string
	Limit      int
}

// Inspect enumerates elements of the requested types, filters them by the
// search term and summarizes at most Limit of them.
func Inspect(doc Document, opts InspectOptions) ([]entity.ElementSummary, error) {
	types := opts.Types
	if len(types) == 0 {
		types = DefaultElementTypes
	}

	candidates, err := doc.QueryAll(strings.Join(types, ", "), MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("%w: query %q: %v", entity.ErrInvalidArgument, strings.Join(types, ", "), err)
	}

	term := strings.ToLower(opts.SearchTerm)
	result := make([]entity.ElementSummary, 0, min(len(candidates), max(opts.Limit, 0)))
	for _, el := range candidates {
		if len(result) >= opts.Limit {
			break
		}
		if term != "" && !Matches(el, term) {
			continue
		}
		result = append(result, Summarize(doc, el))
	}
	return result, nil
}

// Matches reports whether the lower-cased term occurs in the element's text,
// aria-label, class or id.
func Matches(el Element, term string) bool {
	term = strings.ToLower(term)
	aria, _ := el.Attr("aria-label")
	for _, field := range []string{el.TextContent(), aria, el.ClassName(), el.ID()} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func Summarize(doc Document, el Element) entity.ElementSummary {
	role, _ := el.Attr("role")
	isCheckbox := el.TypeProp() == "checkbox" || role == "checkbox"

	summary := entity.ElementSummary{
		Text:      Label(doc, el, isCheckbox),
		Type:      firstNonEmpty(el.TypeProp(), role, strings.ToLower(el.TagName())),
		Selector:  Selector(el),
		ClassName: el.ClassName(),
		ID:        el.ID(),
	}
	if isCheckbox {
		ariaChecked, _ := el.Attr("aria-checked")
		checked := el.CheckedProp() || ariaChecked == "true"
		summary.IsCheckbox = true
		summary.Checked = &checked
	}
	return summary
}

// Label prefers the element's own text and falls back to the text of a
// <label for=id> for checkboxes.
func Label(doc Document, el Element, isCheckbox bool) string {
	if text := truncate(strings.TrimSpace(el.TextContent()), maxLabelLen); text != "" {
		return text
	}
	if !isCheckbox || el.ID() == "" {
		return ""
	}
	label, ok := doc.QueryFirst(fmt.Sprintf("label[for=%s]", cssString(el.ID())))
	if !ok {
		return ""
	}
	return truncate(strings.TrimSpace(label.TextContent()), maxLabelLen)
}

// Selector derives a selector for el. Only the first available form is used:
// #id, then [aria-label="..."], then the first class, then the tag name.
func Selector(el Element) string {
	if id := el.ID(); id != "" {
		return "#" + id
	}
	if aria, ok := el.Attr("aria-label"); ok && aria != "" {
		return "[aria-label=" + cssString(aria) + "]"
	}
	if classes := strings.Fields(el.ClassName()); len(classes) > 0 {
		return "." + classes[0]
	}
	return strings.ToLower(el.TagName())
}

func cssString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
