package inspector

import (
	"fmt"
	"strings"

	"browser-mcp/internal/domain/entity"
)

const (
	DefaultEventContainer = `[class*='event'], [class*='card'], [data-testid*='event']`

	titleSelector = `h1, h2, h3, h4, [class*="title"], [class*="name"]`
	timeSelector  = `[class*="time"], [class*="date"], time, [datetime]`
)

// ExtractEvents reads a title and a time marker from each of the first limit
// containers. Containers missing either field are dropped.
func ExtractEvents(doc Document, containerSelector string, limit int) ([]entity.Event, error) {
	if containerSelector == "" {
		containerSelector = DefaultEventContainer
	}
	containers, err := doc.QueryAll(containerSelector, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query %q: %v", entity.ErrInvalidArgument, containerSelector, err)
	}

	var events []entity.Event
	for _, c := range containers {
		title := firstText(c, titleSelector)
		when := firstText(c, timeSelector)
		if title == "" || when == "" {
			continue
		}
		events = append(events, entity.Event{Title: title, Time: when})
	}
	return events, nil
}

func FormatEvents(events []entity.Event) string {
	blocks := make([]string, 0, len(events))
	for _, e := range events {
		blocks = append(blocks, fmt.Sprintf("**%s**\n**%s**", e.Title, e.Time))
	}
	return strings.Join(blocks, "\n\n")
}

func firstText(el Element, selector string) string {
	found, ok := el.QueryFirst(selector)
	if !ok {
		return ""
	}
	return strings.TrimSpace(found.TextContent())
}
