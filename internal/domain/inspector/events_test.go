package inspector_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"browser-mcp/internal/domain/entity"
	"browser-mcp/internal/domain/inspector"
)

func TestExtractEvents_DropsIncompleteContainers(t *testing.T) {
	doc := parse(t, `
		<div class="event-card"><h3> Jazz Night </h3><time datetime="2026-10-18">Oct 18, 8pm</time></div>
		<div class="event-card"><h3>Only title</h3></div>
		<div class="event-card"><span class="date">Oct 19</span></div>`)

	events, err := inspector.ExtractEvents(doc, "", 10)
	require.NoError(t, err)

	assert.Equal(t, []entity.Event{{Title: "Jazz Night", Time: "Oct 18, 8pm"}}, events)
}

func TestExtractEvents_LimitAppliesToContainers(t *testing.T) {
	doc := parse(t, `
		<div class="card"><h2>No time</h2></div>
		<div class="card"><h2>A</h2><span class="time">1pm</span></div>
		<div class="card"><h2>B</h2><span class="time">2pm</span></div>`)

	events, err := inspector.ExtractEvents(doc, ".card", 2)
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, "A", events[0].Title)
}

func TestExtractEvents_TitleClassAndDatetimeAttr(t *testing.T) {
	doc := parse(t, `<li class="item"><p class="item-name">Book club</p><p datetime="x">Sunday</p></li>`)

	events, err := inspector.ExtractEvents(doc, "li.item", 10)
	require.NoError(t, err)

	assert.Equal(t, []entity.Event{{Title: "Book club", Time: "Sunday"}}, events)
}

func TestFormatEvents(t *testing.T) {
	out := inspector.FormatEvents([]entity.Event{
		{Title: "A", Time: "1pm"},
		{Title: "B", Time: "2pm"},
	})

	assert.Equal(t, "**A**\n**1pm**\n\n**B**\n**2pm**", out)
	assert.Empty(t, inspector.FormatEvents(nil))
}

type countingDocument struct {
	inspector.Document
	limits []int
}

func (d *countingDocument) QueryAll(selector string, limit int) ([]inspector.Element, error) {
	d.limits = append(d.limits, limit)
	return d.Document.QueryAll(selector, limit)
}

func TestExtractEvents_LimitAboveCandidateCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 130; i++ {
		fmt.Fprintf(&b, `<div class="card"><h2>Event %d</h2><span class="time">%d:00</span></div>`, i, i%24)
	}
	doc := &countingDocument{Document: parse(t, b.String())}

	events, err := inspector.ExtractEvents(doc, ".card", 120)
	require.NoError(t, err)

	assert.Len(t, events, 120)
	assert.Equal(t, "Event 119", events[119].Title)
	assert.Equal(t, []int{120}, doc.limits)
}
