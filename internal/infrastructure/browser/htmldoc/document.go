// Package htmldoc serves the inspector heuristics from a static HTML
// snapshot instead of a live page.
package htmldoc

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"browser-mcp/internal/domain/entity"
	"browser-mcp/internal/domain/inspector"
)

var _ inspector.Document = (*Document)(nil)

type Document struct {
	doc *goquery.Document
}

func Parse(rawHTML string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: doc}, nil
}

func (d *Document) QueryAll(selector string, limit int) ([]inspector.Element, error) {
	if _, err := cascadia.Compile(selector); err != nil {
		return nil, err
	}
	found := d.doc.Find(selector)
	if limit >= 0 && found.Length() > limit {
		found = found.Slice(0, limit)
	}
	return wrap(found), nil
}

func (d *Document) QueryFirst(selector string) (inspector.Element, bool) {
	return first(d.doc.Selection, selector)
}

// OuterHTML renders the first match of selector.
func (d *Document) OuterHTML(selector string) (string, error) {
	if _, err := cascadia.Compile(selector); err != nil {
		return "", fmt.Errorf("%w: selector %q: %v", entity.ErrInvalidArgument, selector, err)
	}
	found := d.doc.Find(selector).First()
	if found.Length() == 0 {
		return "", fmt.Errorf("%w: %s", entity.ErrElementNotFound, selector)
	}
	return goquery.OuterHtml(found)
}

type element struct {
	sel *goquery.Selection
}

func (e element) TagName() string {
	return goquery.NodeName(e.sel)
}

func (e element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e element) ID() string {
	return e.sel.AttrOr("id", "")
}

func (e element) ClassName() string {
	return e.sel.AttrOr("class", "")
}

func (e element) TextContent() string {
	return e.sel.Text()
}

// TypeProp mirrors the DOM `type` property for form controls; the attribute
// alone is not enough because inputs default to "text" and buttons to "submit".
func (e element) TypeProp() string {
	typ := strings.ToLower(e.sel.AttrOr("type", ""))
	switch e.TagName() {
	case "input":
		if typ == "" {
			return "text"
		}
		return typ
	case "button":
		if typ == "reset" || typ == "button" {
			return typ
		}
		return "submit"
	case "select":
		if _, multiple := e.sel.Attr("multiple"); multiple {
			return "select-multiple"
		}
		return "select-one"
	case "textarea":
		return "textarea"
	}
	return ""
}

func (e element) CheckedProp() bool {
	_, checked := e.sel.Attr("checked")
	return checked
}

func (e element) QueryFirst(selector string) (inspector.Element, bool) {
	return first(e.sel, selector)
}

func first(sel *goquery.Selection, selector string) (inspector.Element, bool) {
	if _, err := cascadia.Compile(selector); err != nil {
		return nil, false
	}
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, false
	}
	return element{sel: found}, true
}

func wrap(sel *goquery.Selection) []inspector.Element {
	out := make([]inspector.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, element{sel: s})
	})
	return out
}
