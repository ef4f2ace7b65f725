package rod

import (
	"fmt"

	"github.com/go-rod/rod"

	"browser-mcp/internal/domain/entity"
	"browser-mcp/internal/domain/inspector"
)

var _ inspector.Document = (*liveDocument)(nil)

// elementProps reads everything the inspector needs from an element in one
// round trip.
const elementProps = `() => ({
	tagName: this.tagName || '',
	id: this.id || '',
	className: this.getAttribute('class') || '',
	textContent: this.textContent || '',
	type: typeof this.type === 'string' ? this.type : '',
	checked: this.checked === true,
})`

type liveDocument struct {
	page *rod.Page
}

func (d *liveDocument) QueryAll(selector string, limit int) ([]inspector.Element, error) {
	els, err := d.page.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: query %q: %v", entity.ErrInvalidArgument, selector, err)
	}
	return wrapElements(els, limit)
}

func (d *liveDocument) QueryFirst(selector string) (inspector.Element, bool) {
	els, err := d.page.Elements(selector)
	if err != nil || els.Empty() {
		return nil, false
	}
	el, err := newLiveElement(els.First())
	if err != nil {
		return nil, false
	}
	return el, true
}

type liveElement struct {
	el          *rod.Element
	tagName     string
	id          string
	className   string
	textContent string
	typ         string
	checked     bool
}

func newLiveElement(el *rod.Element) (*liveElement, error) {
	res, err := el.Eval(elementProps)
	if err != nil {
		return nil, err
	}
	v := res.Value
	return &liveElement{
		el:          el,
		tagName:     v.Get("tagName").Str(),
		id:          v.Get("id").Str(),
		className:   v.Get("className").Str(),
		textContent: v.Get("textContent").Str(),
		typ:         v.Get("type").Str(),
		checked:     v.Get("checked").Bool(),
	}, nil
}

// wrapElements loads at most limit elements (all when limit is negative);
// the rest are never touched.
func wrapElements(els rod.Elements, limit int) ([]inspector.Element, error) {
	if limit >= 0 && len(els) > limit {
		els = els[:limit]
	}
	out := make([]inspector.Element, 0, len(els))
	for _, el := range els {
		live, err := newLiveElement(el)
		if err != nil {
			return nil, fmt.Errorf("read element: %w", err)
		}
		out = append(out, live)
	}
	return out, nil
}

func (e *liveElement) TagName() string     { return e.tagName }
func (e *liveElement) ID() string          { return e.id }
func (e *liveElement) ClassName() string   { return e.className }
func (e *liveElement) TextContent() string { return e.textContent }
func (e *liveElement) TypeProp() string    { return e.typ }
func (e *liveElement) CheckedProp() bool   { return e.checked }

func (e *liveElement) Attr(name string) (string, bool) {
	v, err := e.el.Attribute(name)
	if err != nil || v == nil {
		return "", false
	}
	return *v, true
}

func (e *liveElement) QueryFirst(selector string) (inspector.Element, bool) {
	els, err := e.el.Elements(selector)
	if err != nil || els.Empty() {
		return nil, false
	}
	found, err := newLiveElement(els.First())
	if err != nil {
		return nil, false
	}
	return found, true
}
