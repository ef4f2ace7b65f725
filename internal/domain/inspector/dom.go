// Package inspector holds the heuristics that turn page structure into
// compact summaries for an agent. They run over a small DOM capability
// interface so the same code serves a live page and a parsed HTML snapshot.
package inspector

// Element is the read-only view of one DOM element the heuristics need.
type Element interface {
	TagName() string
	Attr(name string) (string, bool)
	ID() string
	ClassName() string
	// TextContent is the element's untrimmed textContent.
	TextContent() string
	// TypeProp is the element's `type` property ("" when it has none).
	TypeProp() string
	// CheckedProp is the element's `checked` property.
	CheckedProp() bool
	// QueryFirst returns the first descendant matching selector.
	QueryFirst(selector string) (Element, bool)
}

type Document interface {
	// QueryAll returns at most limit matches in document order; a negative
	// limit means all of them.
	QueryAll(selector string, limit int) ([]Element, error)
	QueryFirst(selector string) (Element, bool)
}
