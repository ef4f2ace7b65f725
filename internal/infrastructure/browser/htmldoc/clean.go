package htmldoc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

type CleanOptions struct {
	DropTags  []string
	DropAttrs []string
	// KeepAttrPrefixed lists data-/aria- attributes that survive the prefix sweep.
	KeepAttrPrefixed []string
	Limit            int
}

var DefaultCleanOptions = CleanOptions{
	DropTags: []string{
		"script", "style", "noscript", "svg", "iframe",
		"link", "meta", "head", "title", "template",
	},
	DropAttrs: []string{
		"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "tabindex",
	},
	KeepAttrPrefixed: []string{"aria-label", "aria-checked", "data-testid"},
	Limit:            20000,
}

const truncatedMarker = "\n<!-- truncated -->"

// Clean strips markup that carries no meaning for an agent (scripts, styles,
// comments, event handlers, presentation attributes) from an HTML fragment
// and truncates the result to opts.Limit bytes on a rune boundary.
func Clean(rawHTML string, opts CleanOptions) (string, error) {
	nodes, err := html.ParseFragment(strings.NewReader(rawHTML), &html.Node{
		Type: html.ElementNode,
		Data: "body",
	})
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var sb strings.Builder
	for _, n := range nodes {
		if !cleanNode(n, opts) {
			continue
		}
		if err := html.Render(&sb, n); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	return truncateBytes(sb.String(), opts.Limit), nil
}

// cleanNode cleans n in place and reports whether n itself should be kept.
func cleanNode(n *html.Node, opts CleanOptions) bool {
	switch n.Type {
	case html.CommentNode:
		return false
	case html.ElementNode:
		if isOneOf(n.Data, opts.DropTags...) {
			return false
		}
		n.Attr = filterAttributes(n.Attr, opts)
	case html.TextNode:
		return true
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if !cleanNode(c, opts) {
			n.RemoveChild(c)
		}
		c = next
	}
	return true
}

func filterAttributes(attrs []html.Attribute, opts CleanOptions) []html.Attribute {
	kept := attrs[:0]
	for _, attr := range attrs {
		if dropAttr(attr.Key, opts) {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

func dropAttr(key string, opts CleanOptions) bool {
	if isOneOf(key, opts.DropAttrs...) {
		return true
	}
	if strings.HasPrefix(key, "on") {
		return true
	}
	if strings.HasPrefix(key, "data-") || strings.HasPrefix(key, "aria-") {
		return !isOneOf(key, opts.KeepAttrPrefixed...)
	}
	return false
}

func truncateBytes(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + truncatedMarker
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
