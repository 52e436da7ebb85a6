package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Node is the query surface extractors are written against. Sibling
// queries return the nearest sibling first.
type Node interface {
	Text() string
	Attr(name string) (string, bool)
	FindAll(selector string) []Node
	Closest(selector string) (Node, bool)
	PrevAll(selector string) []Node
	NextAll(selector string) []Node
}

// ParseDocument parses an HTML page into its root Node.
func ParseDocument(html string) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}
	return gqNode{doc.Selection}, nil
}

// gqNode wraps a goquery selection of exactly one element (or the document).
type gqNode struct {
	s *goquery.Selection
}

func (n gqNode) Text() string {
	return strings.TrimSpace(n.s.Text())
}

func (n gqNode) Attr(name string) (string, bool) {
	v, ok := n.s.Attr(name)
	return strings.TrimSpace(v), ok
}

func (n gqNode) FindAll(selector string) []Node {
	return wrap(n.s.Find(selector))
}

func (n gqNode) Closest(selector string) (Node, bool) {
	c := n.s.Closest(selector)
	if c.Length() == 0 {
		return nil, false
	}
	return gqNode{c.First()}, true
}

func (n gqNode) PrevAll(selector string) []Node {
	return wrap(n.s.PrevAllFiltered(selector))
}

func (n gqNode) NextAll(selector string) []Node {
	return wrap(n.s.NextAllFiltered(selector))
}

func wrap(sel *goquery.Selection) []Node {
	nodes := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, gqNode{s})
	})
	return nodes
}

// first returns the first node matching selector under root.
func first(root Node, selector string) (Node, bool) {
	nodes := root.FindAll(selector)
	if len(nodes) == 0 {
		return nil, false
	}
	return nodes[0], true
}

// attrOf reads attr from the first match of selector; empty when absent.
func attrOf(root Node, selector, attr string) string {
	n, ok := first(root, selector)
	if !ok {
		return ""
	}
	v, _ := n.Attr(attr)
	return v
}
