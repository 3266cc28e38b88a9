// Package parser turns detail and search page markup into typed values.
package parser

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// Document is the query capability the extractor and resolver depend on:
// select by a CSS path, then read text or an attribute.
type Document interface {
	// Text returns the combined text of every match, or "" when nothing matches.
	Text(path string) string
	// Attr returns the named attribute of the first match.
	Attr(path, name string) (string, bool)
	// Texts returns the text of each match in document order.
	Texts(path string) []string
	// ChildTexts returns the text of each child element of every match.
	ChildTexts(path string) []string
}

// HTMLDocument implements Document on top of goquery.
type HTMLDocument struct {
	doc *goquery.Document
}

// ParseHTML parses markup into a queryable document. A nil or empty payload
// yields an empty document, so failed fetches simply match nothing.
func ParseHTML(body []byte) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &HTMLDocument{doc: doc}, nil
}

func (d *HTMLDocument) Text(path string) string {
	return d.doc.Find(path).Text()
}

func (d *HTMLDocument) Attr(path, name string) (string, bool) {
	return d.doc.Find(path).First().Attr(name)
}

func (d *HTMLDocument) Texts(path string) []string {
	sel := d.doc.Find(path)
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.Text())
	})
	return out
}

func (d *HTMLDocument) ChildTexts(path string) []string {
	children := d.doc.Find(path).Children()
	out := make([]string, 0, children.Length())
	children.Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.Text())
	})
	return out
}
