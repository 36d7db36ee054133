// Package etree implements the strict HTML and XML parser backends and the
// configuration fragment decoder on top of github.com/beevik/etree.
package etree

import (
	"encoding/xml"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/unhtml"
	"github.com/fwojciec/unhtml/charset"
	htmlcharset "golang.org/x/net/html/charset"
)

// Ensure parsers implement unhtml.Parser at compile time.
var (
	_ unhtml.Parser = (*HTMLParser)(nil)
	_ unhtml.Parser = (*XMLParser)(nil)
)

var (
	htmlSignature = regexp.MustCompile(`(?i)<!doctype\s+html\s+public\s+["']-//W3C//DTD HTML`)
	xmlSignature  = regexp.MustCompile(`(?i)<\?xml\s|<!doctype\s+html\s+public\s+["']-//W3C//DTD XHTML`)
)

// HTMLParser parses HTML as a well-formed tree. End tags may only be omitted
// for void elements; a document with unclosed elements fails to parse.
// Tag names are reported in lower case.
type HTMLParser struct{}

// NewHTMLParser creates a new HTMLParser.
func NewHTMLParser() *HTMLParser {
	return &HTMLParser{}
}

// Name returns the parser's identifier.
func (p *HTMLParser) Name() string {
	return "html"
}

// Signature returns the W3C HTML public doctype pattern.
func (p *HTMLParser) Signature() *regexp.Regexp {
	return htmlSignature
}

// Parse reads the document and walks its root element.
func (p *HTMLParser) Parse(in *unhtml.Input, v unhtml.Visitor) error {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: htmlcharset.NewReaderLabel,
		Permissive:    true,
		PreserveCData: true,
		Entity:        xml.HTMLEntity,
		AutoClose:     xml.HTMLAutoClose,
	}
	if _, err := doc.ReadFrom(charset.NewUTF8Reader(in.Data)); err != nil {
		return unhtml.Errorf(unhtml.EPARSE, "%s: %v", in.URI, err)
	}
	return walkDocument(doc, in.URI, v, strings.ToLower)
}

// XMLParser parses well-formed XML, including XHTML. HTML character entities
// are recognised without loading a DTD. Tag names are element local names.
type XMLParser struct{}

// NewXMLParser creates a new XMLParser.
func NewXMLParser() *XMLParser {
	return &XMLParser{}
}

// Name returns the parser's identifier.
func (p *XMLParser) Name() string {
	return "xml"
}

// Signature returns the XML prolog or XHTML public doctype pattern.
func (p *XMLParser) Signature() *regexp.Regexp {
	return xmlSignature
}

// Parse reads the document and walks its root element.
func (p *XMLParser) Parse(in *unhtml.Input, v unhtml.Visitor) error {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: htmlcharset.NewReaderLabel,
		PreserveCData: true,
		Entity:        xml.HTMLEntity,
	}
	if err := doc.ReadFromBytes(in.Data); err != nil {
		return unhtml.Errorf(unhtml.EPARSE, "%s: %v", in.URI, err)
	}
	return walkDocument(doc, in.URI, v, func(tag string) string { return tag })
}

// walkDocument walks the single root element of doc. Text or a second
// element beside the root makes the document malformed.
func walkDocument(doc *etree.Document, uri string, v unhtml.Visitor, tagName func(string) string) error {
	var root *etree.Element
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			if root != nil {
				return unhtml.Errorf(unhtml.EPARSE, "%s: more than one root element", uri)
			}
			root = t
		case *etree.CharData:
			if t.IsCData() || !t.IsWhitespace() {
				return unhtml.Errorf(unhtml.EPARSE, "%s: text outside the root element", uri)
			}
		}
	}
	if root == nil {
		return unhtml.Errorf(unhtml.EPARSE, "%s: no root element", uri)
	}
	w := &walker{visitor: v, uri: uri, tagName: tagName}
	return w.walk(root, 0)
}

type walker struct {
	visitor unhtml.Visitor
	uri     string
	tagName func(string) string
}

func (w *walker) walk(e *etree.Element, depth int) error {
	if depth >= unhtml.MaxDepth {
		return unhtml.Errorf(unhtml.ERESOURCE, "%s: elements nested deeper than %d", w.uri, unhtml.MaxDepth)
	}
	tag := w.tagName(e.Tag)
	if w.visitor.EnterElement(tag) && !unhtml.ContentExempt(tag) {
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.Element:
				if err := w.walk(t, depth+1); err != nil {
					return err
				}
			case *etree.CharData:
				w.visitor.Text(charDataKind(t), t.Data)
			case *etree.Comment:
				w.visitor.Text(unhtml.KindComment, t.Data)
			}
		}
	}
	w.visitor.LeaveElement(tag)
	return nil
}

func charDataKind(c *etree.CharData) unhtml.NodeKind {
	switch {
	case c.IsCData():
		return unhtml.KindCData
	case c.IsWhitespace():
		return unhtml.KindWhitespace
	}
	return unhtml.KindText
}
