package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/unhtml"
	"github.com/fwojciec/unhtml/charset"
	"golang.org/x/net/html"
)

// Ensure Parser implements unhtml.Parser at compile time.
var _ unhtml.Parser = (*Parser)(nil)

// TreeDepthLimit is the deepest stack of open elements the HTML5 tree
// builder accepts. Deeper input fails with ERESOURCE before the walk starts.
const TreeDepthLimit = 512

// signature matches the HTML5 doctype, including its legacy-compat form.
var signature = regexp.MustCompile(`(?i)<!doctype\s+html(\s+system\s+["']about:legacy-compat["'])?\s*>`)

// Parser is the tag soup backend. It parses HTML the way browsers do, so it
// never fails on malformed markup.
type Parser struct {
	selector string
}

// Option configures a Parser.
type Option func(*Parser) error

// WithSelector restricts rendering to elements matching a CSS selector.
// Matches nested inside another match are rendered once, as part of the
// outermost match.
func WithSelector(selector string) Option {
	return func(p *Parser) error {
		if _, err := cascadia.Compile(selector); err != nil {
			return unhtml.Errorf(unhtml.EINVALID, "invalid selector %q: %v", selector, err)
		}
		p.selector = selector
		return nil
	}
}

// NewParser creates a new Parser.
func NewParser(opts ...Option) (*Parser, error) {
	p := &Parser{}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Name returns the parser's identifier.
func (p *Parser) Name() string {
	return "tagsoup"
}

// Signature returns the HTML5 doctype pattern.
func (p *Parser) Signature() *regexp.Regexp {
	return signature
}

// Parse decodes the input to UTF-8, builds an HTML5 tree and walks it.
func (p *Parser) Parse(in *unhtml.Input, v unhtml.Visitor) error {
	// With scripting disabled <noscript> content is parsed as markup
	// instead of raw text.
	root, err := html.ParseWithOptions(charset.NewUTF8Reader(in.Data), html.ParseOptionEnableScripting(false))
	if err != nil {
		if strings.Contains(err.Error(), "open stack of elements exceeds") {
			return unhtml.Errorf(unhtml.ERESOURCE, "%s: elements nested deeper than %d", in.URI, TreeDepthLimit)
		}
		return unhtml.Errorf(unhtml.EINTERNAL, "%s: %v", in.URI, err)
	}

	doc := goquery.NewDocumentFromNode(root)
	sel := doc.Selection
	if p.selector != "" {
		sel = doc.Find(p.selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.ParentsFiltered(p.selector).Length() == 0
		})
	}

	w := &walker{visitor: v, uri: in.URI}
	for _, n := range sel.Nodes {
		if err := w.walk(n, 0); err != nil {
			return err
		}
	}
	return nil
}

type walker struct {
	visitor unhtml.Visitor
	uri     string
}

func (w *walker) walk(n *html.Node, depth int) error {
	switch n.Type {
	case html.DocumentNode:
		return w.walkChildren(n, depth)
	case html.ElementNode:
		if depth >= unhtml.MaxDepth {
			return unhtml.Errorf(unhtml.ERESOURCE, "%s: elements nested deeper than %d", w.uri, unhtml.MaxDepth)
		}
		tag := n.Data
		if w.visitor.EnterElement(tag) && !unhtml.ContentExempt(tag) {
			if err := w.walkChildren(n, depth+1); err != nil {
				return err
			}
		}
		w.visitor.LeaveElement(tag)
	case html.TextNode:
		kind := unhtml.KindText
		if strings.Trim(n.Data, " \t\n\f\r") == "" {
			kind = unhtml.KindWhitespace
		}
		w.visitor.Text(kind, n.Data)
	case html.CommentNode:
		w.visitor.Text(unhtml.KindComment, n.Data)
	}
	return nil
}

func (w *walker) walkChildren(n *html.Node, depth int) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := w.walk(c, depth); err != nil {
			return err
		}
	}
	return nil
}
