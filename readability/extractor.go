// Package readability extracts the main content of HTML documents with
// go-readability.
package readability

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/unhtml"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements unhtml.Extractor at compile time.
var _ unhtml.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns an HTML5 document holding only the article content of in.
func (e *Extractor) Extract(in *unhtml.Input) (*unhtml.Input, error) {
	if len(in.Data) == 0 {
		return nil, unhtml.Errorf(unhtml.EINVALID, "%s: empty HTML input", in.URI)
	}

	// Relative links are resolved against the origin when it parses.
	pageURL, _ := url.Parse(in.URI)

	article, err := readability.FromReader(bytes.NewReader(in.Data), pageURL)
	if err != nil {
		return nil, unhtml.Errorf(unhtml.EPARSE, "%s: %v", in.URI, err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, unhtml.Errorf(unhtml.EPARSE, "%s: no main content found", in.URI)
	}

	return &unhtml.Input{Data: []byte("<!DOCTYPE html>" + article.Content), URI: in.URI}, nil
}
