// Package trafilatura extracts the main content of HTML documents with
// go-trafilatura.
package trafilatura

import (
	"bytes"

	"github.com/fwojciec/unhtml"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements unhtml.Extractor at compile time.
var _ unhtml.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns an HTML5 document holding only the main content of in.
// The origin URI is preserved.
func (e *Extractor) Extract(in *unhtml.Input) (*unhtml.Input, error) {
	if len(in.Data) == 0 {
		return nil, unhtml.Errorf(unhtml.EINVALID, "%s: empty HTML input", in.URI)
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(bytes.NewReader(in.Data), opts)
	if err != nil {
		return nil, unhtml.Errorf(unhtml.EPARSE, "%s: %v", in.URI, err)
	}
	if result.ContentNode == nil {
		return nil, unhtml.Errorf(unhtml.EPARSE, "%s: no main content found", in.URI)
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>")
	if err := html.Render(&buf, result.ContentNode); err != nil {
		return nil, err
	}
	return &unhtml.Input{Data: buf.Bytes(), URI: in.URI}, nil
}
