package unhtml

import (
	"regexp"
	"strings"
)

// SniffLen is the number of leading input bytes examined by Registry.Sniff.
const SniffLen = 1024

// MaxDepth is the deepest element nesting a parser will traverse.
// Deeper documents fail with ERESOURCE.
const MaxDepth = 4096

// Input is a document held in memory.
type Input struct {
	Data []byte

	// URI identifies where the document came from.
	URI string
}

// Parser parses a document and reports it to a Visitor.
type Parser interface {
	// Name returns the identifier used to request the parser explicitly.
	Name() string

	// Signature returns the pattern identifying documents this parser
	// handles, or nil if the parser is never chosen by content.
	Signature() *regexp.Regexp

	// Parse traverses the document depth-first in document order.
	// Children of an element are visited only if EnterElement returns true,
	// and never for elements whose content is exempt (see ContentExempt).
	Parse(in *Input, v Visitor) error
}

// Extractor reduces a document to its main content before rendering.
type Extractor interface {
	// Extract returns a new HTML input holding the main content of in.
	Extract(in *Input) (*Input, error)
}

// ContentExempt reports whether the content of elements named tag is never
// rendered as text, whatever the rules say. The comparison ignores case.
func ContentExempt(tag string) bool {
	return strings.EqualFold(tag, "script") || strings.EqualFold(tag, "style")
}

// Registry is an ordered set of parsers. Registration order decides which
// parser wins when several signatures match, and the first parser is the
// default when none match.
type Registry struct {
	parsers []Parser
}

// NewRegistry returns a Registry of parsers in the given order.
func NewRegistry(parsers ...Parser) *Registry {
	return &Registry{parsers: parsers}
}

// Names returns the parser names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.parsers))
	for _, p := range r.parsers {
		names = append(names, p.Name())
	}
	return names
}

// Lookup returns the parser registered as name.
func (r *Registry) Lookup(name string) (Parser, bool) {
	for _, p := range r.parsers {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Sniff returns the first parser whose signature matches the first SniffLen
// bytes of data, or the first registered parser if none match. Returns nil
// for an empty registry.
func (r *Registry) Sniff(data []byte) Parser {
	if len(r.parsers) == 0 {
		return nil
	}
	prefix := data
	if len(prefix) > SniffLen {
		prefix = prefix[:SniffLen]
	}
	for _, p := range r.parsers {
		if sig := p.Signature(); sig != nil && sig.Match(prefix) {
			return p
		}
	}
	return r.parsers[0]
}

// Select returns the parser named name, or the sniffed parser for data when
// name is empty. Returns ECONFIG if name is not registered.
func (r *Registry) Select(name string, data []byte) (Parser, error) {
	if name != "" {
		p, ok := r.Lookup(name)
		if !ok {
			return nil, Errorf(ECONFIG, "unknown parser %q (available: %s)", name, strings.Join(r.Names(), ", "))
		}
		return p, nil
	}
	p := r.Sniff(data)
	if p == nil {
		return nil, Errorf(ECONFIG, "no parsers registered")
	}
	return p, nil
}
