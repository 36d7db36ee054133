package mock

import (
	"regexp"

	"github.com/fwojciec/unhtml"
)

var _ unhtml.Parser = (*Parser)(nil)

// Parser is a mock implementation of unhtml.Parser.
type Parser struct {
	NameFn      func() string
	SignatureFn func() *regexp.Regexp
	ParseFn     func(in *unhtml.Input, v unhtml.Visitor) error
}

func (p *Parser) Name() string {
	return p.NameFn()
}

func (p *Parser) Signature() *regexp.Regexp {
	return p.SignatureFn()
}

func (p *Parser) Parse(in *unhtml.Input, v unhtml.Visitor) error {
	return p.ParseFn(in, v)
}
