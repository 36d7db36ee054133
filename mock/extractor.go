package mock

import "github.com/fwojciec/unhtml"

var _ unhtml.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of unhtml.Extractor.
type Extractor struct {
	ExtractFn func(in *unhtml.Input) (*unhtml.Input, error)
}

func (e *Extractor) Extract(in *unhtml.Input) (*unhtml.Input, error) {
	return e.ExtractFn(in)
}
