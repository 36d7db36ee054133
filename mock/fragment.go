package mock

import (
	"io"

	"github.com/fwojciec/unhtml"
)

var _ unhtml.FragmentDecoder = (*FragmentDecoder)(nil)

// FragmentDecoder is a mock implementation of unhtml.FragmentDecoder.
type FragmentDecoder struct {
	DecodeFragmentsFn func(r io.Reader, source string) ([]unhtml.Fragment, error)
}

func (d *FragmentDecoder) DecodeFragments(r io.Reader, source string) ([]unhtml.Fragment, error) {
	return d.DecodeFragmentsFn(r, source)
}

var _ unhtml.FragmentLoader = (*FragmentLoader)(nil)

// FragmentLoader is a mock implementation of unhtml.FragmentLoader.
type FragmentLoader struct {
	LoadFragmentsFn func(sources []unhtml.ConfigSource) ([]unhtml.Fragment, []unhtml.Diagnostic, error)
}

func (l *FragmentLoader) LoadFragments(sources []unhtml.ConfigSource) ([]unhtml.Fragment, []unhtml.Diagnostic, error) {
	return l.LoadFragmentsFn(sources)
}
