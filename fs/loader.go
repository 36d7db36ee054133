// Package fs provides file-based access to configuration fragments and input
// documents.
package fs

import (
	"errors"
	iofs "io/fs"
	"path"
	"path/filepath"

	"github.com/fwojciec/unhtml"
)

// Ensure FragmentLoader implements unhtml.FragmentLoader at compile time.
var _ unhtml.FragmentLoader = (*FragmentLoader)(nil)

// fragmentPattern matches configuration documents within a source directory.
const fragmentPattern = "*.xml"

// FragmentLoader reads every *.xml document of each configuration source in
// lexical order and decodes it with a FragmentDecoder.
type FragmentLoader struct {
	decoder unhtml.FragmentDecoder
}

// NewFragmentLoader creates a new FragmentLoader.
func NewFragmentLoader(decoder unhtml.FragmentDecoder) *FragmentLoader {
	return &FragmentLoader{decoder: decoder}
}

// LoadFragments returns the fragments of all sources in source order. A
// missing source directory is skipped. Documents that cannot be opened or
// decoded are reported as diagnostics and contribute nothing.
func (l *FragmentLoader) LoadFragments(sources []unhtml.ConfigSource) ([]unhtml.Fragment, []unhtml.Diagnostic, error) {
	var fragments []unhtml.Fragment
	var diags []unhtml.Diagnostic
	for _, src := range sources {
		entries, err := iofs.ReadDir(src.FS, ".")
		if errors.Is(err, iofs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, nil, unhtml.Errorf(unhtml.ECONFIG, "reading config directory %s: %v", src.Name, err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if ok, _ := path.Match(fragmentPattern, entry.Name()); !ok {
				continue
			}
			name := filepath.Join(src.Name, entry.Name())
			frags, err := l.decodeFile(src.FS, entry.Name(), name)
			if err != nil {
				diags = append(diags, unhtml.Diagnostic{Source: name, Err: err})
				continue
			}
			fragments = append(fragments, frags...)
		}
	}
	return fragments, diags, nil
}

func (l *FragmentLoader) decodeFile(fsys iofs.FS, file, name string) ([]unhtml.Fragment, error) {
	f, err := fsys.Open(file)
	if err != nil {
		return nil, unhtml.Errorf(unhtml.ECONFIG, "could not open: %v", err)
	}
	defer f.Close()

	return l.decoder.DecodeFragments(f, name)
}
