package fs

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/unhtml"
)

// StdinURI is the origin URI of input read from standard input.
const StdinURI = "file:///dev/stdin"

// maxInputCap bounds the input size regardless of the address-space limit.
const maxInputCap = 0xFFFFFFFF

// fallbackAddressSpace is assumed when the address-space limit is unknown.
const fallbackAddressSpace = 1 << 30

// ReadInput reads the named file. Files larger than max bytes are rejected.
// The origin URI is the file URI of the absolute path.
func ReadInput(name string, max int64) (*unhtml.Input, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, unhtml.Errorf(unhtml.EINVALID, "could not open %s: %v", name, err)
	}
	defer f.Close()

	if fi, err := f.Stat(); err == nil && fi.Mode().IsRegular() && fi.Size() > max {
		return nil, unhtml.Errorf(unhtml.ERESOURCE, "file too big (%d bytes, limit %d)", fi.Size(), max)
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		abs = name
	}
	return ReadInputFrom(f, fileURI(abs), max)
}

// ReadInputFrom reads r to the end. Input longer than max bytes is rejected
// rather than truncated.
func ReadInputFrom(r io.Reader, uri string, max int64) (*unhtml.Input, error) {
	var buf bytes.Buffer
	n, err := buf.ReadFrom(io.LimitReader(r, max+1))
	if err != nil {
		return nil, unhtml.Errorf(unhtml.EINVALID, "error reading input %s: %v", uri, err)
	}
	if n > max {
		return nil, unhtml.Errorf(unhtml.ERESOURCE, "input too big (more than %d bytes)", max)
	}
	return &unhtml.Input{Data: buf.Bytes(), URI: uri}, nil
}

// MaxInputSize returns the largest input accepted: a quarter of the process
// address-space limit, capped to 4 GiB.
func MaxInputSize() int64 {
	limit, ok := addressSpaceLimit()
	if !ok {
		limit = fallbackAddressSpace
	}
	return int64(min(limit/4, maxInputCap))
}

func fileURI(path string) string {
	path = filepath.ToSlash(path)
	if len(path) > 0 && path[0] != '/' {
		path = "/" + path
	}
	return "file://" + path
}
