// Package charset converts input documents to UTF-8 using
// golang.org/x/net/html/charset.
package charset

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// NewUTF8Reader returns a reader of data converted to UTF-8. A UTF-8 byte
// order mark is dropped and valid UTF-8 is passed through; otherwise the
// encoding is taken from a byte order mark or <meta> declaration, defaulting
// to windows-1252.
func NewUTF8Reader(data []byte) io.Reader {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return bytes.NewReader(data)
	}
	_, name, _ := charset.DetermineEncoding(data, "")
	r, err := charset.NewReaderLabel(name, bytes.NewReader(data))
	if err != nil {
		return bytes.NewReader(data)
	}
	return r
}
