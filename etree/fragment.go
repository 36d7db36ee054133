package etree

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
	"github.com/fwojciec/unhtml"
	"golang.org/x/net/html/charset"
)

// Ensure FragmentDecoder implements unhtml.FragmentDecoder at compile time.
var _ unhtml.FragmentDecoder = (*FragmentDecoder)(nil)

// skipSentinel is the value of the skip attribute that enables skipping.
const skipSentinel = "skip"

// FragmentDecoder decodes unhtml configuration documents:
//
//	<config xmlns="tag:sw.cdefg.uk,2024:unhtml/config">
//	  <elements op="add">
//	    <element tag="p" spacing="para"/>
//	    <element tag="head" skip="skip"/>
//	  </elements>
//	</config>
//
// Each elements group becomes one fragment.
type FragmentDecoder struct{}

// NewFragmentDecoder creates a new FragmentDecoder.
func NewFragmentDecoder() *FragmentDecoder {
	return &FragmentDecoder{}
}

// DecodeFragments returns the elements groups of a configuration document in
// document order. Entries without a tag attribute are kept with an empty tag
// so unhtml.LoadRules can report them.
func (d *FragmentDecoder) DecodeFragments(r io.Reader, source string) ([]unhtml.Fragment, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, unhtml.Errorf(unhtml.EPARSE, "%v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, unhtml.Errorf(unhtml.EPARSE, "no root element")
	}
	if ns := root.NamespaceURI(); ns != unhtml.ConfigNamespace {
		return nil, fmt.Errorf("namespace %q: %w", ns, unhtml.ErrForeignNamespace)
	}

	var fragments []unhtml.Fragment
	for _, group := range root.SelectElements("elements") {
		frag := unhtml.Fragment{
			Source: source,
			Op:     unhtml.ParseOp(group.SelectAttrValue("op", "")),
		}
		for _, el := range group.SelectElements("element") {
			frag.Entries = append(frag.Entries, unhtml.Entry{
				Tag: el.SelectAttrValue("tag", ""),
				Rule: unhtml.Rule{
					Spacing: unhtml.ParseSpacing(el.SelectAttrValue("spacing", "")),
					Skip:    el.SelectAttrValue("skip", "") == skipSentinel,
				},
			})
		}
		fragments = append(fragments, frag)
	}
	return fragments, nil
}
