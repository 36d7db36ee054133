package unhtml

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
)

// ConfigNamespace is the XML namespace of configuration fragment documents.
// Documents in any other namespace are not configuration and are ignored.
const ConfigNamespace = "tag:sw.cdefg.uk,2024:unhtml/config"

// ErrForeignNamespace is reported when a configuration source is a markup
// document outside ConfigNamespace.
var ErrForeignNamespace = errors.New("not an unhtml configuration document")

// Spacing is the synthetic whitespace emitted around an element.
type Spacing int

// Spacing classes.
const (
	SpacingNone Spacing = iota
	SpacingParagraph
	SpacingNewline
	SpacingSpace
)

// ParseSpacing converts a configuration attribute value to a Spacing.
// Unrecognised values, including the empty string, mean SpacingNone.
func ParseSpacing(s string) Spacing {
	switch s {
	case "para":
		return SpacingParagraph
	case "newline":
		return SpacingNewline
	case "space":
		return SpacingSpace
	}
	return SpacingNone
}

// String returns the configuration attribute value for the spacing.
func (s Spacing) String() string {
	switch s {
	case SpacingParagraph:
		return "para"
	case SpacingNewline:
		return "newline"
	case SpacingSpace:
		return "space"
	}
	return "none"
}

// Rule controls how a single element is rendered.
type Rule struct {
	Spacing Spacing
	// Skip suppresses everything inside the element. The element's own
	// spacing is still emitted.
	Skip bool
}

// Op says how a Fragment combines with the fragments before it.
type Op int

// Fragment operations.
const (
	// OpAdd upserts the fragment's entries into the accumulated rules.
	OpAdd Op = iota
	// OpReplace discards all accumulated rules first.
	OpReplace
)

// ParseOp converts a configuration attribute value to an Op.
// Anything other than "replace" is an add.
func ParseOp(s string) Op {
	if s == "replace" {
		return OpReplace
	}
	return OpAdd
}

// String returns the configuration attribute value for the op.
func (op Op) String() string {
	if op == OpReplace {
		return "replace"
	}
	return "add"
}

// Entry is one tag rule as written in a fragment. Tag is empty when the
// source omitted it; such entries are reported and skipped by LoadRules.
type Entry struct {
	Tag  string
	Rule Rule
}

// Fragment is one group of rules from a configuration source.
type Fragment struct {
	// Source names where the fragment came from, for diagnostics.
	Source  string
	Op      Op
	Entries []Entry
}

// Diagnostic is a recoverable problem found while loading configuration.
type Diagnostic struct {
	Source string
	Err    error
}

// String formats the diagnostic for display.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Source, ErrorMessage(d.Err))
}

// ConfigSource is a directory of configuration fragment documents.
type ConfigSource struct {
	// Name identifies the source in diagnostics (usually the directory path).
	Name string
	FS   fs.FS
}

// FragmentDecoder decodes configuration fragments from a markup document.
type FragmentDecoder interface {
	// DecodeFragments returns the fragments of a configuration document in
	// document order. Returns an error wrapping ErrForeignNamespace when the
	// document is not in ConfigNamespace.
	DecodeFragments(r io.Reader, source string) ([]Fragment, error)
}

// FragmentLoader discovers and decodes fragments from configuration sources.
type FragmentLoader interface {
	// LoadFragments returns the fragments of all sources in order.
	// Problems with individual documents are returned as diagnostics;
	// an error means the sources themselves could not be read.
	LoadFragments(sources []ConfigSource) ([]Fragment, []Diagnostic, error)
}

// Rules maps tag names to rendering rules. Rules is read-only once built
// and safe for concurrent use. A nil *Rules holds no rules.
type Rules struct {
	m map[string]Rule
}

// LoadRules builds Rules by applying fragments strictly in order.
// Entries without a tag are skipped and reported; they never abort the
// remaining entries or fragments. Within a fragment a later entry for the
// same tag wins.
func LoadRules(fragments []Fragment) (*Rules, []Diagnostic) {
	var diags []Diagnostic
	m := make(map[string]Rule)
	for _, frag := range fragments {
		if frag.Op == OpReplace {
			m = make(map[string]Rule)
		}
		for i, e := range frag.Entries {
			if e.Tag == "" {
				diags = append(diags, Diagnostic{
					Source: frag.Source,
					Err:    Errorf(EINVALID, "element %d: no tag specified", i+1),
				})
				continue
			}
			m[e.Tag] = e.Rule
		}
	}
	return &Rules{m: m}, diags
}

// Lookup returns the rule for tag. When no rule is configured it returns the
// zero Rule (no spacing, no skip) and false.
func (r *Rules) Lookup(tag string) (Rule, bool) {
	if r == nil {
		return Rule{}, false
	}
	rule, ok := r.m[tag]
	return rule, ok
}

// Len returns the number of configured tags.
func (r *Rules) Len() int {
	if r == nil {
		return 0
	}
	return len(r.m)
}

// Tags returns the configured tag names in lexical order.
func (r *Rules) Tags() []string {
	if r == nil {
		return nil
	}
	tags := make([]string, 0, len(r.m))
	for tag := range r.m {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
