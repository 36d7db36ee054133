package unhtml

import (
	"io"
)

// Mode selects whether element rules produce synthetic whitespace.
type Mode int

// Render modes.
const (
	// ModeSmart applies element spacing rules.
	ModeSmart Mode = iota
	// ModeLiteral writes only text and comment payloads.
	ModeLiteral
)

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "smart":
		return ModeSmart, nil
	case "literal":
		return ModeLiteral, nil
	}
	return ModeSmart, Errorf(EINVALID, "unknown render mode %q", s)
}

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeLiteral {
		return "literal"
	}
	return "smart"
}

// NodeKind classifies a character payload reported by a parser.
type NodeKind int

// Payload kinds.
const (
	KindText NodeKind = iota
	KindWhitespace
	KindCData
	KindComment
)

// Visitor receives document events in document order.
type Visitor interface {
	// EnterElement is called when an element starts. It reports whether the
	// parser should descend into the element's children. LeaveElement is
	// called for the element either way.
	EnterElement(tag string) bool

	// LeaveElement is called when an element ends.
	LeaveElement(tag string)

	// Text is called for character data, CDATA sections and comments.
	Text(kind NodeKind, data string)
}

// RenderOptions control what the Renderer writes.
type RenderOptions struct {
	Mode Mode

	// Comments includes comment payloads in the output.
	Comments bool

	// CDataAsComment classifies CDATA sections as comments, so they are
	// written only when Comments is set.
	CDataAsComment bool
}

// RenderState describes the tail of the output written so far.
type RenderState int

// Render states.
const (
	StateAtLineStart RenderState = iota
	StateAfterSingleNewline
	StateAfterMultipleNewlines
	StateAfterSpace
	StateAfterMultipleSpaces
	StateInText
)

// String returns a short name for the state.
func (s RenderState) String() string {
	switch s {
	case StateAtLineStart:
		return "line-start"
	case StateAfterSingleNewline:
		return "newline"
	case StateAfterMultipleNewlines:
		return "newlines"
	case StateAfterSpace:
		return "space"
	case StateAfterMultipleSpaces:
		return "spaces"
	}
	return "text"
}

// Ensure Renderer implements Visitor at compile time.
var _ Visitor = (*Renderer)(nil)

// Renderer is a Visitor writing plain text to an io.Writer.
//
// Each boundary crossing of a spaced element writes its spacing exactly once,
// so output is a pure function of the event sequence. State tracks the tail
// of what has been written. The first write error is kept and returned by
// Err; nothing is written after it.
type Renderer struct {
	w     io.Writer
	rules *Rules
	opts  RenderOptions
	state RenderState
	err   error
}

// NewRenderer returns a Renderer writing to w. A nil rules renders every
// element with default (empty) spacing.
func NewRenderer(w io.Writer, rules *Rules, opts RenderOptions) *Renderer {
	return &Renderer{w: w, rules: rules, opts: opts}
}

// EnterElement emits the element's entry spacing and reports whether its
// content should be visited.
func (r *Renderer) EnterElement(tag string) bool {
	rule, _ := r.rules.Lookup(tag)
	r.spacing(rule.Spacing, true)
	return !rule.Skip
}

// LeaveElement emits the element's exit spacing.
func (r *Renderer) LeaveElement(tag string) {
	rule, _ := r.rules.Lookup(tag)
	r.spacing(rule.Spacing, false)
}

// Text writes a payload verbatim, subject to the comment filter.
func (r *Renderer) Text(kind NodeKind, data string) {
	if kind == KindCData && r.opts.CDataAsComment {
		kind = KindComment
	}
	if kind == KindComment && !r.opts.Comments {
		return
	}
	r.emit(data)
}

// State returns the current render state.
func (r *Renderer) State() RenderState {
	return r.state
}

// Err returns the first error encountered writing output.
func (r *Renderer) Err() error {
	return r.err
}

// spacing writes the synthetic whitespace for one boundary crossing. Every
// paragraph crossing writes a line break, so the exit of one paragraph and
// the entry of the next form a blank line between them.
func (r *Renderer) spacing(s Spacing, entering bool) {
	if r.opts.Mode == ModeLiteral {
		return
	}
	switch s {
	case SpacingParagraph:
		r.emit("\n")
	case SpacingNewline:
		if entering {
			r.emit("\n")
		}
	case SpacingSpace:
		if entering {
			r.emit(" ")
		}
	}
}

func (r *Renderer) emit(s string) {
	if r.err != nil || s == "" {
		return
	}
	if _, err := io.WriteString(r.w, s); err != nil {
		r.err = err
		return
	}
	r.state = advance(r.state, s)
}

// advance returns the state after s has been written in state.
func advance(state RenderState, s string) RenderState {
	i := len(s)
	for i > 0 && s[i-1] == '\n' {
		i--
	}
	if n := len(s) - i; n > 0 {
		if n > 1 || (i == 0 && (state == StateAfterSingleNewline || state == StateAfterMultipleNewlines)) {
			return StateAfterMultipleNewlines
		}
		return StateAfterSingleNewline
	}
	for i > 0 && (s[i-1] == ' ' || s[i-1] == '\t') {
		i--
	}
	if n := len(s) - i; n > 0 {
		if n > 1 || (i == 0 && (state == StateAfterSpace || state == StateAfterMultipleSpaces)) {
			return StateAfterMultipleSpaces
		}
		return StateAfterSpace
	}
	return StateInText
}

// Render parses in with p and writes its text to w.
func Render(w io.Writer, p Parser, in *Input, rules *Rules, opts RenderOptions) error {
	r := NewRenderer(w, rules, opts)
	if err := p.Parse(in, r); err != nil {
		return err
	}
	return r.Err()
}
