package unhtml_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/unhtml"
	"github.com/fwojciec/unhtml/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// node is a minimal document tree replayed into a Visitor the way a parser
// backend would.
type node struct {
	tag      string
	kind     unhtml.NodeKind
	text     string
	children []node
}

func el(tag string, children ...node) node {
	return node{tag: tag, children: children}
}

func text(s string) node {
	return node{kind: unhtml.KindText, text: s}
}

func payload(kind unhtml.NodeKind, s string) node {
	return node{kind: kind, text: s}
}

func replay(v unhtml.Visitor, n node) {
	if n.tag == "" {
		v.Text(n.kind, n.text)
		return
	}
	if v.EnterElement(n.tag) && !unhtml.ContentExempt(n.tag) {
		for _, c := range n.children {
			replay(v, c)
		}
	}
	v.LeaveElement(n.tag)
}

func treeParser(nodes ...node) *mock.Parser {
	return &mock.Parser{
		NameFn: func() string { return "tree" },
		ParseFn: func(in *unhtml.Input, v unhtml.Visitor) error {
			for _, n := range nodes {
				replay(v, n)
			}
			return nil
		},
	}
}

func ruleSet(t *testing.T, entries ...unhtml.Entry) *unhtml.Rules {
	t.Helper()
	rules, diags := unhtml.LoadRules([]unhtml.Fragment{{Op: unhtml.OpAdd, Entries: entries}})
	require.Empty(t, diags)
	return rules
}

func render(t *testing.T, rules *unhtml.Rules, opts unhtml.RenderOptions, nodes ...node) string {
	t.Helper()
	var buf bytes.Buffer
	err := unhtml.Render(&buf, treeParser(nodes...), &unhtml.Input{}, rules, opts)
	require.NoError(t, err)
	return buf.String()
}

var (
	para    = unhtml.Rule{Spacing: unhtml.SpacingParagraph}
	newline = unhtml.Rule{Spacing: unhtml.SpacingNewline}
	space   = unhtml.Rule{Spacing: unhtml.SpacingSpace}
)

func TestRenderer_Spacing(t *testing.T) {
	t.Parallel()

	t.Run("paragraph breaks around each paragraph", func(t *testing.T) {
		t.Parallel()

		rules := ruleSet(t, unhtml.Entry{Tag: "p", Rule: para})

		got := render(t, rules, unhtml.RenderOptions{},
			el("p", text("A")), el("p", text("B")))

		assert.Equal(t, "\nA\n\nB\n", got)
	})

	t.Run("paragraph break evaluated at every boundary crossing", func(t *testing.T) {
		t.Parallel()

		rules := ruleSet(t, unhtml.Entry{Tag: "p", Rule: para})
		var buf bytes.Buffer
		r := unhtml.NewRenderer(&buf, rules, unhtml.RenderOptions{})
		var trace []string

		r.Text(unhtml.KindText, "intro")
		r.EnterElement("p")
		trace = append(trace, buf.String())
		r.Text(unhtml.KindText, "A")
		r.LeaveElement("p")
		trace = append(trace, buf.String())
		r.EnterElement("p")
		trace = append(trace, buf.String())
		r.Text(unhtml.KindText, "B")
		r.LeaveElement("p")
		trace = append(trace, buf.String())

		assert.Equal(t, []string{
			"intro\n",
			"intro\nA\n",
			"intro\nA\n\n",
			"intro\nA\n\nB\n",
		}, trace)
		for i := 1; i < len(trace); i++ {
			assert.Greater(t, len(trace[i]), len(trace[i-1]))
		}
		assert.Equal(t, unhtml.StateAfterSingleNewline, r.State())
	})

	t.Run("paragraph break follows existing newlines", func(t *testing.T) {
		t.Parallel()

		rules := ruleSet(t, unhtml.Entry{Tag: "p", Rule: para})

		got := render(t, rules, unhtml.RenderOptions{},
			text("line\n"), el("p", text("A")))

		assert.Equal(t, "line\n\nA\n", got)
	})

	t.Run("newline only on entry", func(t *testing.T) {
		t.Parallel()

		rules := ruleSet(t, unhtml.Entry{Tag: "br", Rule: newline})

		got := render(t, rules, unhtml.RenderOptions{}, el("br"), text("text"))

		assert.Equal(t, "\ntext", got)
		assert.Equal(t, 1, strings.Count(got, "\n"))
	})

	t.Run("consecutive newlines are not collapsed", func(t *testing.T) {
		t.Parallel()

		rules := ruleSet(t, unhtml.Entry{Tag: "br", Rule: newline})

		got := render(t, rules, unhtml.RenderOptions{},
			text("a"), el("br"), el("br"), text("b"))

		assert.Equal(t, "a\n\nb", got)
	})

	t.Run("space only on entry", func(t *testing.T) {
		t.Parallel()

		rules := ruleSet(t, unhtml.Entry{Tag: "td", Rule: space})

		got := render(t, rules, unhtml.RenderOptions{},
			el("td", text("a")), el("td", text("b")), text("c "), el("td", text("d")))

		assert.Equal(t, " a bc  d", got)
	})

	t.Run("unconfigured elements add nothing", func(t *testing.T) {
		t.Parallel()

		got := render(t, nil, unhtml.RenderOptions{},
			el("div", el("span", text("a")), text("b")))

		assert.Equal(t, "ab", got)
	})

	t.Run("literal mode writes no spacing", func(t *testing.T) {
		t.Parallel()

		rules := ruleSet(t,
			unhtml.Entry{Tag: "p", Rule: para},
			unhtml.Entry{Tag: "br", Rule: newline},
			unhtml.Entry{Tag: "td", Rule: space},
		)

		got := render(t, rules, unhtml.RenderOptions{Mode: unhtml.ModeLiteral, Comments: true},
			el("p", text("A"), el("br"), el("td", text("B"))), payload(unhtml.KindComment, "C"))

		assert.Equal(t, "ABC", got)
	})
}

func TestRenderer_Skip(t *testing.T) {
	t.Parallel()

	rules := ruleSet(t, unhtml.Entry{Tag: "x", Rule: unhtml.Rule{Spacing: unhtml.SpacingParagraph, Skip: true}})
	var buf bytes.Buffer
	r := unhtml.NewRenderer(&buf, rules, unhtml.RenderOptions{})
	enters := map[string]int{}
	leaves := map[string]int{}
	spy := &mock.Visitor{
		EnterElementFn: func(tag string) bool {
			enters[tag]++
			return r.EnterElement(tag)
		},
		LeaveElementFn: func(tag string) {
			leaves[tag]++
			r.LeaveElement(tag)
		},
		TextFn: r.Text,
	}

	replay(spy, text("a"))
	replay(spy, el("x", el("y", text("hello"))))
	replay(spy, text("b"))

	require.NoError(t, r.Err())
	assert.NotContains(t, buf.String(), "hello")
	assert.Equal(t, "a\n\nb", buf.String())
	assert.Equal(t, 1, enters["x"])
	assert.Equal(t, 1, leaves["x"])
	assert.Zero(t, enters["y"])
}

func TestRenderer_SkipAtStart(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		rule unhtml.Rule
		want string
	}{
		{"paragraph", unhtml.Rule{Spacing: unhtml.SpacingParagraph, Skip: true}, "\n\n"},
		{"newline", unhtml.Rule{Spacing: unhtml.SpacingNewline, Skip: true}, "\n"},
		{"space", unhtml.Rule{Spacing: unhtml.SpacingSpace, Skip: true}, " "},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rules := ruleSet(t, unhtml.Entry{Tag: "x", Rule: tc.rule})

			got := render(t, rules, unhtml.RenderOptions{}, el("x", el("y", text("hello"))))

			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRenderer_ContentExempt(t *testing.T) {
	t.Parallel()

	rules := ruleSet(t,
		unhtml.Entry{Tag: "script", Rule: newline},
		unhtml.Entry{Tag: "style", Rule: unhtml.Rule{}},
	)

	got := render(t, rules, unhtml.RenderOptions{},
		text("a"), el("script", text("alert(1)")), el("style", text("p{}")), text("b"))

	assert.Equal(t, "a\nb", got)
}

func TestRenderer_Payloads(t *testing.T) {
	t.Parallel()

	doc := []node{
		text("t"),
		payload(unhtml.KindWhitespace, " "),
		payload(unhtml.KindCData, "c"),
		payload(unhtml.KindComment, "m"),
	}

	for _, tc := range []struct {
		name string
		opts unhtml.RenderOptions
		want string
	}{
		{"defaults drop comments", unhtml.RenderOptions{}, "t c"},
		{"comments included", unhtml.RenderOptions{Comments: true}, "t cm"},
		{"cdata as comment dropped", unhtml.RenderOptions{CDataAsComment: true}, "t "},
		{"cdata as comment included", unhtml.RenderOptions{CDataAsComment: true, Comments: true}, "t cm"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, render(t, nil, tc.opts, doc...))
		})
	}
}

func TestRenderer_Deterministic(t *testing.T) {
	t.Parallel()

	rules := ruleSet(t,
		unhtml.Entry{Tag: "p", Rule: para},
		unhtml.Entry{Tag: "br", Rule: newline},
		unhtml.Entry{Tag: "td", Rule: space},
	)
	doc := []node{
		el("p", text("one"), el("br"), text("two")),
		el("table", el("td", text("a")), el("td", text("b"))),
		el("p", text("three")),
	}

	first := render(t, rules, unhtml.RenderOptions{}, doc...)
	second := render(t, rules, unhtml.RenderOptions{}, doc...)

	assert.Equal(t, first, second)
	assert.Equal(t, "\none\ntwo\n a b\nthree\n", first)
}

func TestRenderer_State(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name   string
		writes []string
		want   unhtml.RenderState
	}{
		{"nothing written", nil, unhtml.StateAtLineStart},
		{"empty text", []string{""}, unhtml.StateAtLineStart},
		{"text", []string{"abc"}, unhtml.StateInText},
		{"single newline", []string{"abc\n"}, unhtml.StateAfterSingleNewline},
		{"two newlines", []string{"abc\n\n"}, unhtml.StateAfterMultipleNewlines},
		{"newline split across writes", []string{"abc\n", "\n"}, unhtml.StateAfterMultipleNewlines},
		{"single space", []string{"abc "}, unhtml.StateAfterSpace},
		{"tab counts as space", []string{"abc\t"}, unhtml.StateAfterSpace},
		{"two spaces", []string{"abc  "}, unhtml.StateAfterMultipleSpaces},
		{"space split across writes", []string{"abc ", " "}, unhtml.StateAfterMultipleSpaces},
		{"text after newline", []string{"\n", "x"}, unhtml.StateInText},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			r := unhtml.NewRenderer(&buf, nil, unhtml.RenderOptions{})
			for _, s := range tc.writes {
				r.Text(unhtml.KindText, s)
			}

			assert.Equal(t, tc.want, r.State())
		})
	}
}

type failingWriter struct {
	writes int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("broken pipe")
}

func TestRender_WriteError(t *testing.T) {
	t.Parallel()

	w := &failingWriter{}

	err := unhtml.Render(w, treeParser(text("a"), text("b")), &unhtml.Input{}, nil, unhtml.RenderOptions{})

	require.Error(t, err)
	assert.Equal(t, "broken pipe", err.Error())
	assert.Equal(t, 1, w.writes)
}

func TestRender_ParseError(t *testing.T) {
	t.Parallel()

	p := &mock.Parser{
		ParseFn: func(in *unhtml.Input, v unhtml.Visitor) error {
			v.Text(unhtml.KindText, "partial")
			return unhtml.Errorf(unhtml.EPARSE, "%s: unexpected EOF", in.URI)
		},
	}
	var buf bytes.Buffer

	err := unhtml.Render(&buf, p, &unhtml.Input{URI: "file:///doc.html"}, nil, unhtml.RenderOptions{})

	require.Error(t, err)
	assert.Equal(t, unhtml.EPARSE, unhtml.ErrorCode(err))
	assert.Equal(t, "partial", buf.String())
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	mode, err := unhtml.ParseMode("literal")
	require.NoError(t, err)
	assert.Equal(t, unhtml.ModeLiteral, mode)

	mode, err = unhtml.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, unhtml.ModeSmart, mode)

	_, err = unhtml.ParseMode("fancy")
	assert.Equal(t, unhtml.EINVALID, unhtml.ErrorCode(err))
}
