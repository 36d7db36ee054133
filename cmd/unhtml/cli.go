package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/unhtml"
	"github.com/fwojciec/unhtml/readability"
	unslog "github.com/fwojciec/unhtml/slog"
	"github.com/fwojciec/unhtml/trafilatura"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	File            string   `arg:"" optional:"" help:"Input document, or - for standard input (default: standard input)"`
	Parser          string   `short:"p" env:"UNHTML_PARSER" placeholder:"NAME" help:"Parser to use (${parsers}); chosen from the content when unset"`
	Mode            string   `short:"m" enum:"smart,literal" default:"smart" env:"UNHTML_MODE" help:"Whitespace mode (smart, literal)"`
	Comment         bool     `short:"c" help:"Include comments in the output"`
	CData           string   `name:"cdata" enum:"text,comment" default:"text" help:"Treat CDATA sections as text or as comments"`
	ConfigDir       []string `short:"C" name:"config-dir" env:"UNHTML_CONFIG_DIR" type:"path" placeholder:"DIR" help:"Read element rules from DIR after the defaults (repeatable)"`
	NoDefaultConfig bool     `help:"Ignore the built-in, system and user element rules"`
	Select          string   `short:"s" placeholder:"CSS" help:"Render only elements matching a CSS selector (tagsoup parser)"`
	Extract         string   `short:"x" placeholder:"NAME" help:"Reduce the input to its main content first (trafilatura, readability); requires the tagsoup parser"`
	DumpConfig      bool     `help:"Print the effective element rules and exit"`
	Verbose         int      `short:"v" type:"counter" help:"Increase log verbosity (repeatable)"`
	Version         bool     `short:"V" help:"Print version and exit"`
}

// renderOptions returns the renderer options selected on the command line.
func (c *CLI) renderOptions() (unhtml.RenderOptions, error) {
	mode, err := unhtml.ParseMode(c.Mode)
	if err != nil {
		return unhtml.RenderOptions{}, err
	}
	return unhtml.RenderOptions{
		Mode:           mode,
		Comments:       c.Comment,
		CDataAsComment: c.CData == "comment",
	}, nil
}

// logLevel maps the -v count to a level: warnings by default, then info,
// then debug.
func (c *CLI) logLevel() slog.Level {
	return max(slog.LevelWarn-slog.Level(4*c.Verbose), slog.LevelDebug)
}

// extractor returns the main-content extractor named by --extract, or nil.
func (c *CLI) extractor(logger *slog.Logger) (unhtml.Extractor, error) {
	var ext unhtml.Extractor
	switch c.Extract {
	case "":
		return nil, nil
	case "trafilatura":
		ext = trafilatura.NewExtractor()
	case "readability":
		ext = readability.NewExtractor()
	default:
		return nil, unhtml.Errorf(unhtml.ECONFIG, "unknown extractor %q (available: trafilatura, readability)", c.Extract)
	}
	return unslog.NewLoggingExtractor(ext, c.Extract, logger), nil
}

// dumpRules writes one line per configured tag in lexical order.
func dumpRules(w io.Writer, rules *unhtml.Rules) error {
	for _, tag := range rules.Tags() {
		rule, _ := rules.Lookup(tag)
		line := tag + "\t" + rule.Spacing.String()
		if rule.Skip {
			line += "\tskip"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
