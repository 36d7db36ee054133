package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/unhtml"
	"github.com/fwojciec/unhtml/etree"
	"github.com/fwojciec/unhtml/fs"
	"github.com/fwojciec/unhtml/goquery"
	unslog "github.com/fwojciec/unhtml/slog"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "unhtml: "+unhtml.ErrorMessage(err))
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Input read when no file is named.
	Stdin io.Reader

	// DefaultSources returns the configuration sources read unless
	// --no-default-config is given.
	DefaultSources func() []unhtml.ConfigSource

	// MaxInputSize is the largest accepted input in bytes.
	MaxInputSize int64
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Stdin:          os.Stdin,
		DefaultSources: fs.DefaultSources,
		MaxInputSize:   fs.MaxInputSize(),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	names, err := parserNames()
	if err != nil {
		return err
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("unhtml"),
		kong.Description("Convert HTML and XML documents to plain text"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"parsers": strings.Join(names, ", ")},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags
	if slices.ContainsFunc(args, isHelp) {
		_, _ = parser.Parse([]string{"--help"})
		fmt.Fprintf(stdout, "\nunhtml %s, maximum input size %d bytes\n", version, m.MaxInputSize)
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	if cli.Version {
		fmt.Fprintf(stdout, "unhtml %s\n", version)
		return nil
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cli.logLevel()}))

	opts, err := cli.renderOptions()
	if err != nil {
		return err
	}
	extractor, err := cli.extractor(logger)
	if err != nil {
		return err
	}
	registry, err := newRegistry(cli.Select, logger)
	if err != nil {
		return err
	}
	if cli.Parser != "" {
		if _, err := registry.Select(cli.Parser, nil); err != nil {
			return err
		}
		// Extractors produce HTML5 fragments that only the tagsoup parser
		// reads reliably.
		if extractor != nil && cli.Parser != tagsoupName {
			return unhtml.Errorf(unhtml.ECONFIG, "--extract cannot be combined with --parser %s", cli.Parser)
		}
	}

	rules, err := m.loadRules(cli, logger)
	if err != nil {
		return err
	}

	if cli.DumpConfig {
		return dumpRules(stdout, rules)
	}

	in, err := m.readInput(cli.File)
	if err != nil {
		return err
	}
	if extractor != nil {
		if in, err = extractor.Extract(in); err != nil {
			return err
		}
	}

	p, err := registry.Select(cli.Parser, in.Data)
	if err != nil {
		return err
	}
	logger.Debug("parser selected", "parser", p.Name(), "explicit", cli.Parser != "")

	w := bufio.NewWriter(stdout)
	renderErr := unhtml.Render(w, p, in, rules, opts)
	if err := w.Flush(); err != nil && renderErr == nil {
		renderErr = err
	}
	return renderErr
}

// loadRules builds the element rules from the default sources, unless
// disabled, followed by every --config-dir. Problems with individual
// documents are logged and otherwise ignored.
func (m *Main) loadRules(cli *CLI, logger *slog.Logger) (*unhtml.Rules, error) {
	var sources []unhtml.ConfigSource
	if !cli.NoDefaultConfig && m.DefaultSources != nil {
		sources = append(sources, m.DefaultSources()...)
	}
	for _, dir := range cli.ConfigDir {
		sources = append(sources, fs.DirSource(dir))
	}

	loader := unslog.NewLoggingFragmentLoader(fs.NewFragmentLoader(etree.NewFragmentDecoder()), logger)
	fragments, diags, err := loader.LoadFragments(sources)
	if err != nil {
		return nil, err
	}
	rules, ruleDiags := unhtml.LoadRules(fragments)

	for _, d := range append(diags, ruleDiags...) {
		if errors.Is(d.Err, unhtml.ErrForeignNamespace) {
			logger.Debug("skipping foreign document", "source", d.Source, "err", unhtml.ErrorMessage(d.Err))
			continue
		}
		logger.Warn("ignoring configuration", "source", d.Source, "err", unhtml.ErrorMessage(d.Err))
	}
	logger.Info("rules loaded", "tags", rules.Len())
	return rules, nil
}

func (m *Main) readInput(file string) (*unhtml.Input, error) {
	if file == "" || file == "-" {
		return fs.ReadInputFrom(m.Stdin, fs.StdinURI, m.MaxInputSize)
	}
	return fs.ReadInput(file, m.MaxInputSize)
}

// tagsoupName is the name of the default parser, the only one that accepts
// extractor output.
const tagsoupName = "tagsoup"

// newRegistry returns the parsers in selection order: tagsoup, which is the
// default, then the strict html and xml parsers.
func newRegistry(selector string, logger *slog.Logger) (*unhtml.Registry, error) {
	var opts []goquery.Option
	if selector != "" {
		opts = append(opts, goquery.WithSelector(selector))
	}
	tagsoup, err := goquery.NewParser(opts...)
	if err != nil {
		return nil, err
	}
	return unhtml.NewRegistry(
		unslog.NewLoggingParser(tagsoup, logger),
		unslog.NewLoggingParser(etree.NewHTMLParser(), logger),
		unslog.NewLoggingParser(etree.NewXMLParser(), logger),
	), nil
}

func parserNames() ([]string, error) {
	registry, err := newRegistry("", slog.New(slog.DiscardHandler))
	if err != nil {
		return nil, err
	}
	return registry.Names(), nil
}

func isHelp(arg string) bool {
	return arg == "--help" || arg == "-h"
}
