package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/unhtml"
)

// Ensure LoggingFragmentLoader implements unhtml.FragmentLoader.
var _ unhtml.FragmentLoader = (*LoggingFragmentLoader)(nil)

// LoggingFragmentLoader wraps a FragmentLoader with debug logging.
type LoggingFragmentLoader struct {
	next   unhtml.FragmentLoader
	logger *slog.Logger
}

// NewLoggingFragmentLoader creates a new LoggingFragmentLoader.
func NewLoggingFragmentLoader(next unhtml.FragmentLoader, logger *slog.Logger) *LoggingFragmentLoader {
	return &LoggingFragmentLoader{next: next, logger: logger}
}

// LoadFragments delegates to the wrapped loader and logs the operation.
func (l *LoggingFragmentLoader) LoadFragments(sources []unhtml.ConfigSource) (frags []unhtml.Fragment, diags []unhtml.Diagnostic, err error) {
	defer func(begin time.Time) {
		names := make([]string, len(sources))
		for i, src := range sources {
			names[i] = src.Name
		}
		l.logger.Debug("load config",
			"sources", names,
			"fragments", len(frags),
			"diagnostics", len(diags),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.LoadFragments(sources)
}
