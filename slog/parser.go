// Package slog decorates unhtml services with structured logging.
package slog

import (
	"log/slog"
	"regexp"
	"time"

	"github.com/fwojciec/unhtml"
)

// Ensure LoggingParser implements unhtml.Parser.
var _ unhtml.Parser = (*LoggingParser)(nil)

// LoggingParser wraps a Parser with logging of each parse.
type LoggingParser struct {
	next   unhtml.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next unhtml.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Name delegates to the wrapped parser.
func (p *LoggingParser) Name() string {
	return p.next.Name()
}

// Signature delegates to the wrapped parser.
func (p *LoggingParser) Signature() *regexp.Regexp {
	return p.next.Signature()
}

// Parse delegates to the wrapped parser and logs the operation.
func (p *LoggingParser) Parse(in *unhtml.Input, v unhtml.Visitor) (err error) {
	defer func(begin time.Time) {
		p.logger.Info("parse",
			"parser", p.next.Name(),
			"uri", in.URI,
			"bytes", len(in.Data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Parse(in, v)
}
