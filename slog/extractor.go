package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/unhtml"
)

// Ensure LoggingExtractor implements unhtml.Extractor.
var _ unhtml.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   unhtml.Extractor
	name   string
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor. Name identifies the
// extractor in log records.
func NewLoggingExtractor(next unhtml.Extractor, name string, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, name: name, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(in *unhtml.Input) (out *unhtml.Input, err error) {
	defer func(begin time.Time) {
		outBytes := 0
		if out != nil {
			outBytes = len(out.Data)
		}
		e.logger.Info("extract",
			"extractor", e.name,
			"uri", in.URI,
			"bytes_in", len(in.Data),
			"bytes_out", outBytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(in)
}
