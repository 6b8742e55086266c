package status

import (
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cameronsjo/racoon/internal/manifest"
)

// LogObserver writes each notification as a structured JSON event. Every
// event of one run carries the same run_id.
type LogObserver struct {
	log   zerolog.Logger
	runID string
}

var _ manifest.Observer = (*LogObserver)(nil)

// NewLogObserver returns a LogObserver writing newline-delimited JSON to w.
func NewLogObserver(w io.Writer) *LogObserver {
	runID := uuid.NewString()
	return &LogObserver{
		log:   zerolog.New(w).With().Timestamp().Str("run_id", runID).Logger(),
		runID: runID,
	}
}

// RunID returns the identifier stamped on every event.
func (l *LogObserver) RunID() string { return l.runID }

func (l *LogObserver) ManifestParsingStart(name string) {
	l.log.Info().Str("event", "manifest_parsing_start").Str("manifest", name).Send()
}

func (l *LogObserver) ManifestParsingEnd(name string) {
	l.log.Info().Str("event", "manifest_parsing_end").Str("manifest", name).Send()
}

func (l *LogObserver) FileStart(src, dst string, persist bool) {
	l.log.Info().
		Str("event", "file_start").
		Str("src", src).
		Str("dst", dst).
		Bool("persist", persist).
		Send()
}

func (l *LogObserver) FileEnd(src, dst string, persist, failed bool) {
	l.level(failed).
		Str("event", "file_end").
		Str("src", src).
		Str("dst", dst).
		Bool("persist", persist).
		Bool("failed", failed).
		Send()
}

func (l *LogObserver) VerifyStart(path string) {
	l.log.Debug().Str("event", "verify_start").Str("path", path).Send()
}

func (l *LogObserver) VerifyEnd(path string, failed bool) {
	l.level(failed).
		Str("event", "verify_end").
		Str("path", path).
		Bool("failed", failed).
		Send()
}

func (l *LogObserver) level(failed bool) *zerolog.Event {
	if failed {
		return l.log.Error()
	}
	return l.log.Info()
}
