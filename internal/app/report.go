package app

import (
	"errors"
	"log/slog"

	"github.com/toxichemicals/GO/holy-glyph/internal/logx"
	"github.com/toxichemicals/GO/holy-glyph/internal/render"
	"github.com/toxichemicals/GO/holy-glyph/internal/shader"
)

// EnvironmentError means no drawing surface or GPU context could be
// obtained. Message is what the user sees.
type EnvironmentError struct {
	Message string
	Err     error
}

func (e *EnvironmentError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *EnvironmentError) Unwrap() error { return e.Err }

// ErrorSink displays a single message to the user.
type ErrorSink interface {
	Show(message string)
}

// Reporter turns errors into the one visible message. The latest report
// replaces the previous one.
type Reporter struct {
	sink ErrorSink
	log  *slog.Logger
	last string
}

// NewReporter returns a reporter writing to sink. A nil sink only logs.
func NewReporter(sink ErrorSink, log *slog.Logger) *Reporter {
	return &Reporter{sink: sink, log: logx.OrNop(log)}
}

// Report logs err and shows its user-facing message. A nil err is ignored.
func (r *Reporter) Report(err error) {
	if err == nil {
		return
	}
	msg := Message(err)
	r.log.Error(msg, "err", err)
	r.last = msg
	if r.sink != nil {
		r.sink.Show(msg)
	}
}

// Last returns the message most recently shown, or "".
func (r *Reporter) Last() string { return r.last }

// Message maps err to the text shown to the user.
func Message(err error) string {
	var (
		envErr   *EnvironmentError
		buildErr *shader.BuildError
		drawErr  *render.DrawError
	)
	switch {
	case errors.As(err, &envErr):
		return envErr.Message
	case errors.As(err, &buildErr):
		return "Failed to create shader program"
	case errors.As(err, &drawErr):
		return drawErr.Error()
	default:
		return "Error: " + err.Error()
	}
}
