package logger

import (
	"log/slog"
	"time"
)

// Field keys shared by all log statements so lines can be aggregated and queried.
const (
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	// HTTP
	KeyRequestID = "request_id"
	KeyRoute     = "route"
	KeyMethod    = "method"
	KeyPath      = "path"
	KeyStatus    = "status"
	KeyClientIP  = "client_ip"
	KeyBytes     = "bytes"

	// Maturity model
	KeyTeam       = "team"
	KeyGroup      = "group"
	KeyActivity   = "activity"
	KeyDimension  = "dimension"
	KeyCategory   = "category"
	KeyLevel      = "level"
	KeyTitle      = "title"
	KeyActivities = "activities"
	KeyFile       = "file"

	// Storage
	KeyStore   = "store"
	KeyKey     = "key"
	KeyBucket  = "bucket"
	KeyRecords = "records"

	KeyDurationMs = "duration_ms"
	KeyError      = "error"
	KeyCount      = "count"
)

func TraceID(id string) slog.Attr { return slog.String(KeyTraceID, id) }

func SpanID(id string) slog.Attr { return slog.String(KeySpanID, id) }

func RequestID(id string) slog.Attr { return slog.String(KeyRequestID, id) }

func Team(name string) slog.Attr { return slog.String(KeyTeam, name) }

func Group(name string) slog.Attr { return slog.String(KeyGroup, name) }

func Activity(id string) slog.Attr { return slog.String(KeyActivity, id) }

func Dimension(name string) slog.Attr { return slog.String(KeyDimension, name) }

func Title(name string) slog.Attr { return slog.String(KeyTitle, name) }

func File(path string) slog.Attr { return slog.String(KeyFile, path) }

func Count(n int) slog.Attr { return slog.Int(KeyCount, n) }

// DurationMs records the elapsed time since start in milliseconds.
func DurationMs(start time.Time) slog.Attr {
	return slog.Float64(KeyDurationMs, Duration(start))
}

// Err returns an error attribute, or an empty attribute for a nil error which
// handlers drop.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
