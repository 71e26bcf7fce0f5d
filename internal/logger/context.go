package logger

import (
	"context"
	"time"
)

type contextKey struct{}

// LogContext carries request-scoped fields that the *Ctx functions add to
// every line.
type LogContext struct {
	TraceID   string
	SpanID    string
	RequestID string
	Route     string // HTTP method and route pattern
	ClientIP  string
	Team      string
	Activity  string // activity uuid or name
	StartTime time.Time
}

// WithContext stores lc in ctx.
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, contextKey{}, lc)
}

// FromContext returns the LogContext stored in ctx, or nil.
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(contextKey{}).(*LogContext)
	return lc
}

// NewLogContext starts a context for a request coming from clientIP.
func NewLogContext(requestID, clientIP string) *LogContext {
	return &LogContext{
		RequestID: requestID,
		ClientIP:  clientIP,
		StartTime: time.Now(),
	}
}

func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	c := *lc
	return &c
}

// WithTeam returns a copy scoped to a team.
func (lc *LogContext) WithTeam(team string) *LogContext {
	c := lc.Clone()
	if c != nil {
		c.Team = team
	}
	return c
}

// WithActivity returns a copy scoped to an activity.
func (lc *LogContext) WithActivity(activity string) *LogContext {
	c := lc.Clone()
	if c != nil {
		c.Activity = activity
	}
	return c
}

// WithTrace returns a copy carrying OpenTelemetry identifiers.
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	c := lc.Clone()
	if c != nil {
		c.TraceID = traceID
		c.SpanID = spanID
	}
	return c
}

// DurationMs is the time since StartTime in milliseconds, or 0 when unset.
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return Duration(lc.StartTime)
}
