package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys.
const (
	AttrClientIP = "client.ip"

	AttrHTTPRoute  = "http.route"
	AttrHTTPMethod = "http.request.method"
	AttrHTTPStatus = "http.response.status_code"

	AttrTeam       = "dsomm.team"
	AttrGroup      = "dsomm.group"
	AttrActivity   = "dsomm.activity.uuid"
	AttrTitle      = "dsomm.progress.title"
	AttrFile       = "dsomm.file"
	AttrActivities = "dsomm.activities"
	AttrSource     = "dsomm.source"

	AttrStoreType = "store.type"
	AttrKey       = "storage.key"
	AttrBucket    = "storage.bucket"
)

// Span names, formatted <component>.<operation>.
const (
	SpanDataLoad       = "data.load"
	SpanDataMeta       = "data.meta"
	SpanDataActivities = "data.activities"
	SpanDataProgress   = "data.progress"

	SpanProgressSet    = "progress.set"
	SpanProgressDelete = "progress.delete"
	SpanTeamsUpdate    = "teams.update"
	SpanTeamsReset     = "teams.reset"

	SpanStoreLoad  = "store.load"
	SpanStoreSave  = "store.save"
	SpanStoreQuery = "store.query"
)

func ClientIP(ip string) attribute.KeyValue { return attribute.String(AttrClientIP, ip) }

func HTTPRoute(route string) attribute.KeyValue { return attribute.String(AttrHTTPRoute, route) }

func HTTPMethod(method string) attribute.KeyValue { return attribute.String(AttrHTTPMethod, method) }

func HTTPStatus(code int) attribute.KeyValue { return attribute.Int(AttrHTTPStatus, code) }

func Team(name string) attribute.KeyValue { return attribute.String(AttrTeam, name) }

func Group(name string) attribute.KeyValue { return attribute.String(AttrGroup, name) }

func Activity(uuid string) attribute.KeyValue { return attribute.String(AttrActivity, uuid) }

func Title(title string) attribute.KeyValue { return attribute.String(AttrTitle, title) }

func File(path string) attribute.KeyValue { return attribute.String(AttrFile, path) }

func Activities(n int) attribute.KeyValue { return attribute.Int(AttrActivities, n) }

func Source(name string) attribute.KeyValue { return attribute.String(AttrSource, name) }

func StoreType(t string) attribute.KeyValue { return attribute.String(AttrStoreType, t) }

func StorageKey(key string) attribute.KeyValue { return attribute.String(AttrKey, key) }

func Bucket(name string) attribute.KeyValue { return attribute.String(AttrBucket, name) }

// StartDataSpan starts a span for a YAML loading step.
func StartDataSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, name, trace.WithAttributes(attrs...))
}

// StartProgressSpan starts a span for a progress mutation of one team.
func StartProgressSpan(ctx context.Context, name, uuid, team string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := make([]attribute.KeyValue, 0, len(attrs)+2)
	if uuid != "" {
		all = append(all, Activity(uuid))
	}
	if team != "" {
		all = append(all, Team(team))
	}
	all = append(all, attrs...)
	return StartSpan(ctx, name, trace.WithAttributes(all...))
}

// StartStoreSpan starts a client span for a state store call.
func StartStoreSpan(ctx context.Context, name, storeType string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := append([]attribute.KeyValue{StoreType(storeType)}, attrs...)
	return StartSpan(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(all...))
}
