package logger

import "time"

// Field keys used across restkit log events.
const (
	FieldComponent  = "component"
	FieldClient     = "client"
	FieldEndpoint   = "endpoint"
	FieldHTTPMethod = "http_method"
	FieldURL        = "url"
	FieldStatus     = "status"
	FieldCallID     = "call_id"
	FieldTraceID    = "trace_id"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldAsync      = "async"
)

// Fields builds a field map from alternating key-value pairs. Non-string keys
// and a trailing odd value are ignored.
//
//	log.Debug("dispatch", logger.Fields(logger.FieldEndpoint, "get_things", logger.FieldAsync, true))
func Fields(kvs ...any) map[string]any {
	m := make(map[string]any, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// DurationFields adds the elapsed time in milliseconds to fields, allocating
// the map when nil.
func DurationFields(fields map[string]any, d time.Duration) map[string]any {
	if fields == nil {
		fields = make(map[string]any, 1)
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}
