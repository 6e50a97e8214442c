package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
	if cfg.ServiceVersion == "" {
		t.Error("expected ServiceVersion from build info")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1, "AlwaysOnSampler"},
		{2, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
	}
	for _, tt := range tests {
		if got := sampler(tt.rate).Description(); got != tt.want {
			t.Errorf("sampler(%v) = %s, want %s", tt.rate, got, tt.want)
		}
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("svc", "1.2.3", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	set := res.Set()
	if v, ok := set.Value("service.name"); !ok || v.AsString() != "svc" {
		t.Errorf("service.name = %v", v)
	}
	if v, ok := set.Value("service.version"); !ok || v.AsString() != "1.2.3" {
		t.Errorf("service.version = %v", v)
	}
}

func TestNewMetrics_Noop(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	ctx := context.Background()
	metrics.RecordCallStart(ctx, "things", "get_things")
	metrics.RecordCallEnd(ctx, "things", "get_things", OutcomeOK, 100*time.Millisecond)
	metrics.RecordAsyncSubmit(ctx, "things", "get_things")
}

func TestMetrics_RecordCallEnd(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	metrics.RecordCallStart(ctx, "things", "get_things")
	metrics.RecordCallEnd(ctx, "things", "get_things", OutcomeHTTPError, 10*time.Millisecond)
	metrics.RecordCallStart(ctx, "things", "get_things")
	metrics.RecordCallEnd(ctx, "things", "get_things", OutcomeOK, 10*time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatal(err)
	}

	counts := map[string]int64{}
	var active int64 = -1
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch m.Name {
			case MetricCallsTotal:
				for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
					outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
					counts[outcome.AsString()] += dp.Value
				}
			case MetricCallsActive:
				active = 0
				for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
					active += dp.Value
				}
			}
		}
	}
	if counts[OutcomeOK] != 1 || counts[OutcomeHTTPError] != 1 {
		t.Errorf("unexpected call counts %v", counts)
	}
	if active != 0 {
		t.Errorf("expected no active calls, got %d", active)
	}
}

func TestCallContext_SpanLifecycle(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	cc := NewCallContext("things", "get_things", "call-1", true, nil)
	ctx, span := cc.Start(context.Background())
	if CallContextFromContext(ctx) != cc {
		t.Error("expected call context in span context")
	}
	cc.End(ctx, span, OutcomeHTTPError, 504, errors.New("gateway timeout"))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name() != "restkit.call get_things" {
		t.Errorf("span name = %q", s.Name())
	}
	if s.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", s.Status())
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range s.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrCallID].AsString() != "call-1" || !attrs[AttrAsync].AsBool() {
		t.Errorf("unexpected attributes %v", attrs)
	}
	if attrs[AttrStatus].AsInt64() != 504 || attrs[AttrOutcome].AsString() != OutcomeHTTPError {
		t.Errorf("unexpected result attributes %v", attrs)
	}
}

func TestCallContextFromContext_Missing(t *testing.T) {
	if CallContextFromContext(context.Background()) != nil {
		t.Error("expected nil")
	}
}
