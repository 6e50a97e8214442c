package client

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/kbukum/restkit/endpoint"
	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/observability"
)

func TestCall_RecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()
	metrics, err := observability.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}

	ok := newSpy(jsonResponse(`{}`), nil)
	failing := newSpy(&httpclient.Response{StatusCode: 500}, nil)
	c := newTestClient(t, Config{Name: "things"}, WithMetrics(metrics),
		WithDefaultTransport(ok.transport()), WithEndpoint("get_things", getThings))

	args := endpoint.Args{"user_id": 1, "type": "x"}
	_, _ = c.Call(context.Background(), "get_things", args)
	_, _ = c.Call(context.Background(), "get_things", args, WithTransport(failing.transport()))
	fut, err := c.CallAsync(context.Background(), "get_things", args)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fut.Result()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	outcomes := map[string]int64{}
	var submitted int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch m.Name {
			case observability.MetricCallsTotal:
				for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
					if v, _ := dp.Attributes.Value(attribute.Key("client")); v.AsString() != "things" {
						t.Errorf("client attribute = %q", v.AsString())
					}
					v, _ := dp.Attributes.Value(attribute.Key("outcome"))
					outcomes[v.AsString()] += dp.Value
				}
			case observability.MetricAsyncSubmits:
				for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
					submitted += dp.Value
				}
			}
		}
	}
	if outcomes[observability.OutcomeOK] != 2 || outcomes[observability.OutcomeHTTPError] != 1 {
		t.Errorf("outcomes = %v", outcomes)
	}
	if submitted != 1 {
		t.Errorf("async submissions = %d", submitted)
	}
}
