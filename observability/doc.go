// Package observability wires OpenTelemetry tracing and metrics for restkit
// clients.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"), log)
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-service"), log)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("restkit"))
//	c, err := client.New(cfg, client.WithMetrics(metrics))
//
// Every client call then gets a span wrapping the HTTP request span and is
// counted by endpoint and outcome.
package observability
