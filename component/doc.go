// Package component defines the lifecycle contract shared by long-lived
// restkit parts: clients with worker pools and telemetry providers.
//
// A Registry starts components in registration order and stops them in
// reverse, so a client is drained before the exporters it reports to are
// shut down.
package component
