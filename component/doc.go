// Package component defines the lifecycle contract shared by the long-lived
// parts of ntfywatch: the subscription registry, the UI event hub, the
// control API server and the telemetry exporters.
//
// Components are started in registration order and stopped in reverse, so
// register dependencies first.
package component
