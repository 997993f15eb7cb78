// Package metrics provides Prometheus instrumentation for weave components.
//
// # Overview
//
// The metrics package provides instrumentation for:
//   - Worker threads (wakeups, admitted workers, reclaimed references, run durations)
//   - Messengers (messages queued, listener deliveries, sweep durations, active listeners)
//   - The deadline scheduler (scheduled, executed, cancelled and pending tasks)
//
// Every instrumented component accepts a *Registry in its Config. A nil
// Registry disables collection for that component.
//
// # Quick Start
//
//	pool := threading.NewWithConfig(threading.Config{
//		Name:    "io",
//		Metrics: metrics.DefaultRegistry,
//	})
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.Config{Enabled: true, Registry: reg}.Build()
//
// All metrics are namespaced "weave" and labelled with the component name.
package metrics
