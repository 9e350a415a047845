// Package metrics exposes Prometheus metrics for the relay proxy: request
// outcome counters and latency histograms on the routing path, plus pool
// gauges collected on scrape from the live account state.
package metrics
