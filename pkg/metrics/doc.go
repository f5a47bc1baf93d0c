// Package metrics records the outcome of an announcement run as Prometheus metrics.
//
// The announcer is a one-shot process, so metrics are not served over HTTP. Instead
// they are written to a node-exporter textfile after the run, where the collector
// picks them up on its next scrape.
//
// Key Components:
//   - Metric: Data points of one delivery (outcome, attempts, duration).
//   - Metrics: Collectors registered on a dedicated registry.
//   - WriteTextfile: Writes the registry contents in the Prometheus text format.
//
// Usage:
//
//	m, _ := metrics.New()
//	m.RegisterAnnouncement(metrics.NewMetric(report, err))
//	_ = m.WriteTextfile("/var/lib/node_exporter/announcer.prom")
package metrics
