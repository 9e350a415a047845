package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"relay-hq/relay/pkg/pool"
)

// PoolCollector exports account pool gauges computed on scrape, so the
// pool itself carries no metrics state.
//
// Metrics:
//   - <ns>_accounts_total: configured accounts by provider
//   - <ns>_accounts_rate_limited: accounts inside an active window by provider
type PoolCollector struct {
	manager *pool.Manager

	accountsTotal   *prometheus.Desc
	accountsLimited *prometheus.Desc
}

// NewPoolCollector creates and registers a pool collector.
func NewPoolCollector(namespace string, manager *pool.Manager, registry *prometheus.Registry) *PoolCollector {
	c := &PoolCollector{
		manager: manager,
		accountsTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "accounts_total"),
			"Number of configured accounts",
			[]string{"provider"}, nil,
		),
		accountsLimited: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "accounts_rate_limited"),
			"Number of accounts currently rate limited",
			[]string{"provider"}, nil,
		),
	}
	registry.MustRegister(c)
	return c
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.accountsTotal
	ch <- c.accountsLimited
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	total := make(map[string]int)
	limited := make(map[string]int)

	for _, status := range c.manager.ListAccounts() {
		provider := string(status.Provider)
		total[provider]++
		if status.RateLimited {
			limited[provider]++
		}
	}

	for provider, n := range total {
		ch <- prometheus.MustNewConstMetric(c.accountsTotal, prometheus.GaugeValue,
			float64(n), provider)
		ch <- prometheus.MustNewConstMetric(c.accountsLimited, prometheus.GaugeValue,
			float64(limited[provider]), provider)
	}
}
