// Package metrics exposes mailgram's operational counters in Prometheus
// text exposition format, without pulling in prometheus/client_golang.
package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Counter is a monotonically increasing counter.
type Counter struct {
	name  string
	help  string
	value atomic.Int64
}

// Inc increments the counter by 1.
func (c *Counter) Inc() { c.value.Add(1) }

// Add increments the counter by n.
func (c *Counter) Add(n int64) { c.value.Add(n) }

// Value returns the current counter value.
func (c *Counter) Value() int64 { return c.value.Load() }

var (
	registryMu sync.Mutex
	registry   []*Counter
	startTime  = time.Now()
)

// NewCounter registers a counter under the given name.
func NewCounter(name, help string) *Counter {
	c := &Counter{name: name, help: help}
	registryMu.Lock()
	registry = append(registry, c)
	registryMu.Unlock()
	return c
}

// Relay counters. Registered once at package init; incremented from the
// pipeline without locking beyond the atomics.
var (
	EmailsReceived   = NewCounter("mailgram_emails_received_total", "Inbound emails accepted at the ingest boundary.")
	EmailsRelayed    = NewCounter("mailgram_emails_relayed_total", "Emails that produced a notification dispatch.")
	EmailsDropped    = NewCounter("mailgram_emails_dropped_total", "Emails dropped for missing routing tokens.")
	SummaryFallbacks = NewCounter("mailgram_summary_fallbacks_total", "Summaries replaced by a fixed fallback string.")
	SendFailures     = NewCounter("mailgram_send_failures_total", "Outbound messaging calls that returned a failure.")
	WebhookEvents    = NewCounter("mailgram_webhook_events_total", "Inbound webhook events processed.")
)

// Handler serves the exposition text.
func Handler(w http.ResponseWriter, _ *http.Request) {
	registryMu.Lock()
	counters := make([]*Counter, len(registry))
	copy(counters, registry)
	registryMu.Unlock()

	sort.Slice(counters, func(i, j int) bool { return counters[i].name < counters[j].name })

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	for _, c := range counters {
		fmt.Fprintf(w, "# HELP %s %s\n", c.name, c.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", c.name)
		fmt.Fprintf(w, "%s %d\n", c.name, c.Value())
	}
	fmt.Fprintf(w, "# HELP mailgram_uptime_seconds Seconds since process start.\n")
	fmt.Fprintf(w, "# TYPE mailgram_uptime_seconds gauge\n")
	fmt.Fprintf(w, "mailgram_uptime_seconds %.0f\n", time.Since(startTime).Seconds())
}
