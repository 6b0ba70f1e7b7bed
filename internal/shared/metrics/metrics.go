package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// counter is a named monotonic count rendered in registration order.
type counter struct {
	name string
	help string
	v    atomic.Uint64
}

func (c *counter) add(n uint64) { c.v.Add(n) }

var (
	plansGenerated  = &counter{name: "plans_generated_total", help: "Total plans generated"}
	plansFailed     = &counter{name: "plans_failed_total", help: "Total plan generations that failed"}
	variantsEmpty   = &counter{name: "plan_variants_empty_total", help: "Total variants recorded as absent"}
	configReloads   = &counter{name: "safety_config_reloads_total", help: "Total safety config reloads"}
	configLoadFails = &counter{name: "safety_config_load_failures_total", help: "Total safety config load failures"}
	rateLimited     = &counter{name: "http_rate_limited_total", help: "Total requests rejected by the rate limiter"}
	panics          = &counter{name: "http_panics_total", help: "Total recovered handler panics"}

	counters = []*counter{plansGenerated, plansFailed, variantsEmpty, configReloads, configLoadFails, rateLimited, panics}

	planGenerationDuration = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500})
)

func IncPlanGenerated()    { plansGenerated.add(1) }
func IncPlanFailed()       { plansFailed.add(1) }
func IncConfigReload()     { configReloads.add(1) }
func IncConfigLoadFailed() { configLoadFails.add(1) }
func IncRateLimited()      { rateLimited.add(1) }
func IncPanic()            { panics.add(1) }

// AddVariantsEmpty counts duration variants left empty in a generated plan.
func AddVariantsEmpty(n int) {
	if n > 0 {
		variantsEmpty.add(uint64(n))
	}
}

// ObservePlanDurationMs records how long one plan took to generate.
func ObservePlanDurationMs(ms float64) {
	planGenerationDuration.Observe(max(ms, 0))
}

// Handler serves Render as a Prometheus text exposition.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render writes every counter followed by the plan duration histogram.
func Render() string {
	var buf bytes.Buffer
	for _, c := range counters {
		writeCounter(&buf, c.name, c.help, c.v.Load())
	}
	writeHistogram(&buf, "plan_generation_duration_ms", "Plan generation duration in milliseconds", planGenerationDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
