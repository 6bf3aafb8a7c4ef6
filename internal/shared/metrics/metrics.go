package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	tailoringStartedTotal   atomic.Uint64
	tailoringCompletedTotal atomic.Uint64
	tailoringFailedTotal    atomic.Uint64
	regenerateTotal         atomic.Uint64

	tailoringDuration = newHistogram([]float64{1000, 2500, 5000, 10000, 20000, 30000, 60000, 120000})

	compileOutcomes = newLabeledCounter()

	renderJobsReceivedTotal             atomic.Uint64
	renderJobsCompletedTotal            atomic.Uint64
	renderJobsFailedTotal               atomic.Uint64
	renderJobsDeletedUnrecoverableTotal atomic.Uint64
)

// IncTailoringStarted increments the started counter.
func IncTailoringStarted() {
	tailoringStartedTotal.Add(1)
}

// IncTailoringCompleted increments the completed counter.
func IncTailoringCompleted() {
	tailoringCompletedTotal.Add(1)
}

// IncTailoringFailed increments the failed counter.
func IncTailoringFailed() {
	tailoringFailedTotal.Add(1)
}

// IncRegenerate increments the regenerated-version counter.
func IncRegenerate() {
	regenerateTotal.Add(1)
}

// ObserveTailoringDurationMs records a tailoring duration in milliseconds.
func ObserveTailoringDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	tailoringDuration.Observe(value)
}

// IncCompile records one PDF compilation outcome for a backend.
func IncCompile(backend string, ok bool) {
	outcome := "error"
	if ok {
		outcome = "ok"
	}
	compileOutcomes.Inc(fmt.Sprintf("backend=%q,outcome=%q", backend, outcome))
}

// IncRenderJobsReceived increments the received render job counter.
func IncRenderJobsReceived() {
	renderJobsReceivedTotal.Add(1)
}

// IncRenderJobsCompleted increments the completed render job counter.
func IncRenderJobsCompleted() {
	renderJobsCompletedTotal.Add(1)
}

// IncRenderJobsFailed increments the failed render job counter.
func IncRenderJobsFailed() {
	renderJobsFailedTotal.Add(1)
}

// IncRenderJobsDeletedUnrecoverable counts malformed messages dropped from the queue.
func IncRenderJobsDeletedUnrecoverable() {
	renderJobsDeletedUnrecoverableTotal.Add(1)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "tailoring_started_total", "Total tailoring requests started", tailoringStartedTotal.Load())
	writeCounter(&buf, "tailoring_completed_total", "Total tailoring requests completed", tailoringCompletedTotal.Load())
	writeCounter(&buf, "tailoring_failed_total", "Total tailoring requests failed", tailoringFailedTotal.Load())
	writeCounter(&buf, "resume_regenerate_total", "Total edited versions appended", regenerateTotal.Load())
	writeHistogram(&buf, "tailoring_duration_ms", "Tailoring duration in milliseconds", tailoringDuration.Snapshot())
	writeLabeledCounter(&buf, "pdf_compile_total", "PDF compilations by backend and outcome", compileOutcomes.Snapshot())
	writeCounter(&buf, "render_jobs_received_total", "Total PDF render jobs received", renderJobsReceivedTotal.Load())
	writeCounter(&buf, "render_jobs_completed_total", "Total PDF render jobs completed", renderJobsCompletedTotal.Load())
	writeCounter(&buf, "render_jobs_failed_total", "Total PDF render jobs failed", renderJobsFailedTotal.Load())
	writeCounter(&buf, "render_jobs_deleted_unrecoverable_total", "Total malformed render jobs deleted", renderJobsDeletedUnrecoverableTotal.Load())
	return buf.String()
}

type labeledCounter struct {
	mu     sync.Mutex
	values map[string]uint64
}

func newLabeledCounter() *labeledCounter {
	return &labeledCounter{values: make(map[string]uint64)}
}

func (l *labeledCounter) Inc(labels string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values[labels]++
}

func (l *labeledCounter) Snapshot() map[string]uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]uint64, len(l.values))
	for k, v := range l.values {
		out[k] = v
	}
	return out
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

// Observe counts the value in its smallest bucket only; Render accumulates.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s} %d\n", name, k, values[k])
	}
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
