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

var (
	jobsCreatedTotal           atomic.Uint64
	jobsDeletedTotal           atomic.Uint64
	applicationsSubmittedTotal atomic.Uint64
	applicationsDuplicateTotal atomic.Uint64
	statusChangesTotal         atomic.Uint64
	resumeUploadsTotal         atomic.Uint64
	resumeUploadsRejectedTotal atomic.Uint64
	orphanFilesRemovedTotal    atomic.Uint64

	requestDuration = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000})
)

// IncJobCreated increments the created-jobs counter.
func IncJobCreated() {
	jobsCreatedTotal.Add(1)
}

// IncJobDeleted increments the deleted-jobs counter.
func IncJobDeleted() {
	jobsDeletedTotal.Add(1)
}

// IncApplicationSubmitted increments the accepted-applications counter.
func IncApplicationSubmitted() {
	applicationsSubmittedTotal.Add(1)
}

// IncApplicationDuplicate counts applications rejected by the pair constraint.
func IncApplicationDuplicate() {
	applicationsDuplicateTotal.Add(1)
}

// IncStatusChange counts application status updates.
func IncStatusChange() {
	statusChangesTotal.Add(1)
}

// IncResumeUpload counts stored résumé files.
func IncResumeUpload() {
	resumeUploadsTotal.Add(1)
}

// IncResumeUploadRejected counts uploads refused before any write.
func IncResumeUploadRejected() {
	resumeUploadsRejectedTotal.Add(1)
}

// IncOrphanFileRemoved counts résumé files removed after being replaced or deleted.
func IncOrphanFileRemoved() {
	orphanFilesRemovedTotal.Add(1)
}

// ObserveRequestDurationMs records an HTTP request duration in milliseconds.
func ObserveRequestDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	requestDuration.Observe(value)
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
	writeCounter(&buf, "jobs_created_total", "Total jobs created", jobsCreatedTotal.Load())
	writeCounter(&buf, "jobs_deleted_total", "Total jobs deleted", jobsDeletedTotal.Load())
	writeCounter(&buf, "applications_submitted_total", "Total applications submitted", applicationsSubmittedTotal.Load())
	writeCounter(&buf, "applications_duplicate_total", "Total duplicate applications rejected", applicationsDuplicateTotal.Load())
	writeCounter(&buf, "application_status_changes_total", "Total application status changes", statusChangesTotal.Load())
	writeCounter(&buf, "resume_uploads_total", "Total resume files stored", resumeUploadsTotal.Load())
	writeCounter(&buf, "resume_uploads_rejected_total", "Total resume uploads rejected by validation", resumeUploadsRejectedTotal.Load())
	writeCounter(&buf, "resume_files_removed_total", "Total replaced or deleted resume files removed from storage", orphanFilesRemovedTotal.Load())
	writeHistogram(&buf, "http_request_duration_ms", "HTTP request duration in milliseconds", requestDuration.Snapshot())
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
