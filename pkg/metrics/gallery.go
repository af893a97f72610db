package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// GalleryMetrics records counters for the read/upload paths.
type GalleryMetrics struct {
	viewIncrements       *prometheus.CounterVec
	uploadFiles          *prometheus.CounterVec
	viewIncrementFailure prometheus.Counter
}

// NewGalleryMetrics registers the gallery metrics on the provided registerer.
func NewGalleryMetrics(reg prometheus.Registerer) *GalleryMetrics {
	if reg == nil {
		return &GalleryMetrics{}
	}
	viewIncrements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "media_view_increments_total",
		Help: "View-count increments fired by direct by-id fetches.",
	}, []string{"media_type"})
	uploadFiles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "media_upload_files_total",
		Help: "Files processed by bulk upload, by outcome.",
	}, []string{"outcome"})
	viewIncrementFailure := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "media_view_increment_failures_total",
		Help: "View-count increments that failed after the response was sent.",
	})
	reg.MustRegister(viewIncrements, uploadFiles, viewIncrementFailure)
	return &GalleryMetrics{
		viewIncrements:       viewIncrements,
		uploadFiles:          uploadFiles,
		viewIncrementFailure: viewIncrementFailure,
	}
}

// IncView records a fired view increment for the given media type.
func (g *GalleryMetrics) IncView(mediaType string) {
	if g == nil || g.viewIncrements == nil {
		return
	}
	g.viewIncrements.WithLabelValues(normalizeLabel(mediaType)).Inc()
}

// IncViewFailure records a view increment that did not reach the database.
func (g *GalleryMetrics) IncViewFailure() {
	if g == nil || g.viewIncrementFailure == nil {
		return
	}
	g.viewIncrementFailure.Inc()
}

// IncUpload records one processed bulk-upload file by outcome.
func (g *GalleryMetrics) IncUpload(outcome string) {
	if g == nil || g.uploadFiles == nil {
		return
	}
	g.uploadFiles.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
