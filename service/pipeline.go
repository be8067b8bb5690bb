package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"

	"pothole-service/imageutil"
	"pothole-service/models"
	"pothole-service/scoring"
)

// Input failures surfaced to the caller as 4xx responses.
var (
	ErrMissingGPS = errors.New("no GPS data in image")
	ErrNoDefects  = errors.New("no defects detected")
)

// Store persists and queries report rows.
type Store interface {
	SaveReport(ctx context.Context, r *models.Report) (int64, error)
	ListReports(ctx context.Context) ([]models.Report, error)
	ClearReports(ctx context.Context) (int64, error)
}

// Detector runs object detection on an image.
type Detector interface {
	Detect(ctx context.Context, image []byte) ([]models.Detection, error)
}

// Notifier delivers an alert. Best effort; failures are logged only.
type Notifier interface {
	SendAlert(subject, body string) error
}

// DensityClassifier maps a coordinate to a traffic-density label.
type DensityClassifier interface {
	DensityAt(lat, lon float64) string
}

// Publisher feeds created reports to downstream consumers.
type Publisher interface {
	Publish(v interface{}) error
}

// GPSExtractor pulls a coordinate out of image bytes.
type GPSExtractor func(image []byte) (lat, lon float64, ok bool)

// Outcome is what the reporting endpoint returns to the caller.
type Outcome struct {
	Severity string
	Priority int
}

// Pipeline sequences GPS extraction, detection summarization, priority
// scoring and persistence for one report. All collaborators are
// injected so tests can substitute fakes.
type Pipeline struct {
	store      Store
	detector   Detector
	notifier   Notifier
	classifier DensityClassifier
	summarizer *scoring.Summarizer
	publisher  Publisher // may be nil
	extractGPS GPSExtractor

	priorityThreshold int
	maxImageDimension int
}

// Options configures a Pipeline.
type Options struct {
	Store      Store
	Detector   Detector
	Notifier   Notifier
	Classifier DensityClassifier
	Summarizer *scoring.Summarizer
	Publisher  Publisher
	ExtractGPS GPSExtractor

	PriorityThreshold int
	MaxImageDimension int
}

// NewPipeline creates a report pipeline with the given collaborators.
func NewPipeline(opts Options) *Pipeline {
	return &Pipeline{
		store:             opts.Store,
		detector:          opts.Detector,
		notifier:          opts.Notifier,
		classifier:        opts.Classifier,
		summarizer:        opts.Summarizer,
		publisher:         opts.Publisher,
		extractGPS:        opts.ExtractGPS,
		priorityThreshold: opts.PriorityThreshold,
		maxImageDimension: opts.MaxImageDimension,
	}
}

// FromDetections handles a report whose detections were computed by
// the caller. An empty trafficDensity falls back to the zone
// classifier; lat/lon arrive already parsed (0,0 when the caller
// omitted them).
func (p *Pipeline) FromDetections(ctx context.Context, detections []models.Detection, lat, lon float64, trafficDensity string) (*Outcome, error) {
	if trafficDensity == "" {
		trafficDensity = p.classifier.DensityAt(lat, lon)
	}

	summary := p.summarizer.Summarize(detections)
	priority := scoring.Priority(summary.Severity, trafficDensity)

	report := &models.Report{
		Type:           "pothole",
		Severity:       summary.Severity,
		Latitude:       lat,
		Longitude:      lon,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		TrafficDensity: trafficDensity,
		Priority:       priority,
	}

	if _, err := p.store.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to persist report: %w", err)
	}

	p.afterSave(report)

	return &Outcome{
		Severity: report.Severity,
		Priority: report.Priority,
	}, nil
}

// FromImage handles a report submitted as a raw photo: GPS comes from
// the image's EXIF data and detections come from the detector service.
func (p *Pipeline) FromImage(ctx context.Context, imageData []byte, trafficDensity string) (*Outcome, error) {
	lat, lon, ok := p.extractGPS(imageData)
	if !ok {
		return nil, ErrMissingGPS
	}

	normalized, err := imageutil.Normalize(imageData, p.maxImageDimension)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare image: %w", err)
	}

	detections, err := p.detector.Detect(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}
	if len(detections) == 0 {
		return nil, ErrNoDefects
	}

	return p.FromDetections(ctx, detections, lat, lon, trafficDensity)
}

// afterSave runs the best-effort side effects of a committed report:
// the high-priority alert and the event feed. Neither may fail the
// request or roll back the write.
func (p *Pipeline) afterSave(report *models.Report) {
	if report.Priority >= p.priorityThreshold {
		subject := "Urgent road defect detected"
		body := fmt.Sprintf("Pothole(s) detected\nSeverity: %s\nPriority: %d\nLocation: (%g, %g)\nTimestamp: %s",
			report.Severity, report.Priority, report.Latitude, report.Longitude, report.Timestamp)
		if err := p.notifier.SendAlert(subject, body); err != nil {
			log.Warnf("Failed to send alert for report %d: %v", report.ID, err)
		}
	}

	if p.publisher != nil {
		if err := p.publisher.Publish(report); err != nil {
			log.Warnf("Failed to publish report %d: %v", report.ID, err)
		}
	}
}
