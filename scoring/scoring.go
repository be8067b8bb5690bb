package scoring

import (
	"math"
	"strings"

	"pothole-service/models"
)

// Severity labels derived from average detection area.
const (
	SeverityNone     = "none"
	SeverityMinor    = "minor"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

var severityScores = map[string]int{
	"minor":    1,
	"moderate": 2,
	"severe":   3,
}

var trafficScores = map[string]int{
	"low":    1,
	"medium": 2,
	"high":   3,
}

// Summarizer reduces a detection list to an aggregate severity using
// area thresholds. Thresholds are exclusive lower bounds.
type Summarizer struct {
	severeArea   float64
	moderateArea float64
}

// NewSummarizer creates a summarizer with the given area thresholds.
func NewSummarizer(severeArea, moderateArea float64) *Summarizer {
	return &Summarizer{
		severeArea:   severeArea,
		moderateArea: moderateArea,
	}
}

// Summarize computes the aggregate confidence, area and severity for a
// list of detections. An empty list yields zero averages and severity
// "none". Severity is decided on the full-precision average; the
// returned averages are rounded (3 and 2 decimal digits) for reporting.
func (s *Summarizer) Summarize(detections []models.Detection) models.DetectionSummary {
	if len(detections) == 0 {
		return models.DetectionSummary{Severity: SeverityNone}
	}

	var totalArea, totalConf float64
	for _, det := range detections {
		totalArea += det.BoundingBox.Area()
		totalConf += det.Confidence
	}
	avgArea := totalArea / float64(len(detections))
	avgConf := totalConf / float64(len(detections))

	severity := SeverityMinor
	switch {
	case avgArea > s.severeArea:
		severity = SeveritySevere
	case avgArea > s.moderateArea:
		severity = SeverityModerate
	}

	return models.DetectionSummary{
		AverageConfidence: roundTo(avgConf, 3),
		AverageArea:       roundTo(avgArea, 2),
		Severity:          severity,
	}
}

// Priority combines severity and traffic density into an urgency score
// in the range 2..6. Inputs are case-insensitive; unrecognized values
// (including "none") degrade to a score of 1 rather than failing.
func Priority(severity, trafficDensity string) int {
	severityScore, ok := severityScores[strings.ToLower(severity)]
	if !ok {
		severityScore = 1
	}
	trafficScore, ok := trafficScores[strings.ToLower(trafficDensity)]
	if !ok {
		trafficScore = 1
	}
	return severityScore + trafficScore
}

func roundTo(v float64, digits int) float64 {
	pow := math.Pow(10, float64(digits))
	return math.Round(v*pow) / pow
}
