package scoring

import (
	"testing"

	"pothole-service/models"
)

func det(conf, x1, y1, x2, y2 float64) models.Detection {
	return models.Detection{
		Class:      "pothole",
		Confidence: conf,
		BoundingBox: models.BoundingBox{
			X1: x1, Y1: y1, X2: x2, Y2: y2,
		},
	}
}

func TestSummarize(t *testing.T) {
	s := NewSummarizer(50000, 20000)

	testCases := []struct {
		name       string
		detections []models.Detection

		wantConf     float64
		wantArea     float64
		wantSeverity string
	}{
		{
			name:         "Empty list",
			detections:   nil,
			wantConf:     0,
			wantArea:     0,
			wantSeverity: "none",
		},
		{
			name:         "Small box is minor",
			detections:   []models.Detection{det(0.8, 0, 0, 100, 100)},
			wantConf:     0.8,
			wantArea:     10000,
			wantSeverity: "minor",
		},
		{
			name:         "Area exactly 20000 stays minor",
			detections:   []models.Detection{det(0.5, 0, 0, 200, 100)},
			wantConf:     0.5,
			wantArea:     20000,
			wantSeverity: "minor",
		},
		{
			name:         "Area exactly 50000 stays moderate",
			detections:   []models.Detection{det(0.5, 0, 0, 500, 100)},
			wantConf:     0.5,
			wantArea:     50000,
			wantSeverity: "moderate",
		},
		{
			name:         "300x300 box is severe",
			detections:   []models.Detection{det(0.9, 0, 0, 300, 300)},
			wantConf:     0.9,
			wantArea:     90000,
			wantSeverity: "severe",
		},
		{
			name: "Averages over several boxes",
			detections: []models.Detection{
				det(0.9, 0, 0, 300, 300), // 90000
				det(0.6, 0, 0, 100, 100), // 10000
			},
			wantConf:     0.75,
			wantArea:     50000,
			wantSeverity: "moderate",
		},
		{
			name: "Confidence rounded to 3 digits",
			detections: []models.Detection{
				det(0.1234, 0, 0, 10, 10),
				det(0.1236, 0, 0, 10, 10),
			},
			wantConf:     0.124,
			wantArea:     100,
			wantSeverity: "minor",
		},
	}

	for _, testCase := range testCases {
		got := s.Summarize(testCase.detections)
		if got.Severity != testCase.wantSeverity {
			t.Errorf("%s: severity = %q, want %q", testCase.name, got.Severity, testCase.wantSeverity)
		}
		if got.AverageConfidence != testCase.wantConf {
			t.Errorf("%s: average confidence = %v, want %v", testCase.name, got.AverageConfidence, testCase.wantConf)
		}
		if got.AverageArea != testCase.wantArea {
			t.Errorf("%s: average area = %v, want %v", testCase.name, got.AverageArea, testCase.wantArea)
		}
	}
}

func TestPriority(t *testing.T) {
	testCases := []struct {
		severity string
		density  string
		want     int
	}{
		{"minor", "low", 2},
		{"minor", "medium", 3},
		{"minor", "high", 4},
		{"moderate", "low", 3},
		{"moderate", "medium", 4},
		{"moderate", "high", 5},
		{"severe", "low", 4},
		{"severe", "medium", 5},
		{"severe", "high", 6},
		// Case-insensitive.
		{"SEVERE", "High", 6},
		{"Moderate", "LOW", 3},
		// Unrecognized values degrade to 1.
		{"none", "high", 4},
		{"", "", 2},
		{"catastrophic", "gridlock", 2},
	}

	for _, testCase := range testCases {
		got := Priority(testCase.severity, testCase.density)
		if got != testCase.want {
			t.Errorf("Priority(%q, %q) = %d, want %d",
				testCase.severity, testCase.density, got, testCase.want)
		}
		if got < 2 || got > 6 {
			t.Errorf("Priority(%q, %q) = %d outside range 2..6",
				testCase.severity, testCase.density, got)
		}
		// Deterministic: same inputs give the same result.
		if again := Priority(testCase.severity, testCase.density); again != got {
			t.Errorf("Priority(%q, %q) not deterministic: %d then %d",
				testCase.severity, testCase.density, got, again)
		}
	}
}
