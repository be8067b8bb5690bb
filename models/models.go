package models

// BoundingBox is an axis-aligned box in pixel coordinates. x1 < x2 and
// y1 < y2 are expected from the detector but not enforced here.
type BoundingBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Area returns the box area in square pixels.
func (b BoundingBox) Area() float64 {
	return (b.X2 - b.X1) * (b.Y2 - b.Y1)
}

// Detection is one object found in an image by the detector.
type Detection struct {
	Class       string      `json:"class"`
	Confidence  float64     `json:"confidence"`
	BoundingBox BoundingBox `json:"bounding_box"`
}

// DetectionSummary aggregates a list of detections. Averages are
// rounded for external reporting (3 and 2 decimal digits).
type DetectionSummary struct {
	AverageConfidence float64 `json:"average_confidence"`
	AverageArea       float64 `json:"average_area"`
	Severity          string  `json:"severity"`
}

// Report is the persisted record for one accepted defect report.
type Report struct {
	ID             int64   `json:"id"`
	Type           string  `json:"type"`
	Severity       string  `json:"severity"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Timestamp      string  `json:"timestamp"`
	TrafficDensity string  `json:"traffic_density"`
	Priority       int     `json:"priority"`
}

// TrafficZone is a rectangular high-traffic region in degrees.
type TrafficZone struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// ReportResponse is returned by POST /report on success.
type ReportResponse struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Priority int    `json:"priority"`
}

// ClearReportsResponse is returned by POST /clear_reports.
type ClearReportsResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}
