package geo

import (
	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"pothole-service/models"
)

// Traffic density labels produced by the classifier.
const (
	DensityLow  = "low"
	DensityHigh = "high"
)

// Classifier maps a coordinate to a coarse traffic-density label using
// a fixed set of rectangular zones. Zone bounds are inclusive.
type Classifier struct {
	rects []s2.Rect
}

// NewClassifier builds a classifier from the configured zone list.
func NewClassifier(zones []models.TrafficZone) *Classifier {
	rects := make([]s2.Rect, 0, len(zones))
	for _, z := range zones {
		minLL := s2.LatLngFromDegrees(z.MinLat, z.MinLon)
		maxLL := s2.LatLngFromDegrees(z.MaxLat, z.MaxLon)
		rects = append(rects, s2.Rect{
			Lat: r1.Interval{
				Lo: minLL.Lat.Radians(),
				Hi: maxLL.Lat.Radians()},
			Lng: s1.Interval{
				Lo: minLL.Lng.Radians(),
				Hi: maxLL.Lng.Radians()},
		})
	}
	return &Classifier{rects: rects}
}

// DensityAt returns "high" when the point falls inside any zone, else
// "low". Callers must reject absent coordinates before invoking.
func (c *Classifier) DensityAt(lat, lon float64) string {
	ll := s2.LatLngFromDegrees(lat, lon)
	for _, rect := range c.rects {
		if rect.ContainsLatLng(ll) {
			return DensityHigh
		}
	}
	return DensityLow
}
