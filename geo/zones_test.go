package geo

import (
	"testing"

	"pothole-service/models"
)

var testZones = []models.TrafficZone{
	{MinLat: 12.9700, MaxLat: 12.9800, MinLon: 77.5900, MaxLon: 77.6000},
	{MinLat: 12.9900, MaxLat: 13.0000, MinLon: 77.5800, MaxLon: 77.5900},
}

func TestDensityAt(t *testing.T) {
	c := NewClassifier(testZones)

	testCases := []struct {
		name string
		lat  float64
		lon  float64
		want string
	}{
		{"Inside first zone", 12.9750, 77.5950, "high"},
		{"Inside second zone", 12.9950, 77.5850, "high"},
		{"Zone corner is inclusive", 12.9700, 77.5900, "high"},
		{"Zone max corner is inclusive", 12.9800, 77.6000, "high"},
		{"Zone edge is inclusive", 12.9700, 77.5950, "high"},
		{"Between the zones", 12.9850, 77.5950, "low"},
		{"Far away", 40.7128, -74.0060, "low"},
		{"Just outside a bound", 12.9699, 77.5950, "low"},
	}

	for _, testCase := range testCases {
		if got := c.DensityAt(testCase.lat, testCase.lon); got != testCase.want {
			t.Errorf("%s: DensityAt(%v, %v) = %q, want %q",
				testCase.name, testCase.lat, testCase.lon, got, testCase.want)
		}
	}
}

func TestDensityAtNoZones(t *testing.T) {
	c := NewClassifier(nil)
	if got := c.DensityAt(12.9750, 77.5950); got != "low" {
		t.Errorf("DensityAt with no zones = %q, want %q", got, "low")
	}
}
