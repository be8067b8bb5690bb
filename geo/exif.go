package geo

import (
	"io"

	"github.com/rwcarlsen/goexif/exif"
)

// gpsRational is one numerator/denominator pair from a GPS tag. Each
// coordinate is stored as three of these: degrees, minutes, seconds.
type gpsRational struct {
	Num int64
	Den int64
}

// LatLon extracts the GPS coordinate embedded in an image's EXIF data.
// ok is false when the image carries no usable GPS information; callers
// decide whether to reject the input or fall back.
func LatLon(r io.Reader) (lat, lon float64, ok bool) {
	x, err := exif.Decode(r)
	if err != nil {
		return 0, 0, false
	}

	latDMS, err := rationals(x, exif.GPSLatitude)
	if err != nil {
		return 0, 0, false
	}
	lonDMS, err := rationals(x, exif.GPSLongitude)
	if err != nil {
		return 0, 0, false
	}

	// A missing ref tag is treated the same as an opposite-hemisphere
	// one: the value is negated.
	latRef := stringTag(x, exif.GPSLatitudeRef)
	lonRef := stringTag(x, exif.GPSLongitudeRef)

	return convert(latDMS, lonDMS, latRef, lonRef)
}

// convert turns degree/minute/second rationals plus hemisphere refs
// into signed decimal degrees.
func convert(latDMS, lonDMS [3]gpsRational, latRef, lonRef string) (lat, lon float64, ok bool) {
	lat = toDegrees(latDMS)
	lon = toDegrees(lonDMS)
	if latRef != "N" {
		lat = -lat
	}
	if lonRef != "E" {
		lon = -lon
	}
	return lat, lon, true
}

func toDegrees(dms [3]gpsRational) float64 {
	d := ratio(dms[0])
	m := ratio(dms[1])
	s := ratio(dms[2])
	return d + m/60 + s/3600
}

func ratio(r gpsRational) float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

func rationals(x *exif.Exif, name exif.FieldName) ([3]gpsRational, error) {
	var out [3]gpsRational
	tag, err := x.Get(name)
	if err != nil {
		return out, err
	}
	for i := 0; i < 3; i++ {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return out, err
		}
		out[i] = gpsRational{Num: num, Den: den}
	}
	return out, nil
}

func stringTag(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	v, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return v
}
