// Standalone submitter for dev/test: posts an image or a precomputed
// detections file to a running pothole service.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"

	"github.com/apex/log"

	"pothole-service/geo"
)

var (
	serverURL      = flag.String("server", "http://127.0.0.1:8080", "Pothole service base URL.")
	imagePath      = flag.String("image", "", "Path to a JPEG to submit (or to read GPS from).")
	detectionsPath = flag.String("detections", "", "Path to a JSON file with precomputed detections.")
	latFlag        = flag.Float64("lat", 0, "Latitude override for detections mode.")
	lonFlag        = flag.Float64("lon", 0, "Longitude override for detections mode.")
	trafficDensity = flag.String("traffic_density", "", "Optional traffic density (low/medium/high).")
	defaultCoords  = flag.Bool("default_coords", false,
		"Fall back to 12.9721,77.5933 when the image has no GPS data (detections mode only).")
)

const (
	fallbackLat = 12.9721
	fallbackLon = 77.5933
)

func main() {
	flag.Parse()

	switch {
	case *detectionsPath != "":
		postDetections()
	case *imagePath != "":
		postImage()
	default:
		fmt.Fprintln(os.Stderr, "either -image or -detections is required")
		flag.Usage()
		os.Exit(2)
	}
}

// postDetections mirrors what the model-side script does: run the
// detector locally, then ship the JSON plus coordinates as query
// parameters.
func postDetections() {
	data, err := os.ReadFile(*detectionsPath)
	if err != nil {
		log.Fatalf("Failed to read detections file: %v", err)
	}
	// Validate before sending; the server rejects malformed JSON anyway.
	var detections []json.RawMessage
	if err := json.Unmarshal(data, &detections); err != nil {
		log.Fatalf("Detections file is not a JSON array: %v", err)
	}

	lat, lon := *latFlag, *lonFlag
	if lat == 0 && lon == 0 && *imagePath != "" {
		lat, lon = coordsFromImage()
	}

	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	if *trafficDensity != "" {
		q.Set("traffic_density", *trafficDensity)
	}

	resp, err := http.Post(*serverURL+"/report?"+q.Encode(), "application/json", bytes.NewReader(data))
	if err != nil {
		log.Fatalf("Failed to call the server: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	log.Infof("Done, %s: %s", resp.Status, string(body))
}

// postImage uploads the photo itself; the server extracts GPS and runs
// detection.
func postImage() {
	data, err := os.ReadFile(*imagePath)
	if err != nil {
		log.Fatalf("Failed to read image: %v", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "upload.jpg")
	if err != nil {
		log.Fatalf("Failed to build multipart body: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		log.Fatalf("Failed to build multipart body: %v", err)
	}
	if *trafficDensity != "" {
		mw.WriteField("traffic_density", *trafficDensity)
	}
	mw.Close()

	resp, err := http.Post(*serverURL+"/report", mw.FormDataContentType(), &buf)
	if err != nil {
		log.Fatalf("Failed to call the server: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	log.Infof("Done, %s: %s", resp.Status, string(body))
}

func coordsFromImage() (float64, float64) {
	f, err := os.Open(*imagePath)
	if err != nil {
		log.Fatalf("Failed to open image: %v", err)
	}
	defer f.Close()

	lat, lon, ok := geo.LatLon(f)
	if ok {
		return lat, lon
	}
	if *defaultCoords {
		log.Warnf("No GPS data in image, using fallback coordinates %f,%f", fallbackLat, fallbackLon)
		return fallbackLat, fallbackLon
	}
	log.Fatal("No GPS data in image (pass -default_coords or -lat/-lon)")
	return 0, 0
}
