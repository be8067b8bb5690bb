package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	geojson "github.com/paulmach/go.geojson"

	"pothole-service/models"
	"pothole-service/service"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	pipeline *service.Pipeline
	store    service.Store
}

// NewHandlers creates a new handlers instance
func NewHandlers(pipeline *service.Pipeline, store service.Store) *Handlers {
	return &Handlers{
		pipeline: pipeline,
		store:    store,
	}
}

// Report accepts a defect report either as a JSON array of detections
// (with lat/lon query parameters) or as a multipart image upload.
func (h *Handlers) Report(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		h.reportFromDetections(c)
		return
	}

	if file, err := c.FormFile("image"); err == nil {
		h.reportFromImage(c, file)
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"error": "send either JSON detections or an image",
	})
}

func (h *Handlers) reportFromDetections(c *gin.Context) {
	var detections []models.Detection
	if err := c.ShouldBindJSON(&detections); err != nil {
		log.Warnf("Failed to parse detections body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not parse detections JSON"})
		return
	}

	lat := parseFloatQuery(c, "lat", 0)
	lon := parseFloatQuery(c, "lon", 0)
	trafficDensity := c.Query("traffic_density")

	outcome, err := h.pipeline.FromDetections(c.Request.Context(), detections, lat, lon, trafficDensity)
	if err != nil {
		h.reportError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.ReportResponse{
		Message:  "report saved",
		Severity: outcome.Severity,
		Priority: outcome.Priority,
	})
}

func (h *Handlers) reportFromImage(c *gin.Context, file *multipart.FileHeader) {
	f, err := file.Open()
	if err != nil {
		log.Errorf("Failed to open uploaded image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read uploaded image"})
		return
	}
	defer f.Close()

	imageData, err := io.ReadAll(f)
	if err != nil {
		log.Errorf("Failed to read uploaded image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read uploaded image"})
		return
	}

	trafficDensity := c.PostForm("traffic_density")

	outcome, err := h.pipeline.FromImage(c.Request.Context(), imageData, trafficDensity)
	if err != nil {
		h.reportError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.ReportResponse{
		Message:  "image processed",
		Severity: outcome.Severity,
		Priority: outcome.Priority,
	})
}

// reportError maps pipeline failures to HTTP statuses: input problems
// are 400, everything else 500.
func (h *Handlers) reportError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrMissingGPS) || errors.Is(err, service.ErrNoDefects) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Errorf("Report pipeline failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// GetReports returns all reports ordered by descending priority.
func (h *Handlers) GetReports(c *gin.Context) {
	reports, err := h.store.ListReports(c.Request.Context())
	if err != nil {
		log.Errorf("Failed to list reports: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports"})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// GetReportsGeoJSON returns all reports as a GeoJSON FeatureCollection
// for the dashboard map.
func (h *Handlers) GetReportsGeoJSON(c *gin.Context) {
	reports, err := h.store.ListReports(c.Request.Context())
	if err != nil {
		log.Errorf("Failed to list reports: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports"})
		return
	}

	fc := geojson.NewFeatureCollection()
	for _, r := range reports {
		f := geojson.NewPointFeature([]float64{r.Longitude, r.Latitude})
		f.ID = r.ID
		f.Properties["type"] = r.Type
		f.Properties["severity"] = r.Severity
		f.Properties["traffic_density"] = r.TrafficDensity
		f.Properties["priority"] = r.Priority
		f.Properties["timestamp"] = r.Timestamp
		fc.AddFeature(f)
	}

	c.JSON(http.StatusOK, fc)
}

// ClearReports deletes all reports and returns the number deleted.
func (h *Handlers) ClearReports(c *gin.Context) {
	deleted, err := h.store.ClearReports(c.Request.Context())
	if err != nil {
		log.Errorf("Failed to clear reports: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear reports"})
		return
	}
	c.JSON(http.StatusOK, models.ClearReportsResponse{
		Message: fmt.Sprintf("cleared %d reports", deleted),
		Deleted: deleted,
	})
}

func parseFloatQuery(c *gin.Context, key string, defaultValue float64) float64 {
	v := c.Query(key)
	if v == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
