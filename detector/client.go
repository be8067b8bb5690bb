package detector

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/apex/log"

	"pothole-service/models"
)

// Client handles communication with the object-detection inference
// service. The model itself runs out of process; this client only
// ships an image over and decodes the detection list.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// DetectRequest represents the request to the detector service
type DetectRequest struct {
	Image string `json:"image"`
}

// DetectResponse represents the response from the detector service
type DetectResponse struct {
	Detections []models.Detection `json:"detections"`
}

// NewClient creates a new detector client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Detect sends an image to the detector service and returns the
// detections it found. A clean image yields an empty slice, not an
// error.
func (c *Client) Detect(ctx context.Context, imageData []byte) ([]models.Detection, error) {
	request := DetectRequest{
		Image: base64.StdEncoding.EncodeToString(imageData),
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/detect"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Infof("Sending image to detector service: %s, image size: %d bytes", url, len(imageData))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to detector service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detector service returned status %d", resp.StatusCode)
	}

	var response DetectResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	log.Infof("Detector returned %d detections", len(response.Detections))
	return response.Detections, nil
}
