package infrastructure

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mobodokan/pkg/metrics"
)

// ImageUploader hands an image off to the external hosting API and returns
// the durable URL. The catalog stores only that URL string, never binary
// image data.
type ImageUploader interface {
	Upload(ctx context.Context, image []byte, name string) (string, error)
}

// ImgBBClient talks to the imgbb upload API.
type ImgBBClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewImgBBClient(endpoint, apiKey string) *ImgBBClient {
	return &ImgBBClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type imgbbResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload posts the image as base64 form data and returns the hosted URL.
func (c *ImgBBClient) Upload(ctx context.Context, image []byte, name string) (string, error) {
	form := url.Values{}
	form.Set("image", base64.StdEncoding.EncodeToString(image))
	if name != "" {
		form.Set("name", name)
	}

	uploadURL := fmt.Sprintf("%s?key=%s", c.endpoint, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ImagesUploaded.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("failed to call upload API: %w", err)
	}
	defer resp.Body.Close()

	var result imgbbResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		metrics.ImagesUploaded.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !result.Success {
		metrics.ImagesUploaded.WithLabelValues("failed").Inc()
		if result.Error.Message != "" {
			return "", fmt.Errorf("upload API rejected image: %s", result.Error.Message)
		}
		return "", fmt.Errorf("upload API returned status %d", resp.StatusCode)
	}

	metrics.ImagesUploaded.WithLabelValues("success").Inc()
	return result.Data.URL, nil
}
