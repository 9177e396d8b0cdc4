package bucket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// Client talks to the object-storage service that holds business
// logos. Objects live under an owner-scoped path and come back with a
// public retrieval URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(baseURL string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload stores the object at the given path and returns its public
// URL.
func (c *Client) Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	c.logger.WithField("path", path).Info("Uploading object to bucket")

	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		c.baseURL+"/objects/"+url.PathEscape(path), body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to bucket: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("bucket returned status %d", resp.StatusCode)
	}

	var uploaded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", fmt.Errorf("failed to decode bucket response: %w", err)
	}
	if uploaded.URL == "" {
		return "", fmt.Errorf("bucket returned no public URL")
	}

	c.logger.WithFields(logrus.Fields{
		"path": path,
		"url":  uploaded.URL,
	}).Info("Object uploaded")

	return uploaded.URL, nil
}
