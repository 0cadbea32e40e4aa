// Package imghost uploads profile photos to the external image-hosting
// service. The host is opaque: the only contract is multipart POST in,
// public URL out.
package imghost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const uploadTimeout = 30 * time.Second

// Client talks to the image host's upload endpoint.
type Client struct {
	uploadURL string
	apiKey    string
	http      *http.Client
}

func NewClient(uploadURL, apiKey string) *Client {
	return &Client{
		uploadURL: uploadURL,
		apiKey:    apiKey,
		http:      &http.Client{Timeout: uploadTimeout},
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload sends the image and returns its public URL.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("image upload: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("image upload: %w", err)
	}
	if c.apiKey != "" {
		_ = w.WriteField("key", c.apiKey)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("image upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("image upload: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("image upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image upload: host returned %d", resp.StatusCode)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("image upload: decode response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("image upload: host returned no url")
	}
	return out.URL, nil
}
