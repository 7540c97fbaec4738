package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPUploader posts objects to a bucket-addressed storage endpoint.
type HTTPUploader struct {
	baseURL    string
	bucket     string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPUploader(baseURL, bucket, apiKey string) *HTTPUploader {
	return &HTTPUploader{
		baseURL: baseURL,
		bucket:  bucket,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type countingReader struct {
	r        io.Reader
	sent     int64
	progress ProgressFunc
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.sent += int64(n)
		if c.progress != nil {
			c.progress(c.sent)
		}
	}
	return n, err
}

func (u *HTTPUploader) Upload(ctx context.Context, path, contentType string, r io.Reader, size int64, progress ProgressFunc) (string, error) {
	body := &countingReader{r: r, progress: progress}

	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", u.baseURL, u.bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("upload rejected: status %d: %s", resp.StatusCode, string(msg))
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", u.baseURL, u.bucket, path), nil
}
