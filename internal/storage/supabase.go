package storage

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"path"
	"strings"
	"time"
)

// MaxImageSize caps vehicle image uploads at 10MB.
const MaxImageSize = 10 << 20

var allowedImageTypes = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// SupabaseClient uploads objects to a Supabase storage bucket over its REST
// API and hands back the public URL. Supabase has no Go SDK; the API is two
// plain HTTP endpoints.
type SupabaseClient struct {
	BaseURL string
	APIKey  string
	Bucket  string
	HTTP    *http.Client
}

func NewSupabaseClient(baseURL, apiKey, bucket string) *SupabaseClient {
	return &SupabaseClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		Bucket:  bucket,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether upload credentials are present.
func (c *SupabaseClient) Configured() bool {
	return c.BaseURL != "" && c.APIKey != ""
}

// ValidateImage checks the filename extension and reported content type
// against the allowed image formats.
func ValidateImage(filename, contentType string) error {
	ext := strings.ToLower(path.Ext(filename))
	want, ok := allowedImageTypes[ext]
	if !ok {
		return fmt.Errorf("images only (jpeg, jpg, png, gif)")
	}
	if contentType != want && contentType != "image/jpg" {
		return fmt.Errorf("unexpected content type %q for %s", contentType, ext)
	}
	return nil
}

// Upload stores the object under a unique name and returns its public URL.
func (c *SupabaseClient) Upload(originalName, contentType string, data []byte) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("storage not configured")
	}
	objectName := fmt.Sprintf("%d-%d%s",
		time.Now().UnixMilli(), rand.Int63n(1_000_000_000), strings.ToLower(path.Ext(originalName)))

	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.BaseURL, c.Bucket, objectName)
	req, err := http.NewRequest(http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("error building upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("error uploading to storage: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("storage upload failed with status %d: %s", resp.StatusCode, body)
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.BaseURL, c.Bucket, objectName), nil
}
