// Package imghost uploads images to an imgbb-style hosting API.
package imghost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MaxUploadSize is the host's hard payload limit; oversized payloads are
// rejected before any network call.
const MaxUploadSize = 32 << 20

const DefaultTimeout = 30 * time.Second

var (
	ErrTooLarge = errors.New("image exceeds maximum upload size")
	ErrNotImage = errors.New("only image content types are allowed")
	ErrTimeout  = errors.New("image upload timed out")
)

type Config struct {
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseURL"`
	Timeout time.Duration `yaml:"timeout"`
}

type UploadResult struct {
	DisplayURL   string
	ThumbnailURL string
	DeleteURL    string
}

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) Upload(ctx context.Context, data []byte, contentType string) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image payload")
	}
	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotImage
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	filePart, err := writer.CreateFormFile("image", "upload")
	if err != nil {
		return nil, err
	}
	if _, err := filePart.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s?key=%s", c.baseURL, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	var result struct {
		Success bool `json:"success"`
		Data    struct {
			DisplayURL string `json:"display_url"`
			DeleteURL  string `json:"delete_url"`
			Thumb      struct {
				URL string `json:"url"`
			} `json:"thumb"`
		} `json:"data"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !result.Success {
		if result.Error.Message != "" {
			return nil, fmt.Errorf("image host error: %s", result.Error.Message)
		}
		return nil, fmt.Errorf("image host returned status %d", resp.StatusCode)
	}

	return &UploadResult{
		DisplayURL:   result.Data.DisplayURL,
		ThumbnailURL: result.Data.Thumb.URL,
		DeleteURL:    result.Data.DeleteURL,
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}
