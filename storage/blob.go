package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"gopress-cms/config"
)

// UploadResult is what the media service hands back for a stored blob.
type UploadResult struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

// BlobStore holds binary image data externally and serves it by URL.
type BlobStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (*UploadResult, error)
	Delete(ctx context.Context, url string) error
}

type httpBlobStore struct {
	client *resty.Client
	logger *zap.Logger
}

// NewHTTPBlobStore builds a client for the media service's HTTP API.
func NewHTTPBlobStore(cfg config.BlobConfig, logger *zap.Logger) BlobStore {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second)

	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	return &httpBlobStore{client: client, logger: logger}
}

func (s *httpBlobStore) Upload(ctx context.Context, data []byte, contentType string) (*UploadResult, error) {
	key := uuid.NewString() + extensionFor(contentType)

	var result UploadResult
	resp, err := s.client.R().
		SetContext(ctx).
		SetMultipartField("file", key, contentType, bytes.NewReader(data)).
		SetResult(&result).
		Post("/upload")
	if err != nil {
		return nil, fmt.Errorf("blob upload: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("blob upload: media service returned %s", resp.Status())
	}

	s.logger.Info("blob uploaded",
		zap.String("key", key),
		zap.String("url", result.URL),
		zap.Int("bytes", len(data)),
	)
	return &result, nil
}

func (s *httpBlobStore) Delete(ctx context.Context, url string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("url", url).
		Delete("/files")
	if err != nil {
		return fmt.Errorf("blob delete: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("blob delete: media service returned %s", resp.Status())
	}

	s.logger.Info("blob deleted", zap.String("url", url))
	return nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
