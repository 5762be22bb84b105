// Package imagestore uploads user-supplied images to the external media
// service. Upload failures are reported to the caller but are treated as
// non-fatal at the service layer.
package imagestore

import (
	"context"
	"fmt"
	"net/http"

	"github.com/recipe-room/recipe-room/internal/app/metrics"
	"github.com/recipe-room/recipe-room/internal/httputil"
)

// Image is the stored result of an upload.
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Client talks to the media service.
type Client struct {
	http   *httputil.Client
	folder string
}

// Config configures the media service connection.
type Config struct {
	BaseURL string
	APIKey  string
	Secret  string
	Folder  string
}

// New creates a media service client. Folder defaults to "recipes".
func New(cfg Config) *Client {
	folder := cfg.Folder
	if folder == "" {
		folder = "recipes"
	}
	return &Client{
		http: httputil.NewClient(httputil.ClientConfig{
			BaseURL:  cfg.BaseURL,
			Username: cfg.APIKey,
			Password: cfg.Secret,
		}),
		folder: folder,
	}
}

type uploadRequest struct {
	Data   string `json:"data"`
	Folder string `json:"folder"`
}

// Upload sends base64-encoded image data and returns the hosted URL and the
// public id needed for later deletion.
func (c *Client) Upload(ctx context.Context, data string) (Image, error) {
	resp, err := c.http.Post(ctx, "/upload", uploadRequest{Data: data, Folder: c.folder})
	if err != nil {
		metrics.RecordImageUpload(false)
		return Image{}, fmt.Errorf("image upload: %w", err)
	}

	var img Image
	if err := httputil.DecodeResponse(resp, &img); err != nil {
		metrics.RecordImageUpload(false)
		return Image{}, fmt.Errorf("image upload: %w", err)
	}
	metrics.RecordImageUpload(true)
	return img, nil
}

// Delete removes a previously uploaded image. A missing image is not an
// error; the image may have been cleaned up already.
func (c *Client) Delete(ctx context.Context, publicID string) error {
	resp, err := c.http.Delete(ctx, "/images/"+publicID)
	if err != nil {
		return fmt.Errorf("image delete: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil
	}
	if err := httputil.DecodeResponse(resp, nil); err != nil {
		return fmt.Errorf("image delete: %w", err)
	}
	return nil
}
