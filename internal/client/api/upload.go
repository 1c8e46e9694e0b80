package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/foodshare/foodshare/internal/client/models"
)

// readPhotoFile is a test seam for reading photo bytes from disk.
var readPhotoFile = os.ReadFile

// PresignPhoto asks the server for a one-time upload URL and the storage
// key the photo will live under.
func (c *Client) PresignPhoto(ctx context.Context) (key, uploadURL string, err error) {
	var out struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/photos/presign", nil, &out); err != nil {
		return "", "", err
	}
	return out.Key, out.URL, nil
}

// UploadPhoto PUTs photo bytes to a presigned URL.
func (c *Client) UploadPhoto(ctx context.Context, uploadURL string, data []byte, mimeType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mimeType)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}

// uploadPendingPhotos uploads every photo that has no storage key yet and
// returns the full ordered key list for the listing.
func (c *Client) uploadPendingPhotos(ctx context.Context, photos []models.Photo) ([]string, error) {
	keys := make([]string, 0, len(photos))
	for _, p := range photos {
		if p.StorageKey != "" {
			keys = append(keys, p.StorageKey)
			continue
		}

		data, err := readPhotoFile(p.Path)
		if err != nil {
			return nil, fmt.Errorf("read photo %q: %w", p.Name, err)
		}

		key, uploadURL, err := c.PresignPhoto(ctx)
		if err != nil {
			return nil, fmt.Errorf("presign photo %q: %w", p.Name, err)
		}
		if err := c.UploadPhoto(ctx, uploadURL, data, p.MIMEType); err != nil {
			return nil, fmt.Errorf("upload photo %q: %w", p.Name, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}
