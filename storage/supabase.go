package storage

import (
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// SupabaseStorage uploads files to a Supabase storage bucket over its REST
// API. Save returns the public object URL; Delete parses the bucket path
// back out of that URL.
type SupabaseStorage struct {
	baseURL string
	bucket  string
	client  *resty.Client
}

func NewSupabaseStorage(baseURL, key, bucket string) *SupabaseStorage {
	client := resty.New().
		SetHeader("Authorization", "Bearer "+key).
		SetHeader("apikey", key)

	return &SupabaseStorage{
		baseURL: strings.TrimRight(baseURL, "/"),
		bucket:  bucket,
		client:  client,
	}
}

func (s *SupabaseStorage) objectPath(subfolder, filename string) string {
	if subfolder == "" {
		return filename
	}
	return subfolder + "/" + filename
}

func (s *SupabaseStorage) publicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, path)
}

func (s *SupabaseStorage) Save(data []byte, subfolder, filename string) (string, error) {
	path := s.objectPath(subfolder, filename)

	resp, err := s.client.R().
		SetHeader("Content-Type", contentTypeFor(filename)).
		SetBody(data).
		Post(fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, path))
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("supabase upload failed: %s: %s", resp.Status(), resp.String())
	}

	return s.publicURL(path), nil
}

func (s *SupabaseStorage) Open(locator string) ([]byte, error) {
	resp, err := s.client.R().Get(locator)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("supabase download failed: %s", resp.Status())
	}
	return resp.Body(), nil
}

func (s *SupabaseStorage) Delete(locator string) error {
	// URL format: .../storage/v1/object/public/<bucket>/<folder>/<file>
	marker := fmt.Sprintf("/public/%s/", s.bucket)
	idx := strings.LastIndex(locator, marker)
	if idx < 0 {
		return fmt.Errorf("unrecognized supabase locator: %s", locator)
	}
	path := locator[idx+len(marker):]

	resp, err := s.client.R().
		Delete(fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, path))
	if err != nil {
		return err
	}
	if resp.IsError() && resp.StatusCode() != 404 {
		return fmt.Errorf("supabase delete failed: %s", resp.Status())
	}
	return nil
}

func contentTypeFor(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(filename, ".png"):
		return "image/png"
	case strings.HasSuffix(filename, ".jpg"), strings.HasSuffix(filename, ".jpeg"):
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
