package storage

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// OSSStorage stores files in an Aliyun OSS bucket. Locators are public
// object URLs.
type OSSStorage struct {
	bucket   *oss.Bucket
	endpoint string
	name     string
}

func NewOSSStorage(endpoint, keyID, keySecret, bucketName string) (*OSSStorage, error) {
	client, err := oss.New(endpoint, keyID, keySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}

	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to open OSS bucket %s: %w", bucketName, err)
	}

	return &OSSStorage{
		bucket:   bucket,
		endpoint: strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://"),
		name:     bucketName,
	}, nil
}

func (s *OSSStorage) objectURL(key string) string {
	return fmt.Sprintf("https://%s.%s/%s", s.name, s.endpoint, key)
}

// objectKey extracts the object key from a locator URL
func (s *OSSStorage) objectKey(locator string) (string, error) {
	prefix := fmt.Sprintf("https://%s.%s/", s.name, s.endpoint)
	if !strings.HasPrefix(locator, prefix) {
		return "", fmt.Errorf("unrecognized OSS locator: %s", locator)
	}
	return strings.TrimPrefix(locator, prefix), nil
}

func (s *OSSStorage) Save(data []byte, subfolder, filename string) (string, error) {
	key := filename
	if subfolder != "" {
		key = subfolder + "/" + filename
	}

	opts := []oss.Option{oss.ContentType(contentTypeFor(filename))}
	if err := s.bucket.PutObject(key, bytes.NewReader(data), opts...); err != nil {
		return "", fmt.Errorf("OSS upload failed: %w", err)
	}

	return s.objectURL(key), nil
}

func (s *OSSStorage) Open(locator string) ([]byte, error) {
	key, err := s.objectKey(locator)
	if err != nil {
		return nil, err
	}

	body, err := s.bucket.GetObject(key)
	if err != nil {
		return nil, fmt.Errorf("OSS download failed: %w", err)
	}
	defer body.Close()

	return io.ReadAll(body)
}

func (s *OSSStorage) Delete(locator string) error {
	key, err := s.objectKey(locator)
	if err != nil {
		return err
	}
	return s.bucket.DeleteObject(key)
}
