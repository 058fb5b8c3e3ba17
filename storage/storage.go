// Package storage provides the file persistence capability behind
// certificate artifacts (QR images and PDFs). Locators returned by Save are
// backend-dependent: a relative path for local disk, a public URL for the
// remote backends. Callers must treat them as opaque.
package storage

import (
	"fmt"

	"wapl/config"
)

// Storage saves, reads and deletes artifact files
type Storage interface {
	// Save writes data under subfolder/filename and returns its locator
	Save(data []byte, subfolder, filename string) (string, error)
	// Open reads the file back by the locator Save returned
	Open(locator string) ([]byte, error)
	// Delete removes the file; deleting a missing file is not an error
	Delete(locator string) error
}

// New constructs the storage backend selected by configuration. There is no
// lazy global client; construct once in main and inject.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.StorageBackend {
	case "", "local":
		return NewLocalStorage(cfg.UploadDir), nil
	case "supabase":
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			return nil, fmt.Errorf("supabase storage requires SUPABASE_URL and SUPABASE_KEY")
		}
		return NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket), nil
	case "oss":
		return NewOSSStorage(cfg.OSSEndpoint, cfg.OSSKeyID, cfg.OSSKeySecret, cfg.OSSBucket)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
