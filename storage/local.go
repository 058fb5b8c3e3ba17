package storage

import (
	"os"
	"path/filepath"
)

// LocalStorage writes files under a base upload directory. Locators are
// relative paths (subfolder/filename) served by the app's static route.
type LocalStorage struct {
	BaseDir string
}

func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) Save(data []byte, subfolder, filename string) (string, error) {
	targetDir := filepath.Join(s.BaseDir, subfolder)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", err
	}

	fullPath := filepath.Join(targetDir, filename)
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", err
	}

	if subfolder == "" {
		return filename, nil
	}
	return subfolder + "/" + filename, nil
}

func (s *LocalStorage) Open(locator string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.BaseDir, filepath.FromSlash(locator)))
}

func (s *LocalStorage) Delete(locator string) error {
	err := os.Remove(filepath.Join(s.BaseDir, filepath.FromSlash(locator)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
