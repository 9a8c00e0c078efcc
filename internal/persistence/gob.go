// Package persistence writes and reads gob snapshots of in-process stores.
package persistence

import (
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// SaveGob encodes object with gob into filePath. The snapshot is written to a
// temporary file in the same directory and renamed into place, so readers never
// observe a partial file. Missing directories are created.
func SaveGob(filePath string, object interface{}) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if err := gob.NewEncoder(tmp).Encode(object); err != nil {
		closeQuietly(tmp, tmpPath)
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to gob encode to file %s: %w", filePath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move snapshot into %s: %w", filePath, err)
	}
	return nil
}

// LoadGob decodes a gob-encoded file from filePath into objectPointer.
// If the file does not exist it returns an error matching os.ErrNotExist,
// allowing callers to treat it as a fresh start.
func LoadGob(filePath string, objectPointer interface{}) error {
	file, err := os.Open(filePath) // #nosec G304 -- filePath comes from configuration, not user input
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.ErrNotExist
		}
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer closeQuietly(file, filePath)

	if err := gob.NewDecoder(file).Decode(objectPointer); err != nil {
		return fmt.Errorf("failed to gob decode from file %s: %w", filePath, err)
	}
	return nil
}

func closeQuietly(f *os.File, path string) {
	if err := f.Close(); err != nil {
		slog.Warn("failed to close file", "path", path, "err", err)
	}
}
