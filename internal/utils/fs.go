package utils

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// EnsureDir creates dirPath and its parents when missing.
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0755)
}

// WritableDir creates dirPath if needed and probes it with a throwaway file.
func WritableDir(dirPath string) error {
	if err := EnsureDir(dirPath); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dirPath, ".probe-*")
	if err != nil {
		log.Debugf("Cannot write to directory %s: %v", dirPath, err)
		return errors.Join(os.ErrPermission, err)
	}
	probe.Close()
	return os.Remove(probe.Name())
}

// firstExisting returns the first candidate that is an existing file.
func firstExisting(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if c != "" && FileExists(filepath.Clean(c)) {
			return filepath.Clean(c), true
		}
	}
	return "", false
}
