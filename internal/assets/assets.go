// Package assets locates the dictionary and voice files the pipeline loads.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Environment variable names used for path resolution.
const (
	EnvCacheDir = "KITTEN_CACHE_DIR"
)

// Directory and permission constants.
const (
	appName               = "kitten-tts"
	cacheDirName          = "cache"
	dataDirName           = "data"
	dotCache              = ".cache"
	defaultDirPermissions = 0o750
)

// Time formatting constants.
const (
	secondsInMinute = 60
	secondsInHour   = 3600
	formatSeconds   = "%.1fs"
	formatMinutes   = "%dm %.1fs"
	formatHours     = "%dh %dm"
)

// Error format strings.
const (
	errFmtFailedToCreateDir           = "failed to create directory %s: %w"
	errFmtCouldNotResolveAbsolutePath = "could not resolve absolute path for %q: %w"
	errFmtErrorCheckingPath           = "error checking asset path %q: %w"
	errFmtAssetNotFound               = "%w: %s"
)

// ErrAssetNotFound is returned when no candidate location holds the file.
var ErrAssetNotFound = errors.New("asset not found")

// CacheDir returns the application's cache directory, honouring
// KITTEN_CACHE_DIR and falling back to ~/.cache/kitten-tts.
func CacheDir() string {
	if cacheDir := os.Getenv(EnvCacheDir); cacheDir != "" {
		return cacheDir
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName, cacheDirName)
	}

	return filepath.Join(homeDir, dotCache, appName)
}

// EnsureDir creates path and its parents when missing.
func EnsureDir(path string) error {
	_, statErr := os.Stat(path)
	if os.IsNotExist(statErr) {
		mkdirErr := os.MkdirAll(path, defaultDirPermissions)
		if mkdirErr != nil {
			return fmt.Errorf(errFmtFailedToCreateDir, path, mkdirErr)
		}
	}

	return nil
}

// resolveSinglePath returns the absolute path and true when path exists.
// A missing file is not an error; any other stat failure is.
func resolveSinglePath(path string) (string, bool, error) {
	_, statErr := os.Stat(path)
	if statErr == nil {
		absPath, errAbs := filepath.Abs(path)
		if errAbs != nil {
			return "", false, fmt.Errorf(errFmtCouldNotResolveAbsolutePath, path, errAbs)
		}

		return absPath, true, nil
	} else if !os.IsNotExist(statErr) {
		return "", false, fmt.Errorf(errFmtErrorCheckingPath, path, statErr)
	}

	return "", false, nil
}

// Resolve finds name as given, then under ./data, then in the cache
// directory, and returns the first absolute path that exists.
func Resolve(name string) (string, error) {
	candidatePaths := []string{
		name,
		filepath.Join(dataDirName, name),
		filepath.Join(CacheDir(), name),
	}

	for _, path := range candidatePaths {
		resolvedPath, found, err := resolveSinglePath(path)
		if err != nil {
			return "", err
		}

		if found {
			return resolvedPath, nil
		}
	}

	return "", fmt.Errorf(errFmtAssetNotFound, ErrAssetNotFound, name)
}

// FormatDuration formats seconds as "45.2s", "5m 30.5s" or "1h 15m".
func FormatDuration(seconds float64) string {
	if seconds < secondsInMinute {
		return fmt.Sprintf(formatSeconds, seconds)
	}

	if seconds < secondsInHour {
		minutes := int(seconds / secondsInMinute)
		remainingSeconds := seconds - float64(minutes*secondsInMinute)

		return fmt.Sprintf(formatMinutes, minutes, remainingSeconds)
	}

	hours := int(seconds / secondsInHour)
	remainingSeconds := seconds - float64(hours*secondsInHour)
	remainingMinutes := int(remainingSeconds / secondsInMinute)

	return fmt.Sprintf(formatHours, hours, remainingMinutes)
}
