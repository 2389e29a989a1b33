package fileops

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	generrors "github.com/pclements12/tsoa/internal/errors"
)

// PathValidator provides centralized path validation and cleaning functionality
type PathValidator struct{}

// NewPathValidator creates a new PathValidator instance
func NewPathValidator() *PathValidator {
	return &PathValidator{}
}

// ValidateAndClean validates and cleans a file path that must exist
func (pv *PathValidator) ValidateAndClean(filePath string) (string, error) {
	cleanPath, err := pv.ValidateAndCleanOptional(filePath)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(cleanPath); os.IsNotExist(err) {
		return "", generrors.New(generrors.FileSystemErrorCode, "file does not exist: "+cleanPath).
			WithContext("path", cleanPath)
	}
	return cleanPath, nil
}

// ValidateAndCleanOptional validates and cleans a path that may not exist yet.
// A ".." segment is only allowed as a leading run of a relative path.
func (pv *PathValidator) ValidateAndCleanOptional(filePath string) (string, error) {
	if strings.TrimSpace(filePath) == "" {
		return "", generrors.New(generrors.FileSystemErrorCode, "file path cannot be empty")
	}

	cleanPath := filepath.Clean(filePath)

	segments := strings.Split(filepath.ToSlash(cleanPath), "/")
	leading := 0
	for leading < len(segments) && segments[leading] == ".." {
		leading++
	}
	if slices.Contains(segments[leading:], "..") {
		return "", generrors.New(generrors.FileSystemErrorCode, "path traversal not allowed in file path: "+filePath)
	}

	return cleanPath, nil
}

// Exists checks if a path exists
func (pv *PathValidator) Exists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// IsDir checks if a path exists and is a directory
func (pv *PathValidator) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile checks if a path exists and is a regular file
func (pv *PathValidator) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// GetAbsolutePath resolves a path to its absolute form
func (pv *PathValidator) GetAbsolutePath(path string) (string, error) {
	cleanPath, err := pv.ValidateAndCleanOptional(path)
	if err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return "", generrors.WrapFileSystemError("resolve path", cleanPath, err)
	}
	return absPath, nil
}
