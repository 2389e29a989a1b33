package cli

import (
	"github.com/pclements12/tsoa/internal/config"
	"github.com/pclements12/tsoa/internal/utils/fileops"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	fileOps *fileops.FileOps
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{
		fileOps: fileops.NewFileOps(),
	}
}

// CleanGeneratedFiles removes the routes file the options point at and
// returns the files actually removed. A missing file is not an error.
func (c *Cleaner) CleanGeneratedFiles(opts *config.Options) ([]string, error) {
	var removedFiles []string

	target := opts.RoutesFile()
	removed, err := c.fileOps.RemoveIfExists(target)
	if err != nil {
		return nil, err
	}
	if removed {
		removedFiles = append(removedFiles, target)
	}

	return removedFiles, nil
}
