package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNothingToArchive is returned when none of the given outputs exist
var ErrNothingToArchive = errors.New("no outputs to archive")

// ArchiveOutputs moves the outputs of a previous run (audio directory, JSON
// file) into <root>/archive/run-<timestamp>. Paths that do not exist are
// skipped. It returns the directory the outputs were moved to.
func ArchiveOutputs(root string, paths ...string) (string, error) {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to stat %s: %w", p, err)
		}
	}
	if len(existing) == 0 {
		return "", ErrNothingToArchive
	}

	archiveDir := filepath.Join(root, "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	runDir := filepath.Join(archiveDir, "run-"+time.Now().Format("20060102-150405"))
	if _, err := os.Stat(runDir); err == nil {
		// Two runs in the same second
		runDir = filepath.Join(archiveDir, "run-"+time.Now().Format("20060102-150405.000000"))
	}
	if err := os.Mkdir(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}

	for _, p := range existing {
		target := filepath.Join(runDir, filepath.Base(p))
		if err := os.Rename(p, target); err != nil {
			return runDir, fmt.Errorf("failed to archive %s: %w", p, err)
		}
	}

	return runDir, nil
}
