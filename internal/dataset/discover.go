package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrDatasetNotFound is returned when no reference table can be located
var ErrDatasetNotFound = errors.New("dataset not found")

// Discover resolves which CSV to load. An explicit file wins; otherwise the
// engineered (expanded) file in dir is preferred over the base file.
func Discover(explicit, dir, expandedFile, baseFile string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: %s", ErrDatasetNotFound, explicit)
		}
		return explicit, nil
	}

	var tried []string
	for _, name := range []string{expandedFile, baseFile} {
		if name == "" {
			continue
		}
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		tried = append(tried, path)
	}

	return "", fmt.Errorf("%w: looked for %v", ErrDatasetNotFound, tried)
}
