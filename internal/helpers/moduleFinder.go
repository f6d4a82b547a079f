package helpers

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrModuleFileNotFound is returned by FindModuleFile when no candidate exists.
var ErrModuleFileNotFound = errors.New("compiler module file not found")

// FindModuleFile returns the absolute path of the first directory in dirs that
// contains a regular file called name. The error lists every path checked and
// how to produce the file with the given build hint.
func FindModuleFile(logger *slog.Logger, name, buildHint string, dirs ...string) (string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	checked := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		absPath, err := filepath.Abs(path)
		if err != nil {
			absPath = path
		}
		if info, err := os.Stat(absPath); err == nil && info.Mode().IsRegular() {
			logger.Debug("found compiler module", "path", absPath)
			return absPath, nil
		}
		checked = append(checked, absPath)
	}

	var b strings.Builder
	if buildHint != "" {
		fmt.Fprintf(&b, "\n\nTo fix this issue, %s, or copy the file to one of:\n", buildHint)
	} else {
		b.WriteString("\n\nSearched:\n")
	}
	for _, path := range checked {
		b.WriteString("   - " + path + "\n")
	}
	return "", fmt.Errorf("%w: %s%s", ErrModuleFileNotFound, name, b.String())
}
