package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"
)

// skipDir reports whether the workspace scan never descends into a
// directory named name, per §4.4 step 2.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules" || name == "target"
}

// ScanRoot walks root recursively, loading every `.al` file (case
// insensitive) it finds that is not already tracked. I/O failures on an
// individual file are logged and skipped; the rest proceed (§7).
func (s *Store) ScanRoot(ctx context.Context, root string) {
	logger := s.Logger()
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if logger != nil {
				logger.Warn("workspace scan: failed to stat path", zap.Error(err), zap.String("path", path))
			}
			return nil
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".al") {
			return nil
		}

		text, readErr := os.ReadFile(path)
		if readErr != nil {
			if logger != nil {
				logger.Warn("workspace scan: failed to read file", zap.Error(readErr), zap.String("path", path))
			}
			return nil
		}

		docURI := protocol.URI(uri.File(path))
		if _, err := s.PutIfAbsent(ctx, docURI, string(text)); err != nil && logger != nil {
			logger.Warn("workspace scan: failed to parse file", zap.Error(err), zap.String("path", path))
		}
		return nil
	})
	if err != nil && logger != nil {
		logger.Warn("workspace scan failed", zap.Error(err), zap.String("root", root))
	}
}

// ScanRoots scans every current workspace root.
func (s *Store) ScanRoots(ctx context.Context) {
	for _, root := range s.Roots() {
		s.ScanRoot(ctx, root)
	}
}

// URIToPath converts a document URI back to a filesystem path, or
// returns ok=false if it isn't a file:// URI the OS can resolve (§7 —
// such URIs are logged and skipped by the caller).
func URIToPath(u protocol.URI) (string, bool) {
	if !strings.HasPrefix(string(u), "file://") {
		return "", false
	}
	filename := uri.URI(u).Filename()
	if filename == "" {
		return "", false
	}
	return filename, true
}
