// Package corpus enumerates the source files of a mining corpus.
package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/xxh3"
)

// SourceFile describes one file discovered in the corpus.
type SourceFile struct {
	Path      string // absolute path
	RelPath   string // path relative to the corpus root
	SizeBytes int64
	Digest    uint64 // xxh3 of the file contents
}

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	"vendor":       true,
	"testdata":     true,
	"node_modules": true,
}

// SkipDir reports whether a directory name is excluded from the corpus.
func SkipDir(name string) bool {
	return skipDirs[name] || strings.HasPrefix(name, ".")
}

// Walk enumerates every Go source file under root, skipping vendor,
// testdata, node_modules and hidden directories. Each returned file carries
// an xxh3 content digest so callers can detect unchanged files cheaply.
func Walk(root string) ([]SourceFile, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve corpus root %s: %w", root, err)
	}

	var files []SourceFile
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != absRoot && SkipDir(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsSourceFile(name) {
			return nil
		}

		digest, size, err := Digest(path)
		if err != nil {
			return fmt.Errorf("failed to digest %s: %w", path, err)
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			rel = path
		}

		files = append(files, SourceFile{
			Path:      path,
			RelPath:   rel,
			SizeBytes: size,
			Digest:    digest,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk corpus %s: %w", root, err)
	}

	return files, nil
}

// IsSourceFile reports whether a file name belongs to the corpus.
func IsSourceFile(name string) bool {
	return strings.HasSuffix(name, ".go") && !strings.HasPrefix(name, ".")
}

// Digest returns the xxh3 digest and size of the file at path.
func Digest(path string) (uint64, int64, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}
	return xxh3.Hash(content), int64(len(content)), nil
}
