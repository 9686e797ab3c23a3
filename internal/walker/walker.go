// Package walker finds lesson files on disk for bulk import.
package walker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultMaxFileSize is the largest lesson file considered (8 MB, the
// same limit the save endpoint applies).
const DefaultMaxFileSize int64 = 8 << 20

// DefaultInclude matches exported lesson documents.
var DefaultInclude = []string{"**/*.json"}

// FileInfo describes one candidate lesson file.
type FileInfo struct {
	Path        string // Absolute path on disk.
	RelPath     string // Slash-separated path relative to the root.
	Size        int64
	ContentHash string // SHA-256 hex digest of the file content.
}

// Config controls Walk.
type Config struct {
	RootDir     string
	Include     []string // Glob patterns; empty means DefaultInclude.
	Exclude     []string // Glob patterns; matching files are skipped.
	MaxFileSize int64    // 0 means DefaultMaxFileSize.
}

// Walk traverses the tree rooted at cfg.RootDir and returns every file that
// passes the filters, sorted by relative path. Binary files and paths
// listed in a root .gitignore are skipped. A RootDir naming a single file
// returns just that file.
func Walk(cfg Config) ([]FileInfo, error) {
	root, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}
	st, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	}
	if !st.IsDir() {
		hash, err := hashFile(root)
		if err != nil {
			return nil, fmt.Errorf("walker: %w", err)
		}
		return []FileInfo{{Path: root, RelPath: filepath.Base(root), Size: st.Size(), ContentHash: hash}}, nil
	}

	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	include := cfg.Include
	if len(include) == 0 {
		include = DefaultInclude
	}

	gitignorePatterns := loadGitignore(filepath.Join(root, ".gitignore"))

	var files []FileInfo
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		if d.IsDir() {
			if path != root && shouldExcludeDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if matchesGitignore(relPath, gitignorePatterns) {
			return nil
		}
		if !MatchesInclude(relPath, include) || MatchesExclude(relPath, cfg.Exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxSize {
			return nil
		}
		if isBinary(path) {
			return nil
		}

		hash, err := hashFile(path)
		if err != nil {
			return nil
		}
		files = append(files, FileInfo{
			Path:        path,
			RelPath:     filepath.ToSlash(relPath),
			Size:        info.Size(),
			ContentHash: hash,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// isBinary reports whether the first 512 bytes of a file contain a NUL.
func isBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return true
	}
	for i := 0; i < n; i++ {
		if buf[i] == 0 {
			return true
		}
	}
	return false
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// loadGitignore returns the non-empty, non-comment lines of a .gitignore.
func loadGitignore(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// matchesGitignore checks a relative path against gitignore patterns. Only
// the common forms are supported: bare names match any path component and
// patterns with a slash match the whole path.
func matchesGitignore(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	normalized := filepath.ToSlash(relPath)

	for _, pattern := range patterns {
		pattern = strings.TrimSuffix(pattern, "/")
		if !strings.Contains(pattern, "/") {
			for _, part := range strings.Split(normalized, "/") {
				if matched, _ := filepath.Match(pattern, part); matched {
					return true
				}
			}
			continue
		}
		pattern = strings.TrimPrefix(pattern, "/")
		if matched, _ := filepath.Match(pattern, normalized); matched {
			return true
		}
	}
	return false
}
