package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"thinline/internal/domain"
)

// Scanner scans for source files in a directory
type Scanner struct {
	skipDirs map[string]bool
	language domain.Language
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// WithLanguage restricts the scan to files of one language. The empty
// language accepts every supported file
func (s *Scanner) WithLanguage(lang domain.Language) *Scanner {
	s.language = lang
	return s
}

// Scan finds all supported source files in the given root directory
func (s *Scanner) Scan(root string) ([]string, error) {
	var files []string

	// Clean and validate the root path
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("source path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			// Skip hidden directories (starting with .)
			if path != root && strings.HasPrefix(name, ".") && name != "." && name != ".." {
				return filepath.SkipDir
			}

			if s.skipDirs[name] {
				return filepath.SkipDir
			}

			return nil
		}

		if s.accepts(path) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// ScanAll scans every root and returns the sorted, de-duplicated union
func (s *Scanner) ScanAll(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, root := range roots {
		found, err := s.Scan(root)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func (s *Scanner) accepts(path string) bool {
	lang := domain.LanguageForPath(path)
	if lang == "" {
		return false
	}
	if s.language == "" {
		return true
	}
	// C sources may include C++ headers and the other way round.
	if s.language == domain.LanguageC || s.language == domain.LanguageCPP {
		return lang == domain.LanguageC || lang == domain.LanguageCPP
	}
	return lang == s.language
}
