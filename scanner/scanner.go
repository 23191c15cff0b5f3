// Package scanner discovers template files under a root directory.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type FileInfo struct {
	Path string
	Size int64
}

type Scanner struct {
	rootDir  string
	suffixes []string
}

// New returns a Scanner matching files by name suffix (not extension, since
// template suffixes such as ".html.tpl" span two dots).
func New(rootDir string, suffixes ...string) *Scanner {
	return &Scanner{
		rootDir:  rootDir,
		suffixes: suffixes,
	}
}

// Scan walks the root and returns matching files sorted by path, so
// downstream enumeration is deterministic.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.Walk(s.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if s.isTargetFile(path) {
			files = append(files, FileInfo{
				Path: path,
				Size: info.Size(),
			})
		}
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.suffixes) == 0 {
		return true
	}

	base := filepath.Base(path)
	for _, suffix := range s.suffixes {
		if strings.HasSuffix(base, suffix) && base != suffix {
			return true
		}
	}
	return false
}
