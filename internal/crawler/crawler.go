// Package crawler walks a repository and collects the source files the
// pipeline should extract, honoring the repo's .gitignore plus a built-in
// skip list for dependency and build directories.
package crawler

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"codegraph/internal/component"
)

// SourceFile is one file selected for extraction.
type SourceFile struct {
	AbsPath  string
	RelPath  string // slash-separated, relative to the scan root
	Language string
}

// Crawler scans a directory tree for supported source files.
type Crawler struct {
	languages map[string]bool
	extra     []string
	skipDirs  map[string]bool
}

// New creates a crawler. languages restricts results to those language
// names (empty means every supported language); extraIgnores are additional
// gitignore-style patterns applied on top of the repo's own .gitignore.
func New(languages []string, extraIgnores []string) *Crawler {
	c := &Crawler{
		languages: make(map[string]bool, len(languages)),
		extra:     extraIgnores,
		skipDirs: map[string]bool{
			".git":         true,
			"vendor":       true,
			"node_modules": true,
			"dist":         true,
			"target":       true,
			".stack-work":  true,
		},
	}
	for _, lang := range languages {
		c.languages[lang] = true
	}
	return c
}

// Scan walks root and returns every matching source file, in walk order.
// A file that ignore rules or the language filter reject is skipped;
// an unreadable subtree fails the whole scan.
func (c *Crawler) Scan(root string) ([]SourceFile, error) {
	matcher := c.loadIgnore(root)

	var files []SourceFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if c.skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			if matcher != nil && matcher.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		lang := component.LanguageForPath(path)
		if lang == "" {
			return nil
		}
		if len(c.languages) > 0 && !c.languages[lang] {
			return nil
		}
		if strings.HasSuffix(d.Name(), "_test.go") {
			return nil
		}
		if matcher != nil && matcher.MatchesPath(rel) {
			return nil
		}
		files = append(files, SourceFile{AbsPath: path, RelPath: rel, Language: lang})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (c *Crawler) loadIgnore(root string) *gitignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		if m, err := gitignore.CompileIgnoreFileAndLines(path, c.extra...); err == nil {
			return m
		}
	}
	if len(c.extra) > 0 {
		return gitignore.CompileIgnoreLines(c.extra...)
	}
	return nil
}
