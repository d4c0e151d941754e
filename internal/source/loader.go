// Package source loads documents from files and directories.
package source

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/dgallion1/contentlint/internal/doctree"
	"github.com/dgallion1/contentlint/internal/parser"
)

// Loader reads documents through an afero filesystem.
type Loader struct {
	Fs afero.Fs

	// PDFFallbackPdftotext enables the pdftotext fallback for PDFs.
	PDFFallbackPdftotext bool
}

// NewLoader returns a Loader over the OS filesystem.
func NewLoader() *Loader {
	return &Loader{Fs: afero.NewOsFs()}
}

// Load reads path, which may be a file or a directory.
func (l *Loader) Load(path string) ([]*doctree.Document, error) {
	info, err := l.Fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return l.LoadDir(path)
	}
	return l.LoadFile(path)
}

// LoadFile reads one file. CSV manifests yield one document per row;
// every other format yields a single document.
func (l *Loader) LoadFile(path string) ([]*doctree.Document, error) {
	f, err := l.Fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		docs, err := parser.ParseManifest(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return docs, nil
	}

	p, err := parser.ForFile(path)
	if err != nil {
		return nil, err
	}
	if pdf, ok := p.(*parser.PDFParser); ok {
		pdf.FallbackPdftotext = l.PDFFallbackPdftotext
	}
	doc, err := p.Parse(f, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.ID == "" {
		doc.ID = path
	}
	return []*doctree.Document{doc}, nil
}

// LoadDir walks dir recursively in lexical order and loads every file
// with a supported extension. Hidden entries are skipped.
func (l *Loader) LoadDir(dir string) ([]*doctree.Document, error) {
	var paths []string
	err := afero.Walk(l.Fs, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name := info.Name()
		if path != dir && strings.HasPrefix(name, ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() && parser.IsSupportedExtension(name) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	var docs []*doctree.Document
	for _, p := range paths {
		got, err := l.LoadFile(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, got...)
	}
	return docs, nil
}
