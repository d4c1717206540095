package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/docquery/core"
)

// TextSource yields the page texts of a plain text file. Form feeds split
// the file into pages; a file without form feeds is a single page.
type TextSource struct {
	path string
}

// NewTextSource creates a page source for the text file at path.
func NewTextSource(path string) *TextSource {
	return &TextSource{path: path}
}

// Filename returns the base name of the underlying file.
func (s *TextSource) Filename() string {
	return filepath.Base(s.path)
}

// Pages reads the file and splits it on form feed characters.
// Empty pages are skipped; numbering follows form-feed position, so gaps
// are possible.
func (s *TextSource) Pages(ctx context.Context) ([]core.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var pages []core.Page
	for i, part := range strings.Split(string(data), "\f") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		pages = append(pages, core.Page{Number: i + 1, Text: part})
	}
	return pages, nil
}
