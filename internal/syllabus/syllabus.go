// Package syllabus reads the learner's syllabus from text, Markdown or
// PDF files and prepares it for lesson generation.
package syllabus

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"rsc.io/pdf"
)

// MaxLength caps the syllabus text sent to the generator, in runes.
const MaxLength = 12000

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported syllabus format")

// Load reads a syllabus file. .txt and .md files are read as text and
// .pdf files have the text of every page concatenated. The result is not
// normalized.
func Load(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown", "":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read syllabus: %w", err)
		}
		return string(b), nil
	case ".pdf":
		return loadPDF(path)
	default:
		return "", fmt.Errorf("%s: %w", filepath.Ext(path), ErrUnsupportedFormat)
	}
}

func loadPDF(path string) (text string, err error) {
	// rsc.io/pdf panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf %s: %v", path, r)
		}
	}()

	doc, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	var pages []string
	for i := 1; i <= doc.NumPage(); i++ {
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		if t := pageText(p.Content().Text); t != "" {
			pages = append(pages, t)
		}
	}
	return strings.Join(pages, "\n"), nil
}

// pageText rebuilds words and lines from positioned glyphs. The reader
// yields one glyph per Text and drops spaces, so a horizontal gap marks a
// word break and a vertical move a line break.
func pageText(glyphs []pdf.Text) string {
	var b strings.Builder
	var prev *pdf.Text
	for i := range glyphs {
		g := &glyphs[i]
		if prev != nil {
			size := max(g.FontSize, prev.FontSize, 1)
			switch {
			case math.Abs(g.Y-prev.Y) > size/2:
				b.WriteByte('\n')
			case g.X-(prev.X+prev.W) > size*0.15:
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
		prev = g
	}
	return strings.TrimSpace(b.String())
}

// Normalize trims each line, collapses runs of spaces and blank lines,
// and truncates to MaxLength runes. Line breaks are kept since they
// usually separate topics.
func Normalize(text string) string {
	var lines []string
	blank := false
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if len(lines) > 0 {
				blank = true
			}
			continue
		}
		if blank {
			lines = append(lines, "")
			blank = false
		}
		lines = append(lines, line)
	}
	out := strings.Join(lines, "\n")
	if r := []rune(out); len(r) > MaxLength {
		out = string(r[:MaxLength])
	}
	return out
}
