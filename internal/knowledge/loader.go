package knowledge

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"
)

// LoadDir reads supplemental knowledge documents from a directory:
// .md and .txt files as-is, .pdf files via text extraction. The file name
// (without extension) becomes the document id and, unless prefixed with
// "<section>__", the section defaults to "docs". Files are read
// concurrently with bounded parallelism.
func LoadDir(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge directory: %w", err)
	}

	type slot struct {
		doc Document
		ok  bool
	}
	slots := make([]slot, len(entries))

	g := new(errgroup.Group)
	g.SetLimit(4)
	for i, entry := range entries {
		if entry.IsDir() {
			continue
		}
		g.Go(func() error {
			path := filepath.Join(dir, entry.Name())
			ext := strings.ToLower(filepath.Ext(entry.Name()))

			var text string
			switch ext {
			case ".md", ".txt":
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading %s: %w", entry.Name(), err)
				}
				text = string(data)
			case ".pdf":
				extracted, err := extractPDFText(path)
				if err != nil {
					return fmt.Errorf("extracting %s: %w", entry.Name(), err)
				}
				text = extracted
			default:
				return nil
			}

			text = strings.TrimSpace(text)
			if text == "" {
				return nil
			}

			id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			section := "docs"
			if name, sec, ok := splitSection(id); ok {
				id, section = name, sec
			}
			slots[i] = slot{doc: Document{ID: id, Section: section, Text: text}, ok: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var docs []Document
	for _, s := range slots {
		if s.ok {
			docs = append(docs, s.doc)
		}
	}
	return docs, nil
}

// splitSection parses "faq__delivery" into ("delivery", "faq").
func splitSection(id string) (name, section string, ok bool) {
	sec, rest, found := strings.Cut(id, "__")
	if !found || sec == "" || rest == "" {
		return "", "", false
	}
	return rest, sec, true
}

func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", err
	}
	return buf.String(), nil
}
