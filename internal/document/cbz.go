package document

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// CBZDocument is a comic-book archive: a ZIP of page images read in
// entry-name order. This is the format where right-to-left book mode
// matters most in practice.
type CBZDocument struct {
	path      string
	zipReader *zip.ReadCloser
	pages     []Page
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// OpenCBZ opens a comic-book ZIP archive.
func OpenCBZ(cbzPath string) (*CBZDocument, error) {
	if err := checkReadable(cbzPath); err != nil {
		return nil, err
	}

	zr, err := zip.OpenReader(cbzPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", cbzPath, ErrInvalidDocument, err)
	}

	var entries []*zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := path.Base(f.Name)
		if strings.HasPrefix(name, ".") || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		if !imageExtensions[strings.ToLower(path.Ext(f.Name))] {
			continue
		}
		entries = append(entries, f)
	}
	if len(entries) == 0 {
		zr.Close()
		return nil, fmt.Errorf("%s: %w: no page images in archive", cbzPath, ErrInvalidDocument)
	}

	// Archives in the wild mix zero-padded and bare numbering, so a
	// plain lexical sort would order page 10 before page 2.
	sort.Slice(entries, func(i, j int) bool {
		return naturalLess(entries[i].Name, entries[j].Name)
	})

	doc := &CBZDocument{path: cbzPath, zipReader: zr}
	for i, entry := range entries {
		f := entry
		doc.pages = append(doc.pages, Page{
			Number: i + 1,
			Label:  path.Base(f.Name),
			open: func() (io.ReadCloser, error) {
				return f.Open()
			},
		})
	}
	return doc, nil
}

func (d *CBZDocument) Key() string    { return documentKey(d.path) }
func (d *CBZDocument) Name() string   { return displayName(d.path) }
func (d *CBZDocument) PageCount() int { return len(d.pages) }

func (d *CBZDocument) Page(index int) (Page, error) {
	if index < 0 || index >= len(d.pages) {
		return Page{}, fmt.Errorf("page index %d out of range [0,%d)", index, len(d.pages))
	}
	return d.pages[index], nil
}

func (d *CBZDocument) Close() error { return d.zipReader.Close() }

// naturalLess compares two names treating digit runs as numbers, so
// "page2.jpg" sorts before "page10.jpg".
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		aDigits, aRest := splitLeadingDigits(a)
		bDigits, bRest := splitLeadingDigits(b)

		if aDigits != "" && bDigits != "" {
			an := strings.TrimLeft(aDigits, "0")
			bn := strings.TrimLeft(bDigits, "0")
			if len(an) != len(bn) {
				return len(an) < len(bn)
			}
			if an != bn {
				return an < bn
			}
			a, b = aRest, bRest
			continue
		}

		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func splitLeadingDigits(s string) (digits, rest string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}
