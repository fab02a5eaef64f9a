package document

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrNotFound        = errors.New("file not found")
	ErrPermission      = errors.New("permission denied")
	ErrInvalidDocument = errors.New("not a readable document")
	ErrUnknownFormat   = errors.New("unknown document format")
	ErrNoContent       = errors.New("page has no retrievable content")
)

// Page is a lightweight handle onto one page of a document. Page values
// are safe to copy and reorder; a copy never aliases provider internals.
type Page struct {
	// Number is the 1-based position of the page in the source document,
	// independent of any display reordering.
	Number int
	// Label is a human-readable name for the page (a spine item title,
	// an archive entry name, or just the page number).
	Label string

	open func() (io.ReadCloser, error)
}

// Open returns the raw content of the page (a single-page image for
// archive-backed documents, XHTML for EPUB). Pages of documents whose
// provider exposes no per-page content return ErrNoContent.
func (p Page) Open() (io.ReadCloser, error) {
	if p.open == nil {
		return nil, fmt.Errorf("page %d: %w", p.Number, ErrNoContent)
	}
	return p.open()
}

// HasContent reports whether Open can return page content.
func (p Page) HasContent() bool { return p.open != nil }

// Document is the provider contract the reading core depends on.
// Implementations are PDF (pdfcpu), EPUB (spine-paginated), and CBZ
// (image archive).
type Document interface {
	// Key uniquely identifies the document for progress tracking.
	Key() string
	// Name is the display name shown in the recent-documents list.
	Name() string
	// PageCount reports the number of pages; always > 0 for an open document.
	PageCount() int
	// Page returns the page at the given zero-based index.
	Page(index int) (Page, error)
	Close() error
}

// Open opens the document at path, picking a provider by file extension.
func Open(path string) (Document, error) {
	if err := checkReadable(path); err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return OpenPDF(path)
	case ".epub":
		return OpenEPUB(path)
	case ".cbz", ".zip":
		return OpenCBZ(path)
	}
	return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// checkReadable maps filesystem failures onto the document error taxonomy
// before a provider touches the file.
func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		case errors.Is(err, fs.ErrPermission):
			return fmt.Errorf("%s: %w", path, ErrPermission)
		}
		return fmt.Errorf("%s: %w: %v", path, ErrInvalidDocument, err)
	}
	info, err := f.Stat()
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w: %v", path, ErrInvalidDocument, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s: %w: is a directory", path, ErrInvalidDocument)
	}
	return nil
}

// documentKey derives the progress-store key for a document path.
// The cleaned absolute path keeps keys stable across working directories.
func documentKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// displayName derives the display name for a document path.
func displayName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
