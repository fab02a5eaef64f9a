package document

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenPDF_FileNotFound(t *testing.T) {
	_, err := OpenPDF(filepath.Join(t.TempDir(), "missing.pdf"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("OpenPDF(missing) error = %v, want ErrNotFound", err)
	}
}

func TestOpenPDF_NotAPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake.pdf")
	os.WriteFile(path, []byte("this is not a pdf"), 0o644)

	_, err := OpenPDF(path)
	if !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("OpenPDF(garbage) error = %v, want ErrInvalidDocument", err)
	}
}

func TestPDFDocument_Pages(t *testing.T) {
	doc := &PDFDocument{path: "/books/manual.pdf", pageCount: 3}

	if doc.PageCount() != 3 {
		t.Fatalf("PageCount() = %d, want 3", doc.PageCount())
	}
	if doc.Name() != "manual" {
		t.Errorf("Name() = %q, want %q", doc.Name(), "manual")
	}
	if !strings.HasSuffix(doc.Key(), "manual.pdf") {
		t.Errorf("Key() = %q, want a path key ending in manual.pdf", doc.Key())
	}

	for i := 0; i < 3; i++ {
		p, err := doc.Page(i)
		if err != nil {
			t.Fatalf("Page(%d) failed: %v", i, err)
		}
		if p.Number != i+1 {
			t.Errorf("Page(%d).Number = %d, want %d", i, p.Number, i+1)
		}
		if p.HasContent() {
			t.Errorf("Page(%d).HasContent() = true; PDF pages carry no raw content", i)
		}
	}

	if _, err := doc.Page(3); err == nil {
		t.Error("Page(3) on a 3-page document: expected error, got nil")
	}
	if _, err := doc.Page(-1); err == nil {
		t.Error("Page(-1): expected error, got nil")
	}
}

func TestPDFDocument_WriteReordered_Validation(t *testing.T) {
	doc := &PDFDocument{path: "/books/manual.pdf", pageCount: 3}
	out := filepath.Join(t.TempDir(), "out.pdf")

	if err := doc.WriteReordered(out, []int{1, 2}); err == nil {
		t.Error("short order: expected error, got nil")
	}
	if err := doc.WriteReordered(out, []int{1, 2, 4}); err == nil {
		t.Error("out-of-range page number: expected error, got nil")
	}
	if err := doc.WriteReordered(out, []int{0, 1, 2}); err == nil {
		t.Error("zero page number: expected error, got nil")
	}
}
