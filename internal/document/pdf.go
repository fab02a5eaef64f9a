package document

import (
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFDocument is a pdfcpu-backed document provider. Rendering of page
// content is left to the displaying surface; pages carry their source
// position only.
type PDFDocument struct {
	path      string
	pageCount int
}

// pdfConfiguration returns the pdfcpu configuration used for all
// operations. Relaxed validation accepts the mildly malformed files
// real-world viewers are expected to open.
func pdfConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// OpenPDF opens and validates a PDF file.
func OpenPDF(path string) (*PDFDocument, error) {
	if err := checkReadable(path); err != nil {
		return nil, err
	}

	if err := api.ValidateFile(path, pdfConfiguration()); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrInvalidDocument, err)
	}

	count, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrInvalidDocument, err)
	}
	if count < 1 {
		return nil, fmt.Errorf("%s: %w: document has no pages", path, ErrInvalidDocument)
	}

	return &PDFDocument{path: path, pageCount: count}, nil
}

func (d *PDFDocument) Key() string    { return documentKey(d.path) }
func (d *PDFDocument) Name() string   { return displayName(d.path) }
func (d *PDFDocument) PageCount() int { return d.pageCount }
func (d *PDFDocument) Path() string   { return d.path }

func (d *PDFDocument) Page(index int) (Page, error) {
	if index < 0 || index >= d.pageCount {
		return Page{}, fmt.Errorf("page index %d out of range [0,%d)", index, d.pageCount)
	}
	n := index + 1
	return Page{Number: n, Label: strconv.Itoa(n)}, nil
}

func (d *PDFDocument) Close() error { return nil }

// WriteReordered writes a copy of the document with its pages arranged
// in the given 1-based order. Used to materialize a simulated
// right-to-left book sequence for surfaces that can only play a PDF
// front to back.
func (d *PDFDocument) WriteReordered(outPath string, order []int) error {
	if len(order) != d.pageCount {
		return fmt.Errorf("order length %d does not match page count %d", len(order), d.pageCount)
	}
	selected := make([]string, len(order))
	for i, n := range order {
		if n < 1 || n > d.pageCount {
			return fmt.Errorf("page number %d out of range [1,%d]", n, d.pageCount)
		}
		selected[i] = strconv.Itoa(n)
	}
	if err := api.CollectFile(d.path, outPath, selected, pdfConfiguration()); err != nil {
		return fmt.Errorf("failed to write reordered PDF: %w", err)
	}
	return nil
}
