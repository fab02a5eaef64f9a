package render

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"runtime"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/yuanying/yomu/internal/document"
	"github.com/yuanying/yomu/internal/reader"
)

// SpreadOptions controls spread export.
type SpreadOptions struct {
	Mode      reader.Mode
	NativeRTL bool
	Zoom      reader.Zoom
	// Viewport is the target box for the fit zoom levels. Zeroes fall
	// back to a conventional desktop viewport.
	Viewport image.Point
}

const (
	defaultViewportWidth  = 1600
	defaultViewportHeight = 1200
)

// ExportSpreads renders an image-backed document into PNG files in
// dir, one file per visible unit (single page or spread) in display
// order. Returns the written paths.
func ExportSpreads(doc document.Document, dir string, opts SpreadOptions) ([]string, error) {
	pages := make([]document.Page, 0, doc.PageCount())
	for i := 0; i < doc.PageCount(); i++ {
		p, err := doc.Page(i)
		if err != nil {
			return nil, fmt.Errorf("failed to collect page %d: %w", i+1, err)
		}
		if !p.HasContent() {
			return nil, fmt.Errorf("page %d: %w", p.Number, document.ErrNoContent)
		}
		pages = append(pages, p)
	}

	seq := reader.DisplaySequence(pages, opts.Mode, opts.NativeRTL)
	units := groupUnits(seq, opts.Mode != reader.SinglePage)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// Units are independent; compose and save them concurrently. File
	// names come from the unit index, so output order is deterministic.
	written := make([]string, len(units))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			img, err := composeUnit(unit, opts)
			if err != nil {
				return err
			}
			out := filepath.Join(dir, fmt.Sprintf("spread_%03d.png", i+1))
			if err := imaging.Save(img, out); err != nil {
				return fmt.Errorf("failed to save %s: %w", out, err)
			}
			written[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return written, nil
}

// groupUnits splits a display sequence into visible units: every page
// alone in single mode; in dual mode the cover alone, then pairs, then
// an odd trailing page alone.
func groupUnits(seq []document.Page, dual bool) [][]document.Page {
	var units [][]document.Page
	if len(seq) == 0 {
		return units
	}
	if !dual {
		for _, p := range seq {
			units = append(units, []document.Page{p})
		}
		return units
	}
	units = append(units, seq[:1])
	for i := 1; i < len(seq); i += 2 {
		if i+1 < len(seq) {
			units = append(units, seq[i:i+2])
		} else {
			units = append(units, seq[i:i+1])
		}
	}
	return units
}

// composeUnit renders one unit onto a white canvas. A native
// right-to-left surface would flip the spread itself, so the exporter
// does it here.
func composeUnit(unit []document.Page, opts SpreadOptions) (*image.NRGBA, error) {
	images := make([]image.Image, 0, len(unit))
	for _, p := range unit {
		img, err := loadPageImage(p)
		if err != nil {
			return nil, err
		}
		images = append(images, scalePage(img, opts))
	}

	if len(images) == 2 && opts.NativeRTL {
		images[0], images[1] = images[1], images[0]
	}

	width, height := 0, 0
	for _, img := range images {
		width += img.Bounds().Dx()
		if h := img.Bounds().Dy(); h > height {
			height = h
		}
	}

	canvas := imaging.New(width, height, color.White)
	x := 0
	for _, img := range images {
		canvas = imaging.Paste(canvas, img, image.Pt(x, (height-img.Bounds().Dy())/2))
		x += img.Bounds().Dx()
	}
	return canvas, nil
}

func loadPageImage(p document.Page) (image.Image, error) {
	rc, err := p.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open page %d: %w", p.Number, err)
	}
	defer rc.Close()

	img, err := imaging.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode page %d: %w", p.Number, err)
	}
	return img, nil
}

// scalePage applies the zoom directive: a fixed factor for percent
// levels, viewport fitting otherwise.
func scalePage(img image.Image, opts SpreadOptions) image.Image {
	vw, vh := opts.Viewport.X, opts.Viewport.Y
	if vw <= 0 {
		vw = defaultViewportWidth
	}
	if vh <= 0 {
		vh = defaultViewportHeight
	}

	if scale, ok := opts.Zoom.Scale(); ok {
		w := int(float64(img.Bounds().Dx()) * scale)
		if w < 1 {
			w = 1
		}
		return imaging.Resize(img, w, 0, imaging.Lanczos)
	}

	switch opts.Zoom {
	case reader.FitWidth:
		return imaging.Resize(img, vw, 0, imaging.Lanczos)
	default: // FitPage
		return imaging.Fit(img, vw, vh, imaging.Lanczos)
	}
}

// ExportBookOrderPDF writes a copy of a PDF with its pages collected in
// simulated right-to-left book order, for surfaces that can only play a
// file front to back.
func ExportBookOrderPDF(doc *document.PDFDocument, outPath string) error {
	return doc.WriteReordered(outPath, reader.BookOrderNumbers(doc.PageCount()))
}
