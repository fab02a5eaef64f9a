// Package render provides two rendering surfaces for the reading core:
// a textual console surface driving the interactive session, and a
// spread compositor producing image files of facing pages.
package render

import (
	"fmt"
	"io"

	"github.com/yuanying/yomu/internal/document"
	"github.com/yuanying/yomu/internal/reader"
)

// ConsoleSurface renders the reading position textually. It implements
// reader.Surface and additionally simulates surface-originated
// navigation (Swipe), reporting it through OnPageChanged the way a
// gesture-driven view notifies its controller.
type ConsoleSurface struct {
	w      io.Writer
	pages  []document.Page
	layout reader.Layout
	zoom   reader.Zoom

	// position is the index into pages of the first page of the
	// visible unit (a single page or a spread).
	position int

	// OnPageChanged receives the 1-based logical page number after a
	// Swipe. Never called for ShowPage directives.
	OnPageChanged func(n int)
}

// NewConsoleSurface creates a console surface writing to w.
func NewConsoleSurface(w io.Writer) *ConsoleSurface {
	return &ConsoleSurface{w: w, zoom: reader.FitPage}
}

// SetPages implements reader.Surface.
func (c *ConsoleSurface) SetPages(pages []document.Page, layout reader.Layout) {
	c.pages = pages
	c.layout = layout
	if c.position >= len(pages) {
		c.position = 0
	}
}

// ShowPage implements reader.Surface: it moves the view to the unit
// containing the logical page n and repaints.
func (c *ConsoleSurface) ShowPage(n int) {
	for i, p := range c.pages {
		if p.Number == n {
			c.position = c.unitStart(i)
			c.paint()
			return
		}
	}
}

// SetZoom implements reader.Surface.
func (c *ConsoleSurface) SetZoom(z reader.Zoom) {
	c.zoom = z
	fmt.Fprintf(c.w, "zoom: %s\n", z)
}

// Swipe moves one unit forward or backward, as the surface's own
// gesture handling would, and reports the newly visible page. It never
// goes through the session; the session learns of the change only via
// OnPageChanged.
func (c *ConsoleSurface) Swipe(forward bool) {
	next := c.position
	if forward {
		next = c.position + c.unitSize(c.position)
	} else if c.position > 0 {
		next = c.unitStart(c.position - 1)
	}
	if next < 0 || next >= len(c.pages) || next == c.position {
		return
	}
	c.position = next
	c.paint()
	if c.OnPageChanged != nil {
		c.OnPageChanged(c.pages[c.position].Number)
	}
}

// unitStart returns the index of the first page of the unit containing
// index i. In dual book layout the cover stands alone and spreads pair
// off from index 1.
func (c *ConsoleSurface) unitStart(i int) int {
	if !c.layout.Dual || i == 0 {
		return i
	}
	if (i-1)%2 == 0 {
		return i
	}
	return i - 1
}

// unitSize returns the number of pages in the unit starting at index i.
func (c *ConsoleSurface) unitSize(i int) int {
	if !c.layout.Dual || i == 0 {
		return 1
	}
	if i+1 < len(c.pages) {
		return 2
	}
	return 1
}

// paint writes the visible unit. Right-to-left native layout flips the
// printed order of a spread.
func (c *ConsoleSurface) paint() {
	if len(c.pages) == 0 {
		fmt.Fprintln(c.w, "(no document)")
		return
	}
	size := c.unitSize(c.position)
	if size == 1 {
		p := c.pages[c.position]
		fmt.Fprintf(c.w, "[p.%d %s]\n", p.Number, p.Label)
		return
	}

	left, right := c.pages[c.position], c.pages[c.position+1]
	if c.layout.NativeRTL {
		left, right = right, left
	}
	fmt.Fprintf(c.w, "[p.%d %s | p.%d %s]\n", left.Number, left.Label, right.Number, right.Label)
}
