// Package reader holds the reading core: the book-order page transform
// and the session state machine that keeps the logical reading position
// in sync with a rendering surface.
package reader

import "github.com/yuanying/yomu/internal/document"

// bookOrderIndices returns the permutation of [0,n) that simulates
// right-to-left book reading on a left-to-right dual-page surface:
// the cover stays first and alone, every following pair is swapped so
// the right-hand member of each spread comes first, and an odd trailing
// page stays in place.
//
// The permutation is not self-inverse beyond n = 2; applying it twice
// does not restore the original order.
func bookOrderIndices(n int) []int {
	out := make([]int, 0, n)
	if n == 0 {
		return out
	}
	out = append(out, 0)
	for i := 1; i < n; i += 2 {
		if i+1 < n {
			out = append(out, i+1, i)
		} else {
			out = append(out, i)
		}
	}
	return out
}

// BookOrder returns a new display sequence with pages arranged for
// simulated right-to-left book reading. The input is not modified; the
// result is an independent slice safe to hand to a surface that takes
// ownership of its pages.
func BookOrder(pages []document.Page) []document.Page {
	idx := bookOrderIndices(len(pages))
	out := make([]document.Page, len(pages))
	for i, src := range idx {
		out[i] = pages[src]
	}
	return out
}

// DisplaySequence derives the page sequence handed to a rendering
// surface for the given mode: the source order, or the simulated book
// order when the mode calls for right-to-left spreads and the surface
// cannot lay them out natively. The result is always a fresh slice.
func DisplaySequence(pages []document.Page, m Mode, nativeRTL bool) []document.Page {
	if m.reordersPages(nativeRTL) {
		return BookOrder(pages)
	}
	return append([]document.Page(nil), pages...)
}

// BookOrderNumbers returns the simulated book order as 1-based page
// numbers, the form page-selection tools consume.
func BookOrderNumbers(n int) []int {
	idx := bookOrderIndices(n)
	for i := range idx {
		idx[i]++
	}
	return idx
}
