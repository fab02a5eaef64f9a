package reader

import "fmt"

// Mode selects how pages are laid out for reading.
type Mode int

const (
	// SinglePage shows one page at a time.
	SinglePage Mode = iota
	// TwoPageLTR shows facing pages bound left to right.
	TwoPageLTR
	// TwoPageRTL shows facing pages bound right to left (book mode for
	// manga and other right-to-left publications).
	TwoPageRTL
)

func (m Mode) String() string {
	switch m {
	case SinglePage:
		return "single"
	case TwoPageLTR:
		return "ltr"
	case TwoPageRTL:
		return "rtl"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses a mode name as used on the command line and in
// persisted progress records.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "single", "":
		return SinglePage, nil
	case "ltr":
		return TwoPageLTR, nil
	case "rtl":
		return TwoPageRTL, nil
	}
	return SinglePage, fmt.Errorf("unknown reading mode %q (want single, ltr or rtl)", s)
}

// Layout is the flag set handed to a rendering surface alongside a
// display sequence.
type Layout struct {
	// Dual is true for two-page spreads.
	Dual bool
	// Book is true when spreads are bound like a physical book.
	Book bool
	// NativeRTL asks the surface to lay spreads out right to left
	// itself. Only set when the surface declared that capability.
	NativeRTL bool
}

// layout derives the surface flags for a mode given the surface's
// native right-to-left capability.
func (m Mode) layout(nativeRTL bool) Layout {
	switch m {
	case TwoPageLTR:
		return Layout{Dual: true, Book: true}
	case TwoPageRTL:
		return Layout{Dual: true, Book: true, NativeRTL: nativeRTL}
	}
	return Layout{}
}

// reordersPages reports whether this mode requires the simulated
// book-order transform. A surface with native right-to-left layout
// renders the original sequence and flips it itself.
func (m Mode) reordersPages(nativeRTL bool) bool {
	return m == TwoPageRTL && !nativeRTL
}
