package reader

import (
	"fmt"

	"github.com/yuanying/yomu/internal/document"
)

// Surface is the rendering collaborator a Session drives. A surface
// receives display sequences, layout flags, zoom directives and
// show-page directives; it reports pages it navigated to on its own
// (gesture, scroll) back through Session.SurfaceReportedPage.
type Surface interface {
	// SetPages replaces the surface's page sequence. The surface takes
	// ownership of the slice.
	SetPages(pages []document.Page, layout Layout)
	// ShowPage navigates the surface to the 1-based logical page n.
	ShowPage(n int)
	// SetZoom applies a zoom directive.
	SetZoom(z Zoom)
}

// Progress is the restorable part of a reading position.
type Progress struct {
	Page int
	Mode Mode
}

// ProgressStore persists reading positions between sessions. Implemented
// by the recent-documents store; nil disables persistence.
type ProgressStore interface {
	// Lookup returns the saved progress for a document key.
	Lookup(key string) (Progress, bool)
	// Record saves the progress for a document key.
	Record(key, name string, p Progress, totalPages int)
}

// Options configures a Session for the surface it drives.
type Options struct {
	// NativeRTL declares that the surface lays right-to-left spreads
	// out itself, so TwoPageRTL needs no page reordering.
	NativeRTL bool
}

// Session owns the logical reading state: current page, total pages,
// reading mode and zoom. It reconciles mutations from user navigation,
// surface notifications, mode changes and restored progress, and emits
// a show-page directive to the surface whenever the current page
// changes for any reason other than the surface reporting it itself.
//
// All methods must be called from one goroutine; surfaces delivering
// notifications from another context must marshal them first.
type Session struct {
	surface   Surface
	store     ProgressStore
	nativeRTL bool

	doc     document.Document
	pages   []document.Page // source order
	current int             // 1-based; 1 when no document
	total   int
	mode    Mode
	zoom    Zoom
}

// NewSession creates a session in its initial state: page 1 of an empty
// document, single-page mode, fit-page zoom.
func NewSession(surface Surface, store ProgressStore, opts Options) *Session {
	return &Session{
		surface:   surface,
		store:     store,
		nativeRTL: opts.NativeRTL,
		current:   1,
		mode:      SinglePage,
		zoom:      FitPage,
	}
}

func (s *Session) CurrentPage() int            { return s.current }
func (s *Session) TotalPages() int             { return s.total }
func (s *Session) Mode() Mode                  { return s.mode }
func (s *Session) Zoom() Zoom                  { return s.zoom }
func (s *Session) Document() document.Document { return s.doc }

// Load replaces the current document, restores saved progress when the
// store has a usable record, hands the display sequence to the surface
// and emits exactly one show-page directive.
func (s *Session) Load(doc document.Document) error {
	total := doc.PageCount()
	pages := make([]document.Page, 0, total)
	for i := 0; i < total; i++ {
		p, err := doc.Page(i)
		if err != nil {
			return fmt.Errorf("failed to collect page %d: %w", i+1, err)
		}
		pages = append(pages, p)
	}

	s.doc = doc
	s.pages = pages
	s.total = total
	s.current = 1

	if s.store != nil {
		if saved, ok := s.store.Lookup(doc.Key()); ok {
			s.mode = saved.Mode
			if saved.Page >= 1 && saved.Page <= s.total {
				s.current = saved.Page
			}
		}
	}

	s.applySequence()
	s.surface.ShowPage(s.current)
	return nil
}

// Clear drops the current document and resets page and zoom to their
// initial values. The reading mode is a user preference and survives.
func (s *Session) Clear() {
	s.doc = nil
	s.pages = nil
	s.total = 0
	s.current = 1
	s.zoom = FitPage
}

// GoToPage is the single entry point for programmatic navigation.
// Out-of-range pages are ignored; navigating to the current page emits
// nothing.
func (s *Session) GoToPage(n int) {
	if n < 1 || n > s.total || n == s.current {
		return
	}
	s.current = n
	s.surface.ShowPage(n)
}

func (s *Session) Next()     { s.GoToPage(s.current + 1) }
func (s *Session) Previous() { s.GoToPage(s.current - 1) }
func (s *Session) First()    { s.GoToPage(1) }
func (s *Session) Last()     { s.GoToPage(s.total) }

// SurfaceReportedPage records a page change originating in the surface
// itself. No directive is echoed back: a surface-reported change that
// re-triggered a show-page directive would oscillate under rapid
// gesture input. Reports out of range (stale during a document swap)
// are ignored.
func (s *Session) SurfaceReportedPage(n int) {
	if n < 1 || n > s.total {
		return
	}
	s.current = n
}

// SetMode switches the reading mode, re-derives the display sequence
// and re-targets the surface at the current page. The logical page
// never changes across a mode switch, even though its position in the
// reordered sequence does.
func (s *Session) SetMode(m Mode) {
	if m == s.mode {
		return
	}
	s.mode = m
	if s.doc == nil {
		return
	}
	s.applySequence()
	s.surface.ShowPage(s.current)
}

// SetZoom replaces the zoom level and forwards it to the surface.
func (s *Session) SetZoom(z Zoom) {
	s.zoom = z
	s.surface.SetZoom(z)
}

// ZoomIn steps to the next larger percent level. No-op at 200% and
// from the fit levels, which sit outside the stepping ladder.
func (s *Session) ZoomIn() {
	if next := s.zoom.stepIn(); next != s.zoom {
		s.SetZoom(next)
	}
}

// ZoomOut steps to the next smaller percent level. No-op at 50% and
// from the fit levels.
func (s *Session) ZoomOut() {
	if next := s.zoom.stepOut(); next != s.zoom {
		s.SetZoom(next)
	}
}

// Save records the current reading position through the progress store.
func (s *Session) Save() {
	if s.store == nil || s.doc == nil {
		return
	}
	s.store.Record(s.doc.Key(), s.doc.Name(), Progress{Page: s.current, Mode: s.mode}, s.total)
}

// applySequence hands the surface the display sequence for the current
// mode: the source order, or the simulated book order when the mode
// requires it and the surface cannot flip spreads natively.
func (s *Session) applySequence() {
	seq := DisplaySequence(s.pages, s.mode, s.nativeRTL)
	s.surface.SetPages(seq, s.mode.layout(s.nativeRTL))
}
