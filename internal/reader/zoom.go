package reader

import "fmt"

// Zoom is the display scale for pages.
type Zoom int

const (
	// FitPage scales each page to fit the viewport entirely.
	FitPage Zoom = iota
	// FitWidth scales each page to fill the viewport width.
	FitWidth
	Zoom50
	Zoom75
	Zoom100
	Zoom125
	Zoom150
	Zoom200
)

// zoomSteps is the strictly increasing ladder ZoomIn/ZoomOut walk.
// FitPage and FitWidth are intentionally absent: their scale is
// viewport-derived and they do not participate in stepping.
var zoomSteps = []Zoom{Zoom50, Zoom75, Zoom100, Zoom125, Zoom150, Zoom200}

var zoomScales = map[Zoom]float64{
	Zoom50:  0.50,
	Zoom75:  0.75,
	Zoom100: 1.00,
	Zoom125: 1.25,
	Zoom150: 1.50,
	Zoom200: 2.00,
}

// Scale returns the fixed scale factor for a percent zoom level. The
// second result is false for FitPage and FitWidth, whose scale is
// computed from the viewport at render time.
func (z Zoom) Scale() (float64, bool) {
	s, ok := zoomScales[z]
	return s, ok
}

func (z Zoom) String() string {
	switch z {
	case FitPage:
		return "fit-page"
	case FitWidth:
		return "fit-width"
	}
	if s, ok := zoomScales[z]; ok {
		return fmt.Sprintf("%d%%", int(s*100))
	}
	return fmt.Sprintf("Zoom(%d)", int(z))
}

// ParseZoom parses a zoom name as used on the command line.
func ParseZoom(s string) (Zoom, error) {
	switch s {
	case "fit-page", "":
		return FitPage, nil
	case "fit-width":
		return FitWidth, nil
	case "50%", "50":
		return Zoom50, nil
	case "75%", "75":
		return Zoom75, nil
	case "100%", "100":
		return Zoom100, nil
	case "125%", "125":
		return Zoom125, nil
	case "150%", "150":
		return Zoom150, nil
	case "200%", "200":
		return Zoom200, nil
	}
	return FitPage, fmt.Errorf("unknown zoom level %q", s)
}

// stepIn returns the next larger percent zoom, or z unchanged at the
// top of the ladder or from a fit level.
func (z Zoom) stepIn() Zoom {
	for i, step := range zoomSteps {
		if step == z && i+1 < len(zoomSteps) {
			return zoomSteps[i+1]
		}
	}
	return z
}

// stepOut returns the next smaller percent zoom, or z unchanged at the
// bottom of the ladder or from a fit level.
func (z Zoom) stepOut() Zoom {
	for i, step := range zoomSteps {
		if step == z && i > 0 {
			return zoomSteps[i-1]
		}
	}
	return z
}
