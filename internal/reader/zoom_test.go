package reader

import "testing"

func TestZoom_Scale(t *testing.T) {
	tests := []struct {
		zoom  Zoom
		want  float64
		fixed bool
	}{
		{FitPage, 0, false},
		{FitWidth, 0, false},
		{Zoom50, 0.50, true},
		{Zoom75, 0.75, true},
		{Zoom100, 1.00, true},
		{Zoom125, 1.25, true},
		{Zoom150, 1.50, true},
		{Zoom200, 2.00, true},
	}
	for _, tt := range tests {
		got, ok := tt.zoom.Scale()
		if ok != tt.fixed {
			t.Errorf("%v.Scale() fixed = %v, want %v", tt.zoom, ok, tt.fixed)
			continue
		}
		if tt.fixed && got != tt.want {
			t.Errorf("%v.Scale() = %v, want %v", tt.zoom, got, tt.want)
		}
	}
}

func TestZoom_SteppingIsStrictlyIncreasing(t *testing.T) {
	prev := -1.0
	for _, z := range zoomSteps {
		s, ok := z.Scale()
		if !ok {
			t.Fatalf("step %v has no fixed scale", z)
		}
		if s <= prev {
			t.Fatalf("zoom ladder not strictly increasing at %v", z)
		}
		prev = s
	}
}

func TestZoom_StepBounds(t *testing.T) {
	if got := Zoom200.stepIn(); got != Zoom200 {
		t.Errorf("Zoom200.stepIn() = %v, want Zoom200", got)
	}
	if got := Zoom50.stepOut(); got != Zoom50 {
		t.Errorf("Zoom50.stepOut() = %v, want Zoom50", got)
	}
	if got := FitPage.stepIn(); got != FitPage {
		t.Errorf("FitPage.stepIn() = %v, want FitPage", got)
	}
	if got := FitWidth.stepOut(); got != FitWidth {
		t.Errorf("FitWidth.stepOut() = %v, want FitWidth", got)
	}
	if got := Zoom100.stepIn(); got != Zoom125 {
		t.Errorf("Zoom100.stepIn() = %v, want Zoom125", got)
	}
	if got := Zoom100.stepOut(); got != Zoom75 {
		t.Errorf("Zoom100.stepOut() = %v, want Zoom75", got)
	}
}

func TestParseZoom(t *testing.T) {
	tests := []struct {
		in      string
		want    Zoom
		wantErr bool
	}{
		{"fit-page", FitPage, false},
		{"", FitPage, false},
		{"fit-width", FitWidth, false},
		{"50%", Zoom50, false},
		{"150", Zoom150, false},
		{"200%", Zoom200, false},
		{"33%", FitPage, true},
		{"huge", FitPage, true},
	}
	for _, tt := range tests {
		got, err := ParseZoom(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseZoom(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseZoom(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
