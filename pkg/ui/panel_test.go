package ui

import (
	"image"
	"os"
	"runtime"
	"testing"

	"github.com/teslashibe/go-hsvtune/pkg/tracking"
	"gocv.io/x/gocv"
)

func TestPanel_VideoWindows(t *testing.T) {
	p := &Panel{main: &gocv.Window{}, controls: &gocv.Window{}, result: &gocv.Window{}}

	got := p.videoWindows()
	if len(got) != 2 {
		t.Fatalf("videoWindows() = %d windows, want 2", len(got))
	}
	if got[WindowMain] != p.main || got[WindowResult] != p.result {
		t.Errorf("videoWindows() = %v, want Main and Result", got)
	}
}

func TestNewPanel_AutosizesVideoWindows(t *testing.T) {
	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		t.Skip("no display")
	}

	p, err := NewPanel(tracking.DefaultParams())
	if err != nil {
		t.Fatalf("NewPanel: %v", err)
	}
	defer p.Close()

	for name, w := range p.videoWindows() {
		if got := w.GetWindowProperty(gocv.WindowPropertyAutosize); got != float64(gocv.WindowAutosize) {
			t.Errorf("%s autosize = %v, want %v", name, got, float64(gocv.WindowAutosize))
		}
	}
	if got := p.Params(); got != tracking.DefaultParams() {
		t.Errorf("Params() = %+v, want %+v", got, tracking.DefaultParams())
	}
}

// Window creation needs a display, so the event filter is covered separately.
func TestPanel_HandleMouse(t *testing.T) {
	tests := []struct {
		name  string
		event int
		want  []image.Point
	}{
		{"left button down", eventLeftButtonDown, []image.Point{{X: 7, Y: 9}}},
		{"mouse move", 0, nil},
		{"left button up", 4, nil},
		{"right button down", 2, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got []image.Point
			p := &Panel{}
			p.OnClick(func(x, y int) { got = append(got, image.Pt(x, y)) })

			p.handleMouse(tc.event, 7, 9, 0, nil)

			if len(got) != len(tc.want) {
				t.Fatalf("clicks = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("click[%d] = %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestPanel_HandleMouseWithoutCallback(t *testing.T) {
	p := &Panel{}
	p.handleMouse(eventLeftButtonDown, 1, 1, 0, nil)
}
