// Package ui owns the highgui windows and trackbars used for tuning.
// Every method must be called from the thread that created the Panel.
package ui

import (
	"fmt"

	"github.com/teslashibe/go-hsvtune/pkg/hsv"
	"github.com/teslashibe/go-hsvtune/pkg/tracking"
	"gocv.io/x/gocv"
)

// Window names
const (
	WindowMain     = "Main"
	WindowTrackbar = "Trackbar"
	WindowResult   = "Result"
)

// Slider names on the Trackbar window
const (
	SliderHMin = "H min:"
	SliderHMax = "H max:"
	SliderSMin = "S min:"
	SliderSMax = "S max:"
	SliderVMin = "V min:"
	SliderVMax = "V max:"
	SliderBlur = "Blur:"
)

// KeyEscape is the WaitKey code for the Escape key.
const KeyEscape = 27

// highgui EVENT_LBUTTONDOWN
const eventLeftButtonDown = 1

// ClickFunc receives primary-button presses on the main window.
type ClickFunc func(x, y int)

// Panel is the three-window tuning interface.
type Panel struct {
	main     *gocv.Window
	controls *gocv.Window
	result   *gocv.Window

	hMin, hMax *gocv.Trackbar
	sMin, sMax *gocv.Trackbar
	vMin, vMax *gocv.Trackbar
	blur       *gocv.Trackbar

	onClick ClickFunc
}

// NewPanel opens the windows and creates the seven sliders at their
// initial positions.
func NewPanel(initial tracking.Params) (*Panel, error) {
	p := &Panel{
		main:     gocv.NewWindow(WindowMain),
		controls: gocv.NewWindow(WindowTrackbar),
		result:   gocv.NewWindow(WindowResult),
	}

	for name, w := range p.videoWindows() {
		if err := w.SetWindowProperty(gocv.WindowPropertyAutosize, gocv.WindowAutosize); err != nil {
			p.Close()
			return nil, fmt.Errorf("autosize window %q: %w", name, err)
		}
	}

	p.hMin = p.controls.CreateTrackbar(SliderHMin, hsv.ChannelMax)
	p.hMax = p.controls.CreateTrackbar(SliderHMax, hsv.ChannelMax)
	p.sMin = p.controls.CreateTrackbar(SliderSMin, hsv.ChannelMax)
	p.sMax = p.controls.CreateTrackbar(SliderSMax, hsv.ChannelMax)
	p.vMin = p.controls.CreateTrackbar(SliderVMin, hsv.ChannelMax)
	p.vMax = p.controls.CreateTrackbar(SliderVMax, hsv.ChannelMax)
	p.blur = p.controls.CreateTrackbar(SliderBlur, tracking.MaxBlur)

	p.SetRange(initial.Range)
	p.SetBlur(initial.Blur)

	p.main.SetMouseHandler(p.handleMouse, nil)
	return p, nil
}

// videoWindows are the windows that follow the frame size.
func (p *Panel) videoWindows() map[string]*gocv.Window {
	return map[string]*gocv.Window{WindowMain: p.main, WindowResult: p.result}
}

func (p *Panel) handleMouse(event, x, y, flags int, userdata interface{}) {
	if event != eventLeftButtonDown || p.onClick == nil {
		return
	}
	p.onClick(x, y)
}

// OnClick registers fn for left-button presses on the main window.
// The callback runs inside WaitKey.
func (p *Panel) OnClick(fn ClickFunc) {
	p.onClick = fn
}

// Params polls every slider.
func (p *Panel) Params() tracking.Params {
	return tracking.Params{
		Range: hsv.Range{
			Min: hsv.Color{H: p.hMin.GetPos(), S: p.sMin.GetPos(), V: p.vMin.GetPos()},
			Max: hsv.Color{H: p.hMax.GetPos(), S: p.sMax.GetPos(), V: p.vMax.GetPos()},
		},
		Blur: p.blur.GetPos(),
	}
}

// SetRange moves the six range sliders.
func (p *Panel) SetRange(r hsv.Range) {
	p.hMin.SetPos(r.Min.H)
	p.hMax.SetPos(r.Max.H)
	p.sMin.SetPos(r.Min.S)
	p.sMax.SetPos(r.Max.S)
	p.vMin.SetPos(r.Min.V)
	p.vMax.SetPos(r.Max.V)
}

// SetBlur moves the blur slider.
func (p *Panel) SetBlur(pos int) {
	p.blur.SetPos(pos)
}

// Show displays the raw frame and its mask.
func (p *Panel) Show(raw, mask gocv.Mat) error {
	if !raw.Empty() {
		if err := p.main.IMShow(raw); err != nil {
			return fmt.Errorf("show %s: %w", WindowMain, err)
		}
	}
	if !mask.Empty() {
		if err := p.result.IMShow(mask); err != nil {
			return fmt.Errorf("show %s: %w", WindowResult, err)
		}
	}
	return nil
}

// WaitKey pumps GUI events for up to ms milliseconds and returns the
// pressed key, or -1.
func (p *Panel) WaitKey(ms int) int {
	return p.main.WaitKey(ms)
}

// Close destroys the windows.
func (p *Panel) Close() error {
	var firstErr error
	for _, w := range []*gocv.Window{p.result, p.controls, p.main} {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
