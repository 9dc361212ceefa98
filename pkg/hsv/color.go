// Package hsv holds the HSV color values the calibration tool thresholds against.
//
// Channels follow the 8-bit OpenCV convention used by the sliders: each one
// is expected in [0,255], but nothing here enforces it. A range whose Min
// exceeds its Max is legal and simply matches nothing.
package hsv

import "fmt"

// ChannelMax is the largest value a slider can hold for H, S or V.
const ChannelMax = 255

// Color is a single HSV triple.
type Color struct {
	H int `json:"h" yaml:"h"`
	S int `json:"s" yaml:"s"`
	V int `json:"v" yaml:"v"`
}

// String formats the color as "(h, s, v)".
func (c Color) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.H, c.S, c.V)
}

// Range is an inclusive lower/upper HSV threshold pair.
type Range struct {
	Min Color `json:"min" yaml:"min"`
	Max Color `json:"max" yaml:"max"`
}

// DefaultRange returns the full range, which passes every pixel.
func DefaultRange() Range {
	return Range{
		Min: Color{0, 0, 0},
		Max: Color{ChannelMax, ChannelMax, ChannelMax},
	}
}

// Contains reports whether c lies inside r on all three channels.
// Bounds are inclusive, matching cv::inRange.
func (r Range) Contains(c Color) bool {
	return within(c.H, r.Min.H, r.Max.H) &&
		within(c.S, r.Min.S, r.Max.S) &&
		within(c.V, r.Min.V, r.Max.V)
}

// Empty reports whether some channel has Min > Max, in which case no pixel
// can match.
func (r Range) Empty() bool {
	return r.Min.H > r.Max.H || r.Min.S > r.Max.S || r.Min.V > r.Max.V
}

// String formats the range the way the original debug tools printed it.
func (r Range) String() string {
	return fmt.Sprintf("H(%d-%d) S(%d-%d) V(%d-%d)",
		r.Min.H, r.Max.H, r.Min.S, r.Max.S, r.Min.V, r.Max.V)
}

// Recenter returns a range of ±step around sample on every channel,
// clamped to [0, ChannelMax].
func Recenter(sample Color, step int) Range {
	return Range{
		Min: Color{
			H: Clamp(sample.H - step),
			S: Clamp(sample.S - step),
			V: Clamp(sample.V - step),
		},
		Max: Color{
			H: Clamp(sample.H + step),
			S: Clamp(sample.S + step),
			V: Clamp(sample.V + step),
		},
	}
}

// Clamp limits v to [0, ChannelMax].
func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > ChannelMax {
		return ChannelMax
	}
	return v
}

// ClampRange clamps every channel of r. Ordering between Min and Max is left
// alone.
func ClampRange(r Range) Range {
	return Range{
		Min: Color{Clamp(r.Min.H), Clamp(r.Min.S), Clamp(r.Min.V)},
		Max: Color{Clamp(r.Max.H), Clamp(r.Max.S), Clamp(r.Max.V)},
	}
}

func within(v, lo, hi int) bool {
	return v >= lo && v <= hi
}
