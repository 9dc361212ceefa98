package detection

import (
	"fmt"
	"image"
	"sync"

	"github.com/teslashibe/go-hsvtune/pkg/hsv"
	"github.com/teslashibe/go-hsvtune/pkg/tracking"
	"gocv.io/x/gocv"
)

var _ Detector = (*HSVDetector)(nil)

// HSVDetector converts frames to HSV, optionally median-blurs them and
// thresholds them with inRange
type HSVDetector struct {
	config  Config
	working gocv.Mat   // HSV buffer reused across frames
	mu      sync.Mutex // Protects working
}

// NewHSV creates a detector. Close it to free the working buffer.
func NewHSV(cfg Config) *HSVDetector {
	return &HSVDetector{
		config:  cfg,
		working: gocv.NewMat(),
	}
}

// Threshold writes the binary mask of frame against params into mask.
func (d *HSVDetector) Threshold(frame gocv.Mat, params tracking.Params, mask *gocv.Mat) error {
	if err := checkFrame(frame); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := gocv.CvtColor(frame, &d.working, d.config.Conversion); err != nil {
		return fmt.Errorf("convert to hsv: %w", err)
	}

	if radius := params.BlurRadius(); radius > 1 {
		if err := gocv.MedianBlur(d.working, &d.working, radius); err != nil {
			return fmt.Errorf("median blur %d: %w", radius, err)
		}
	}

	lower, upper := Scalars(params.Range)
	if err := gocv.InRangeWithScalar(d.working, lower, upper, mask); err != nil {
		return fmt.Errorf("in range: %w", err)
	}
	return nil
}

// checkFrame rejects frames the BGR conversions can't take. Without it a
// failed conversion would leave the previous frame in the working buffer.
func checkFrame(frame gocv.Mat) error {
	if frame.Empty() {
		return ErrEmptyFrame
	}
	if ch := frame.Channels(); ch != 3 || frame.Type() != gocv.MatTypeCV8UC3 {
		return fmt.Errorf("%w: %d channels, type %v", ErrFrameFormat, ch, frame.Type())
	}
	return nil
}

// Detect thresholds frame and locates the centroid of the mask
func (d *HSVDetector) Detect(frame gocv.Mat, params tracking.Params, mask *gocv.Mat) (tracking.Position, error) {
	if err := d.Threshold(frame, params, mask); err != nil {
		return tracking.None(), err
	}
	return Locate(mask), nil
}

// Close releases the working buffer
func (d *HSVDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.working.Close()
}

// Locate returns the centroid of a single-channel mask. Continuous masks are
// scanned straight from their data buffer; anything else goes pixel by pixel.
func Locate(mask *gocv.Mat) tracking.Position {
	if mask.Empty() {
		return tracking.None()
	}

	if mask.IsContinuous() {
		if data, err := mask.DataPtrUint8(); err == nil {
			if pos, err := tracking.FindCentroidBytes(data, mask.Cols(), mask.Rows()); err == nil {
				return pos
			}
		}
	}
	return tracking.FindCentroid(mask)
}

// Scalars converts a range into inRange bounds
func Scalars(r hsv.Range) (lower, upper gocv.Scalar) {
	lower = gocv.NewScalar(float64(r.Min.H), float64(r.Min.S), float64(r.Min.V), 0)
	upper = gocv.NewScalar(float64(r.Max.H), float64(r.Max.S), float64(r.Max.V), 0)
	return lower, upper
}

// SampleHSV converts the single BGR pixel at (x, y) of frame to HSV.
func (d *HSVDetector) SampleHSV(frame gocv.Mat, x, y int) (hsv.Color, error) {
	return SampleHSV(frame, x, y, d.config.Conversion)
}

// SampleHSV converts the single BGR pixel at (x, y) of frame to HSV with
// the given conversion code.
func SampleHSV(frame gocv.Mat, x, y int, code gocv.ColorConversionCode) (hsv.Color, error) {
	if err := checkFrame(frame); err != nil {
		return hsv.Color{}, err
	}
	if !image.Pt(x, y).In(image.Rect(0, 0, frame.Cols(), frame.Rows())) {
		return hsv.Color{}, ErrOutOfFrame
	}

	pixel := frame.Region(image.Rect(x, y, x+1, y+1))
	defer pixel.Close()

	converted := gocv.NewMat()
	defer converted.Close()
	if err := gocv.CvtColor(pixel, &converted, code); err != nil {
		return hsv.Color{}, fmt.Errorf("convert pixel: %w", err)
	}

	v := converted.GetVecbAt(0, 0)
	return hsv.Color{H: int(v[0]), S: int(v[1]), V: int(v[2])}, nil
}
