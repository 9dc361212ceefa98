package detection

import (
	"errors"
	"image"
	"testing"

	"github.com/teslashibe/go-hsvtune/pkg/hsv"
	"github.com/teslashibe/go-hsvtune/pkg/tracking"
	"gocv.io/x/gocv"
)

var blueRange = hsv.Range{
	Min: hsv.Color{H: 110, S: 200, V: 200},
	Max: hsv.Color{H: 130, S: 255, V: 255},
}

// newFrame returns a black BGR frame with a pure blue patch over rect.
func newFrame(t *testing.T, cols, rows int, patch image.Rectangle) gocv.Mat {
	t.Helper()

	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, gocv.MatTypeCV8UC3)
	if !patch.Empty() {
		region := frame.Region(patch)
		region.SetTo(gocv.NewScalar(255, 0, 0, 0))
		region.Close()
	}
	return frame
}

func TestHSVDetector_Detect(t *testing.T) {
	tests := []struct {
		name   string
		patch  image.Rectangle
		params tracking.Params
		want   tracking.Position
	}{
		{
			name:   "blue patch centroid truncates",
			patch:  image.Rect(10, 20, 20, 30),
			params: tracking.Params{Range: blueRange, Blur: 1},
			want:   tracking.Some(14, 24),
		},
		{
			name:   "no matching pixels",
			patch:  image.Rectangle{},
			params: tracking.Params{Range: blueRange, Blur: 1},
			want:   tracking.None(),
		},
		{
			name:   "full range matches every pixel",
			patch:  image.Rectangle{},
			params: tracking.DefaultParams(),
			want:   tracking.Some(49, 39),
		},
		{
			name:  "inverted range yields empty mask",
			patch: image.Rect(10, 20, 20, 30),
			params: tracking.Params{
				Range: hsv.Range{Min: hsv.Color{H: 130, S: 200, V: 200}, Max: hsv.Color{H: 110, S: 255, V: 255}},
			},
			want: tracking.None(),
		},
		{
			name:   "blur keeps a large patch",
			patch:  image.Rect(40, 30, 60, 50),
			params: tracking.Params{Range: blueRange, Blur: 4},
			want:   tracking.Some(49, 39),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			frame := newFrame(t, 100, 80, tc.patch)
			defer frame.Close()

			d := NewHSV(DefaultConfig())
			defer d.Close()

			mask := gocv.NewMat()
			defer mask.Close()

			got, err := d.Detect(frame, tc.params, &mask)
			if err != nil {
				t.Fatalf("Detect: %v", err)
			}
			if got != tc.want {
				t.Errorf("Detect = %+v, want %+v", got, tc.want)
			}
			if mask.Channels() != 1 || mask.Rows() != 80 || mask.Cols() != 100 {
				t.Errorf("mask shape = %dx%dx%d, want 100x80x1", mask.Cols(), mask.Rows(), mask.Channels())
			}
		})
	}
}

func TestHSVDetector_EmptyFrame(t *testing.T) {
	d := NewHSV(DefaultConfig())
	defer d.Close()

	frame := gocv.NewMat()
	defer frame.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	_, err := d.Detect(frame, tracking.DefaultParams(), &mask)
	if !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("Detect on empty frame: err = %v, want ErrEmptyFrame", err)
	}
}

func TestHSVDetector_RejectsNonBGRFrames(t *testing.T) {
	tests := []struct {
		name    string
		matType gocv.MatType
	}{
		{name: "gray", matType: gocv.MatTypeCV8UC1},
		{name: "bgra", matType: gocv.MatTypeCV8UC4},
		{name: "float bgr", matType: gocv.MatTypeCV32FC3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := NewHSV(DefaultConfig())
			defer d.Close()
			mask := gocv.NewMat()
			defer mask.Close()

			// Fill the working buffer with a frame that has a match
			good := newFrame(t, 100, 80, image.Rect(10, 20, 20, 30))
			defer good.Close()
			if _, err := d.Detect(good, tracking.Params{Range: blueRange}, &mask); err != nil {
				t.Fatalf("Detect good frame: %v", err)
			}

			bad := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 80, 100, tc.matType)
			defer bad.Close()

			got, err := d.Detect(bad, tracking.Params{Range: blueRange}, &mask)
			if !errors.Is(err, ErrFrameFormat) {
				t.Errorf("Detect: err = %v, want ErrFrameFormat", err)
			}
			if got.Found {
				t.Errorf("Detect = %v, want no position for a rejected frame", got)
			}

			if _, err := SampleHSV(bad, 1, 1, gocv.ColorBGRToHSV); !errors.Is(err, ErrFrameFormat) {
				t.Errorf("SampleHSV: err = %v, want ErrFrameFormat", err)
			}
		})
	}
}

func TestLocate_MatchesPixelScan(t *testing.T) {
	frame := newFrame(t, 64, 48, image.Rect(3, 5, 9, 17))
	defer frame.Close()

	d := NewHSV(DefaultConfig())
	defer d.Close()

	mask := gocv.NewMat()
	defer mask.Close()
	if err := d.Threshold(frame, tracking.Params{Range: blueRange}, &mask); err != nil {
		t.Fatal(err)
	}

	if fast, slow := Locate(&mask), tracking.FindCentroid(&mask); fast != slow {
		t.Errorf("Locate = %+v, FindCentroid = %+v", fast, slow)
	}
}

func TestSampleHSV(t *testing.T) {
	frame := newFrame(t, 100, 80, image.Rect(10, 20, 20, 30))
	defer frame.Close()

	tests := []struct {
		name    string
		x, y    int
		want    hsv.Color
		wantErr error
	}{
		{name: "blue pixel", x: 12, y: 22, want: hsv.Color{H: 120, S: 255, V: 255}},
		{name: "black pixel", x: 0, y: 0, want: hsv.Color{}},
		{name: "right edge outside", x: 100, y: 0, wantErr: ErrOutOfFrame},
		{name: "negative", x: -1, y: 5, wantErr: ErrOutOfFrame},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SampleHSV(frame, tc.x, tc.y, gocv.ColorBGRToHSV)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SampleHSV: %v", err)
			}
			if got != tc.want {
				t.Errorf("SampleHSV = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSampleHSV_EmptyFrame(t *testing.T) {
	frame := gocv.NewMat()
	defer frame.Close()

	if _, err := SampleHSV(frame, 0, 0, gocv.ColorBGRToHSV); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("err = %v, want ErrEmptyFrame", err)
	}
}

func TestScalars(t *testing.T) {
	lower, upper := Scalars(blueRange)
	if lower.Val1 != 110 || lower.Val2 != 200 || lower.Val3 != 200 {
		t.Errorf("lower = %+v", lower)
	}
	if upper.Val1 != 130 || upper.Val2 != 255 || upper.Val3 != 255 {
		t.Errorf("upper = %+v", upper)
	}
}
