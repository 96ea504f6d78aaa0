package geometry

import (
	"math"
	"testing"

	"github.com/visageio/go-facewire/pkg/landmark"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestMapToDisplay_CoverTransform(t *testing.T) {
	tests := []struct {
		name           string
		cw, ch, vw, vh float64
		in             landmark.Point
		want           landmark.Point
	}{
		{
			name: "same aspect, same size",
			cw:   640, ch: 480, vw: 640, vh: 480,
			in:   landmark.Point{X: 100, Y: 50, Z: 3},
			want: landmark.Point{X: 100, Y: 50, Z: 3},
		},
		{
			name: "display twice the source",
			cw:   1280, ch: 960, vw: 640, vh: 480,
			in:   landmark.Point{X: 100, Y: 50, Z: 3},
			want: landmark.Point{X: 200, Y: 100, Z: 3},
		},
		{
			name: "wider display crops vertically",
			// scale = max(1280/640, 480/480) = 2, offsetY = (480-960)/2 = -240
			cw: 1280, ch: 480, vw: 640, vh: 480,
			in:   landmark.Point{X: 320, Y: 240, Z: 0},
			want: landmark.Point{X: 640, Y: 240, Z: 0},
		},
		{
			name: "taller display crops horizontally",
			// scale = max(640/640, 960/480) = 2, offsetX = (640-1280)/2 = -320
			cw: 640, ch: 960, vw: 640, vh: 480,
			in:   landmark.Point{X: 320, Y: 240, Z: 0},
			want: landmark.Point{X: 320, Y: 480, Z: 0},
		},
		{
			name: "unknown source dims fall back to scale 1",
			cw:   800, ch: 600, vw: 0, vh: 0,
			in:   landmark.Point{X: 13, Y: 37, Z: -2},
			want: landmark.Point{X: 13, Y: 37, Z: -2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := MapToDisplay([]landmark.Point{tt.in}, tt.cw, tt.ch, tt.vw, tt.vh)
			if len(out) != 1 {
				t.Fatalf("got %d points, want 1", len(out))
			}
			got := out[0]
			if !floatEquals(got.X, tt.want.X) || !floatEquals(got.Y, tt.want.Y) || !floatEquals(got.Z, tt.want.Z) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMapToDisplay_EmptyAndNil(t *testing.T) {
	if out := MapToDisplay(nil, 640, 480, 640, 480); out != nil {
		t.Errorf("nil input: got %v, want nil", out)
	}

	empty := []landmark.Point{}
	if out := MapToDisplay(empty, 640, 480, 640, 480); len(out) != 0 {
		t.Errorf("empty input: got %d points, want 0", len(out))
	}
}

func TestMapToDisplay_CopySemantics(t *testing.T) {
	in := []landmark.Point{{X: 10, Y: 20, Z: 30}}
	out := MapToDisplay(in, 1280, 960, 640, 480)

	if !floatEquals(in[0].X, 10) || !floatEquals(in[0].Y, 20) {
		t.Errorf("input mutated: %+v", in[0])
	}
	if floatEquals(out[0].X, in[0].X) {
		t.Errorf("output not transformed: %+v", out[0])
	}
}

func TestMapToDisplay_CornersStayConsistent(t *testing.T) {
	// The four source-frame corners must map to the cover-scaled,
	// centered rectangle: symmetric overflow on the cropped axis.
	cw, ch, vw, vh := 1280.0, 480.0, 640.0, 480.0 // scale 2, offsetY -240
	corners := []landmark.Point{
		{X: 0, Y: 0}, {X: vw, Y: 0}, {X: 0, Y: vh}, {X: vw, Y: vh},
	}
	out := MapToDisplay(corners, cw, ch, vw, vh)

	if !floatEquals(out[0].X, 0) || !floatEquals(out[0].Y, -240) {
		t.Errorf("top-left: got %+v", out[0])
	}
	if !floatEquals(out[3].X, 1280) || !floatEquals(out[3].Y, 720) {
		t.Errorf("bottom-right: got %+v", out[3])
	}

	// Overflow is symmetric around the display rect
	if !floatEquals(-out[0].Y, out[3].Y-ch) {
		t.Errorf("asymmetric crop: top %v, bottom %v", out[0].Y, out[3].Y-ch)
	}
}

func TestMapToDisplay_Invertible(t *testing.T) {
	// The transform is affine per point: applying the known inverse
	// recovers the input.
	cw, ch, vw, vh := 1920.0, 1080.0, 640.0, 480.0
	scale := math.Max(cw/vw, ch/vh)
	offsetX := (cw - vw*scale) / 2
	offsetY := (ch - vh*scale) / 2

	in := []landmark.Point{{X: 123.5, Y: 456.25, Z: 7}}
	out := MapToDisplay(in, cw, ch, vw, vh)

	backX := (out[0].X - offsetX) / scale
	backY := (out[0].Y - offsetY) / scale
	if !floatEquals(backX, in[0].X) || !floatEquals(backY, in[0].Y) {
		t.Errorf("inverse: got (%v, %v), want (%v, %v)", backX, backY, in[0].X, in[0].Y)
	}
}
