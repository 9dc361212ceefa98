package tracking

import (
	"fmt"
	"image"
)

// maskOn is the value inRange writes for matching pixels.
const maskOn = 255

// Position is an optional centroid: Found is false when the mask was empty.
type Position struct {
	Point image.Point `json:"point"`
	Found bool        `json:"found"`
}

// None returns the absent position.
func None() Position {
	return Position{}
}

// Some returns a found position at (x, y).
func Some(x, y int) Position {
	return Position{Point: image.Pt(x, y), Found: true}
}

// String formats the position the way it is printed on stdout.
func (p Position) String() string {
	if !p.Found {
		return "none"
	}
	return fmt.Sprintf("x: %d, y: %d", p.Point.X, p.Point.Y)
}

// Mask is a single-channel 8-bit image. *gocv.Mat satisfies it.
type Mask interface {
	Rows() int
	Cols() int
	GetUCharAt(row, col int) uint8
}

// FindCentroid scans every pixel of m and returns the mean position of the
// pixels equal to 255. The mean uses integer division, so it truncates.
func FindCentroid(m Mask) Position {
	var sumX, sumY, count int

	rows, cols := m.Rows(), m.Cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if m.GetUCharAt(y, x) == maskOn {
				sumX += x
				sumY += y
				count++
			}
		}
	}

	return centroid(sumX, sumY, count)
}

// FindCentroidBytes is FindCentroid over a row-major buffer of cols×rows
// bytes, as returned by a continuous Mat's data pointer.
func FindCentroidBytes(data []byte, cols, rows int) (Position, error) {
	if cols < 0 || rows < 0 || len(data) < cols*rows {
		return None(), fmt.Errorf("mask buffer too small: %d bytes for %dx%d", len(data), cols, rows)
	}

	var sumX, sumY, count int
	for y := 0; y < rows; y++ {
		row := data[y*cols : (y+1)*cols]
		for x, v := range row {
			if v == maskOn {
				sumX += x
				sumY += y
				count++
			}
		}
	}

	return centroid(sumX, sumY, count), nil
}

func centroid(sumX, sumY, count int) Position {
	if count == 0 {
		return None()
	}
	return Some(sumX/count, sumY/count)
}
