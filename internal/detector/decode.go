package detector

import (
	"cmp"
	"fmt"
	"image"
	"math"
	"slices"
)

// ClassOffset shifts each class into its own coordinate region so a
// class-agnostic suppression pass only compares boxes of the same class.
const ClassOffset = 7680

// Letterbox describes a source image resized with its aspect ratio kept and
// padded to a square network input.
type Letterbox struct {
	Size   int
	Width  int
	Height int
	Left   int
	Top    int
	Scale  float32
}

// NewLetterbox fits a srcW x srcH image into a size x size input, centering
// the resized content.
func NewLetterbox(srcW, srcH, size int) Letterbox {
	r := min(float64(size)/float64(srcW), float64(size)/float64(srcH))
	w := int(math.Round(float64(srcW) * r))
	h := int(math.Round(float64(srcH) * r))
	return Letterbox{
		Size:   size,
		Width:  w,
		Height: h,
		Left:   int(math.Round(float64(size-w)/2 - 0.1)),
		Top:    int(math.Round(float64(size-h)/2 - 0.1)),
		Scale:  float32(r),
	}
}

// Right is the padding to the right of the content.
func (l Letterbox) Right() int {
	return l.Size - l.Width - l.Left
}

// Bottom is the padding below the content.
func (l Letterbox) Bottom() int {
	return l.Size - l.Height - l.Top
}

// Source maps a rectangle in input coordinates back onto the source image.
func (l Letterbox) Source(r image.Rectangle) image.Rectangle {
	x := func(v int) int { return int(float32(v-l.Left) / l.Scale) }
	y := func(v int) int { return int(float32(v-l.Top) / l.Scale) }
	return image.Rect(x(r.Min.X), y(r.Min.Y), x(r.Max.X), y(r.Max.Y))
}

// Candidate is a detection before suppression. Input is in network input
// coordinates.
type Candidate struct {
	Class int
	Score float32
	Input image.Rectangle
}

// DecodeYOLOv8 reads a YOLOv8 output laid out as rows of length n: four rows
// of cx, cy, w, h followed by one score row per class. Each column is one
// candidate, kept when its best class score reaches conf.
func DecodeYOLOv8(data []float32, rows, n int, conf float32) ([]Candidate, error) {
	if rows <= 4 || n < 0 {
		return nil, fmt.Errorf("unexpected output shape [%d, %d]", rows, n)
	}
	if len(data) < rows*n {
		return nil, fmt.Errorf("output has %d values, want %d", len(data), rows*n)
	}

	var out []Candidate
	for i := range n {
		class, score := -1, float32(0)
		for c := 4; c < rows; c++ {
			if s := data[c*n+i]; s > score {
				class, score = c-4, s
			}
		}
		if class < 0 || score < conf {
			continue
		}

		cx, cy := data[i], data[n+i]
		w, h := data[2*n+i], data[3*n+i]
		out = append(out, Candidate{
			Class: class,
			Score: score,
			Input: image.Rect(
				int(cx-w/2), int(cy-h/2),
				int(cx+w/2), int(cy+h/2),
			),
		})
	}
	return out, nil
}

// SuppressionInput returns the rectangles and scores to pass to a
// class-agnostic NMS so that it behaves per class.
func SuppressionInput(cands []Candidate) ([]image.Rectangle, []float32) {
	rects := make([]image.Rectangle, len(cands))
	scores := make([]float32, len(cands))
	for i, c := range cands {
		off := c.Class * ClassOffset
		rects[i] = c.Input.Add(image.Pt(off, off))
		scores[i] = c.Score
	}
	return rects, scores
}

// Keep builds the boxes at the kept indexes in source coordinates, ordered by
// descending confidence.
func Keep(cands []Candidate, keep []int, lb Letterbox) []Box {
	boxes := make([]Box, 0, len(keep))
	for _, idx := range keep {
		c := cands[idx]
		boxes = append(boxes, Box{
			Class:      c.Class,
			Confidence: float64(c.Score),
			Rect:       lb.Source(c.Input),
		})
	}

	slices.SortStableFunc(boxes, func(a, b Box) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})
	return boxes
}
