// Package detector turns raw object-detection model output into labelled
// results for one image at a time.
package detector

import "image"

// Box is a single raw detection as produced by a Model.
type Box struct {
	Class      int
	Confidence float64
	Rect       image.Rectangle
}

// Model is an object-detection network. Infer runs one forward pass over an
// encoded image and returns boxes ordered by descending confidence.
type Model interface {
	Infer(img []byte) ([]Box, error)
	// Labels is the static class-index to name table.
	Labels() []string
	Close() error
}

// Result is one labelled detection. Geometry is intentionally not carried.
type Result struct {
	Class      string
	Confidence float64
}
