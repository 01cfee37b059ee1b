// Package yolo runs YOLOv8 ONNX exports through the OpenCV DNN module.
package yolo

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	"gocv.io/x/gocv"

	"github.com/JaimeStill/spotter/internal/detector"
)

var padColor = color.RGBA{R: 114, G: 114, B: 114}

// Config holds model parameters.
type Config struct {
	ModelPath  string
	LabelsPath string
	Confidence float32
	NMS        float32
	InputSize  int
}

// Model is a loaded YOLOv8 network. It is not safe for concurrent use.
type Model struct {
	net    gocv.Net
	labels []string
	size   int
	conf   float32
	nms    float32
}

// Load reads the network and class table. The caller must Close the model.
func Load(cfg Config) (*Model, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("model file not found: %s: %w", cfg.ModelPath, err)
	}

	labels, err := detector.LoadLabels(cfg.LabelsPath)
	if err != nil {
		return nil, err
	}

	net := gocv.ReadNet(cfg.ModelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("failed to load network %s", cfg.ModelPath)
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if err := errors.Join(errBackend, errTarget); err != nil {
		net.Close()
		return nil, fmt.Errorf("set preferable backend or target: %w", err)
	}

	return &Model{
		net:    net,
		labels: labels,
		size:   cfg.InputSize,
		conf:   cfg.Confidence,
		nms:    cfg.NMS,
	}, nil
}

// Labels returns the class-index to name table.
func (m *Model) Labels() []string {
	return m.labels
}

// Close releases the network.
func (m *Model) Close() error {
	return m.net.Close()
}

// Infer decodes img, letterboxes it to the input size, runs one forward pass,
// and returns the boxes that survive the confidence threshold and per-class
// non-maximum suppression, ordered by descending confidence.
func (m *Model) Infer(img []byte) ([]detector.Box, error) {
	mat, err := gocv.IMDecode(img, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("decoded image is empty")
	}

	lb := detector.NewLetterbox(mat.Cols(), mat.Rows(), m.size)

	resized := gocv.NewMat()
	defer resized.Close()
	if err := gocv.Resize(mat, &resized, image.Pt(lb.Width, lb.Height), 0, 0, gocv.InterpolationLinear); err != nil {
		return nil, fmt.Errorf("resize: %w", err)
	}

	padded := gocv.NewMat()
	defer padded.Close()
	if err := gocv.CopyMakeBorder(resized, &padded, lb.Top, lb.Bottom(), lb.Left, lb.Right(), gocv.BorderConstant, padColor); err != nil {
		return nil, fmt.Errorf("letterbox: %w", err)
	}

	blob := gocv.BlobFromImage(padded, 1.0/255.0, image.Pt(m.size, m.size), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	m.net.SetInput(blob, "")

	output := m.net.Forward("")
	defer output.Close()

	// [1, 4+classes, candidates]
	dims := output.Size()
	if len(dims) != 3 {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}

	cands, err := detector.DecodeYOLOv8(data, dims[1], dims[2], m.conf)
	if err != nil {
		return nil, err
	}
	if len(cands) == 0 {
		return nil, nil
	}

	rects, scores := detector.SuppressionInput(cands)
	keep := gocv.NMSBoxes(rects, scores, m.conf, m.nms)

	return detector.Keep(cands, keep, lb), nil
}
