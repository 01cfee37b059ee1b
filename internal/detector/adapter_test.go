package detector_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/spotter/internal/detector"
	"github.com/JaimeStill/spotter/internal/images"
	"github.com/JaimeStill/spotter/pkg/formatting"
	"github.com/JaimeStill/spotter/pkg/storage"
)

type fakeModel struct {
	boxes []detector.Box
	err   error
	seen  []byte
}

func (m *fakeModel) Infer(img []byte) ([]detector.Box, error) {
	m.seen = img
	return m.boxes, m.err
}

func (m *fakeModel) Labels() []string { return []string{"person", "bicycle", "car"} }
func (m *fakeModel) Close() error     { return nil }

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setup(t *testing.T, content string) (storage.System, images.Task) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "newsA", "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "message_101.jpg"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := storage.NewLocal(root, discard())
	if err != nil {
		t.Fatal(err)
	}
	return store, images.Task{
		Channel:  "newsA",
		Path:     "newsA/images/message_101.jpg",
		Filename: "message_101.jpg",
		Size:     int64(len(content)),
	}
}

func TestDetectLabelsResults(t *testing.T) {
	store, task := setup(t, "jpeg")
	model := &fakeModel{boxes: []detector.Box{
		{Class: 0, Confidence: 0.91},
		{Class: 2, Confidence: 0.55},
		{Class: 17, Confidence: 0.30},
	}}

	results, err := detector.NewAdapter(model, store, 0, discard()).Detect(context.Background(), task)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if string(model.seen) != "jpeg" {
		t.Errorf("model received %q, want image bytes", model.seen)
	}

	want := []detector.Result{
		{Class: "person", Confidence: 0.91},
		{Class: "car", Confidence: 0.55},
		{Class: "class_17", Confidence: 0.30},
	}
	if len(results) != len(want) {
		t.Fatalf("got %d results, want %d", len(results), len(want))
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("result[%d] = %+v, want %+v", i, results[i], want[i])
		}
	}
}

func TestDetectEmpty(t *testing.T) {
	store, task := setup(t, "jpeg")

	results, err := detector.NewAdapter(&fakeModel{}, store, 0, discard()).Detect(context.Background(), task)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestDetectErrors(t *testing.T) {
	store, task := setup(t, "0123456789")
	missing := task
	missing.Path = "newsA/images/gone.jpg"
	missing.Size = 0
	understated := task
	understated.Size = 1

	tests := []struct {
		name    string
		model   *fakeModel
		task    images.Task
		maxSize formatting.ByteSize
		want    error
	}{
		{"inference failure", &fakeModel{err: errors.New("corrupt image")}, task, 0, detector.ErrInference},
		{"missing file", &fakeModel{}, missing, 0, detector.ErrRead},
		{"listed size over guard", &fakeModel{}, task, 4, detector.ErrImageTooLarge},
		{"stream over guard", &fakeModel{}, understated, 4, detector.ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := detector.NewAdapter(tt.model, store, tt.maxSize, discard()).Detect(context.Background(), tt.task)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Detect error = %v, want %v", err, tt.want)
			}
			if tt.want != detector.ErrInference && tt.model.seen != nil {
				t.Error("model should not run when the image is rejected")
			}
		})
	}
}

func TestDetectWithinGuard(t *testing.T) {
	store, task := setup(t, "0123")

	if _, err := detector.NewAdapter(&fakeModel{}, store, 4, discard()).Detect(context.Background(), task); err != nil {
		t.Errorf("image at the limit should pass: %v", err)
	}
}
