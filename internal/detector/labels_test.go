package detector_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/JaimeStill/spotter/internal/detector"
)

func TestCOCOLabels(t *testing.T) {
	if len(detector.COCOLabels) != 80 {
		t.Fatalf("got %d labels, want 80", len(detector.COCOLabels))
	}
	if detector.COCOLabels[0] != "person" || detector.COCOLabels[2] != "car" {
		t.Errorf("unexpected leading labels: %v", detector.COCOLabels[:3])
	}
}

func TestLoadLabels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.txt")
	if err := os.WriteFile(path, []byte("# custom\nperson\n\n  drone  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, []byte("# nothing\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		want    []string
		wantErr bool
	}{
		{"default", "", detector.COCOLabels, false},
		{"file", path, []string{"person", "drone"}, false},
		{"empty file", empty, nil, true},
		{"missing file", filepath.Join(dir, "absent.txt"), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := detector.LoadLabels(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadLabels error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	labels := []string{"person", "car"}

	tests := []struct {
		class int
		want  string
	}{
		{0, "person"},
		{1, "car"},
		{2, "class_2"},
		{-1, "class_-1"},
	}

	for _, tt := range tests {
		if got := detector.Label(labels, tt.class); got != tt.want {
			t.Errorf("Label(%d) = %q, want %q", tt.class, got, tt.want)
		}
	}
}
