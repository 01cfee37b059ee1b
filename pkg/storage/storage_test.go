package storage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/JaimeStill/spotter/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newLake(t *testing.T) (string, storage.System) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "newsA", "images", "message_101.jpg"), "jpeg-bytes")
	writeFile(t, filepath.Join(root, "newsA", "messages.json"), "{}")
	writeFile(t, filepath.Join(root, "notes.txt"), "x")

	sys, err := storage.NewLocal(root, discard())
	if err != nil {
		t.Fatalf("NewLocal failed: %v", err)
	}
	return root, sys
}

func TestNewSelectsBackend(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr bool
	}{
		{"local", storage.Config{Backend: storage.BackendLocal, Root: t.TempDir()}, false},
		{"azure", storage.Config{Backend: storage.BackendAzure, ContainerName: "c", ConnectionString: azuriteConnString}, false},
		{"azure invalid connection string", storage.Config{Backend: storage.BackendAzure, ContainerName: "c", ConnectionString: "nope"}, true},
		{"unknown", storage.Config{Backend: "ftp"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys, err := storage.New(&tt.cfg, discard())
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && sys == nil {
				t.Fatal("New() returned nil system")
			}
		})
	}
}

func TestAzureLocation(t *testing.T) {
	cfg := storage.Config{Backend: storage.BackendAzure, ContainerName: "lake", ConnectionString: azuriteConnString}
	sys, err := storage.New(&cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := sys.Location("newsA/images/a.jpg"); got != "azure://lake/newsA/images/a.jpg" {
		t.Errorf("Location() = %q", got)
	}
}

func TestLocalListRoot(t *testing.T) {
	_, sys := newLake(t)

	entries, err := sys.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	var dirs, files []string
	for _, e := range entries {
		if e.Dir {
			dirs = append(dirs, e.Name)
		} else {
			files = append(files, e.Name)
		}
	}
	if !slices.Equal(dirs, []string{"newsA"}) {
		t.Errorf("dirs = %v, want [newsA]", dirs)
	}
	if !slices.Equal(files, []string{"notes.txt"}) {
		t.Errorf("files = %v, want [notes.txt]", files)
	}
}

func TestLocalListNested(t *testing.T) {
	_, sys := newLake(t)

	entries, err := sys.List(context.Background(), "newsA/images")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if e := entries[0]; e.Name != "message_101.jpg" || e.Dir || e.Size != int64(len("jpeg-bytes")) {
		t.Errorf("entry = %+v", e)
	}
}

func TestLocalListNotFound(t *testing.T) {
	_, sys := newLake(t)

	tests := []struct {
		name   string
		prefix string
	}{
		{"missing directory", "newsB/images"},
		{"file prefix", "notes.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sys.List(context.Background(), tt.prefix)
			if !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("List(%q) error = %v, want ErrNotFound", tt.prefix, err)
			}
		})
	}
}

func TestLocalListMissingRoot(t *testing.T) {
	sys, err := storage.NewLocal(filepath.Join(t.TempDir(), "absent"), discard())
	if err != nil {
		t.Fatalf("NewLocal failed: %v", err)
	}
	if _, err := sys.List(context.Background(), ""); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("List(root) error = %v, want ErrNotFound", err)
	}
}

func TestLocalDownload(t *testing.T) {
	_, sys := newLake(t)

	rc, err := sys.Download(context.Background(), "newsA/images/message_101.jpg")
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("content = %q", data)
	}

	if _, err := sys.Download(context.Background(), "newsA/images/missing.jpg"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing object error = %v, want ErrNotFound", err)
	}
}

func TestKeyValidation(t *testing.T) {
	_, sys := newLake(t)
	ctx := context.Background()

	if _, err := sys.Download(ctx, ""); !errors.Is(err, storage.ErrEmptyKey) {
		t.Errorf("empty key error = %v, want ErrEmptyKey", err)
	}
	if _, err := sys.Download(ctx, "../secret.jpg"); !errors.Is(err, storage.ErrInvalidKey) {
		t.Errorf("traversal key error = %v, want ErrInvalidKey", err)
	}
	if _, err := sys.List(ctx, "newsA/../.."); !errors.Is(err, storage.ErrInvalidKey) {
		t.Errorf("traversal prefix error = %v, want ErrInvalidKey", err)
	}
}

func TestLocalCancelledContext(t *testing.T) {
	_, sys := newLake(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := sys.List(ctx, ""); !errors.Is(err, context.Canceled) {
		t.Errorf("List error = %v, want Canceled", err)
	}
}
