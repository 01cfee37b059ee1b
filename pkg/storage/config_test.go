package storage_test

import (
	"testing"

	"github.com/JaimeStill/spotter/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"backend", cfg.Backend, storage.BackendLocal},
		{"root", cfg.Root, "../data/raw/telegram_messages"},
		{"container_name", cfg.ContainerName, "telegram-messages"},
		{"max_list_size", cfg.MaxListSize, int32(1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_STORAGE_BACKEND", "azure")
	t.Setenv("TEST_STORAGE_ROOT", "/lake")
	t.Setenv("TEST_STORAGE_CONTAINER", "images")
	t.Setenv("TEST_STORAGE_CONN", azuriteConnString)
	t.Setenv("TEST_STORAGE_LIST", "99999")

	env := &storage.Env{
		Backend:          "TEST_STORAGE_BACKEND",
		Root:             "TEST_STORAGE_ROOT",
		ContainerName:    "TEST_STORAGE_CONTAINER",
		ConnectionString: "TEST_STORAGE_CONN",
		MaxListSize:      "TEST_STORAGE_LIST",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Backend != storage.BackendAzure {
		t.Errorf("backend = %q, want azure", cfg.Backend)
	}
	if cfg.Root != "/lake" {
		t.Errorf("root = %q, want /lake", cfg.Root)
	}
	if cfg.ContainerName != "images" {
		t.Errorf("container_name = %q, want images", cfg.ContainerName)
	}
	if cfg.MaxListSize != storage.MaxListCap {
		t.Errorf("max_list_size = %d, want cap %d", cfg.MaxListSize, storage.MaxListCap)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  storage.Config
	}{
		{"unknown backend", storage.Config{Backend: "s3"}},
		{"azure without connection string", storage.Config{Backend: storage.BackendAzure, ContainerName: "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{Backend: storage.BackendLocal, Root: "/base", MaxListSize: 100}
	base.Merge(&storage.Config{Root: "/overlay"})

	if base.Root != "/overlay" {
		t.Errorf("root = %q, want /overlay", base.Root)
	}
	if base.Backend != storage.BackendLocal {
		t.Errorf("backend = %q, zero overlay field should not overwrite", base.Backend)
	}
	if base.MaxListSize != 100 {
		t.Errorf("max_list_size = %d, want 100", base.MaxListSize)
	}
}
