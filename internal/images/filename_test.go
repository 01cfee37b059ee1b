package images_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/spotter/internal/images"
)

func TestParseMessageID(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     int64
		wantErr  bool
	}{
		{"standard", "message_101.jpg", 101, false},
		{"large id", "msg_9876543210.jpg", 9876543210, false},
		{"leading zeros", "message_007.jpg", 7, false},
		{"first dot wins", "message_42.thumb.jpg", 42, false},
		{"no extension", "message_55", 55, false},
		{"first underscore wins", "a_12_34.jpg", 0, true},
		{"no underscore", "photo.jpg", 0, true},
		{"empty identifier", "message_.jpg", 0, true},
		{"non numeric", "message_abc.jpg", 0, true},
		{"signed", "message_-5.jpg", 0, true},
		{"overflow", "message_99999999999999999999.jpg", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := images.ParseMessageID(tt.filename)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMessageID(%q) error = %v, wantErr %v", tt.filename, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, images.ErrParse) {
					t.Errorf("error %v should match ErrParse", err)
				}
				var pe *images.ParseError
				if !errors.As(err, &pe) || pe.Filename != tt.filename {
					t.Errorf("error %v should be a ParseError for %q", err, tt.filename)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseMessageID(%q) = %d, want %d", tt.filename, got, tt.want)
			}
		})
	}
}
