package domain

import (
	"testing"
	"time"
)

func TestUploadKey(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1700000000123)

	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"plain name", "report.pdf", "uploads/1700000000123-report.pdf"},
		{"unix path", "../../etc/passwd", "uploads/1700000000123-passwd"},
		{"windows path", `C:\Users\me\photo.png`, "uploads/1700000000123-photo.png"},
		{"spaces kept", "my notes.txt", "uploads/1700000000123-my notes.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := UploadKey(tt.filename, now); got != tt.want {
				t.Errorf("UploadKey(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"", "/", "..", "  "} {
		if got := SanitizeFilename(name); got != "" {
			t.Errorf("SanitizeFilename(%q) = %q, want empty", name, got)
		}
	}
}
