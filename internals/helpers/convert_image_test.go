package helper

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chai2010/webp"
)

func TestUploadPath(t *testing.T) {
	root := filepath.FromSlash("/srv/uploads")
	tests := []struct {
		url  string
		want string
	}{
		{"/uploads/gallery/a.webp", filepath.Join(root, "gallery", "a.webp")},
		{"/uploads/../etc/passwd", ""},
		{"/uploads/", ""},
		{"https://cdn.example.com/a.webp", ""},
		{"/static/a.webp", ""},
	}
	for _, tt := range tests {
		if got := UploadPath(root, tt.url); got != tt.want {
			t.Errorf("UploadPath(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestSaveAndRemoveUpload(t *testing.T) {
	root := t.TempDir()
	url, err := SaveUpload(root, "announcements", []byte("x"), "WEBP")
	if err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/announcements/") || !strings.HasSuffix(url, ".webp") {
		t.Fatalf("url = %q", url)
	}
	p := UploadPath(root, url)
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("stat: %v", err)
	}
	if err := RemoveUpload(root, url); err != nil {
		t.Fatalf("RemoveUpload: %v", err)
	}
	if err := RemoveUpload(root, url); err != nil {
		t.Fatalf("RemoveUpload on missing file: %v", err)
	}
	if err := RemoveUpload(root, "https://elsewhere/x.png"); err != nil {
		t.Fatalf("RemoveUpload on external url: %v", err)
	}
}

func TestDecodeDataURL(t *testing.T) {
	raw := []byte("hello")
	enc := base64.StdEncoding.EncodeToString(raw)
	for _, in := range []string{enc, "data:image/png;base64," + enc, "  " + enc + "\n"} {
		got, err := DecodeDataURL(in)
		if err != nil {
			t.Fatalf("DecodeDataURL(%q): %v", in, err)
		}
		if !bytes.Equal(got, raw) {
			t.Fatalf("DecodeDataURL(%q) = %q", in, got)
		}
	}
	if _, err := DecodeDataURL("data:image/png;base64,@@@"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestConvertToWebPShrinks(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 120, 60))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := ConvertToWebP(&buf, "photo.png", 40)
	if err != nil {
		t.Fatalf("ConvertToWebP: %v", err)
	}
	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode webp: %v", err)
	}
	if cfg.Width != 40 || cfg.Height != 20 {
		t.Fatalf("size = %dx%d, want 40x20", cfg.Width, cfg.Height)
	}

	if _, err := ConvertToWebP(strings.NewReader("plain text"), "notes.txt", 0); !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("text input error = %v, want %v", err, ErrUnsupportedImage)
	}
}
