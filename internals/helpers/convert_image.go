package helper

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// UploadURLPrefix is where files under the upload dir are served.
const UploadURLPrefix = "/uploads"

var ErrUnsupportedImage = errors.New("unsupported image format")

// DecodeImage sniffs the content type first and falls back to the extension.
func DecodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	switch {
	case strings.Contains(ct, "jpeg"):
		return jpeg.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "png"):
		return png.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "webp"):
		return webp.Decode(bytes.NewReader(all))
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return jpeg.Decode(bytes.NewReader(all))
	case ".png":
		return png.Decode(bytes.NewReader(all))
	case ".webp":
		return webp.Decode(bytes.NewReader(all))
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, ct)
}

// ConvertToWebP decodes, shrinks to maxWidth (keeping aspect) and re-encodes as webp.
// maxWidth <= 0 keeps the original size.
func ConvertToWebP(r io.Reader, filename string, maxWidth int) ([]byte, error) {
	all, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	img, err := DecodeImage(all, filename)
	if err != nil {
		return nil, err
	}
	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: 80}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeDataURL accepts "data:image/png;base64,..." or bare base64.
func DecodeDataURL(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ","); strings.HasPrefix(s, "data:") && i > 0 {
		s = s[i+1:]
	}
	return base64.StdEncoding.DecodeString(s)
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

func sanitizeFilename(filename string) string {
	return unsafeFilename.ReplaceAllString(filename, "_")
}

// GenerateUniqueFilename returns "<yyyymmdd>-<uuid><ext>"; ext is sanitized.
func GenerateUniqueFilename(ext string) string {
	ext = sanitizeFilename(strings.ToLower(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
}

// SaveUpload writes data to root/folder/<unique name> and returns its public URL.
func SaveUpload(root, folder string, data []byte, ext string) (string, error) {
	dir := filepath.Join(root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := GenerateUniqueFilename(ext)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path.Join(UploadURLPrefix, folder, name), nil
}

// UploadPath maps a public upload URL back to a file under root.
// Returns "" for external URLs or paths escaping root.
func UploadPath(root, publicURL string) string {
	if !strings.HasPrefix(publicURL, UploadURLPrefix+"/") {
		return ""
	}
	rel := path.Clean(strings.TrimPrefix(publicURL, UploadURLPrefix+"/"))
	if rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}

// RemoveUpload deletes a stored upload. Missing files and external URLs are ignored.
func RemoveUpload(root, publicURL string) error {
	p := UploadPath(root, publicURL)
	if p == "" {
		return nil
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
