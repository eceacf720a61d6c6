package ink

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
)

const dataURLPrefix = "data:image/png;base64,"

// ErrNotDataURL is returned when a stored value is not a PNG data URL.
var ErrNotDataURL = errors.New("not a png data url")

// EncodeDataURL serializes img as a base64 PNG data URL.
func EncodeDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL parses a PNG data URL produced by EncodeDataURL.
func DecodeDataURL(s string) (image.Image, error) {
	payload, ok := strings.CutPrefix(s, dataURLPrefix)
	if !ok {
		return nil, ErrNotDataURL
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return img, nil
}

// WritePNG writes the surface pixels to w as PNG.
func (s *Surface) WritePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}
