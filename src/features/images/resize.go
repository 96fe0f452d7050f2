package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/nfnt/resize"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Resize scales artwork down to a square of the requested edge and re-encodes
// it as JPEG. A zero edge keeps the source dimensions.
func Resize(data []byte, edge int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("images: decode artwork: %w", err)
	}
	if edge > 0 {
		img = resize.Resize(uint(edge), uint(edge), img, resize.Lanczos3)
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("images: encode artwork: %w", err)
	}
	return out.Bytes(), nil
}
