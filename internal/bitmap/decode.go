package bitmap

import (
	"fmt"
	"image"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Decode reads an image in any of the supported formats
// (PNG, JPEG, GIF, WebP). Undecodable input is an UnsupportedImage
// error, not a raw decoder error, so callers can tell "bad file"
// apart from transfer problems.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", &EncodeError{Kind: UnsupportedImage, Msg: fmt.Sprintf("decode image: %v", err)}
	}
	return img, format, nil
}
