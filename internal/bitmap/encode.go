package bitmap

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/makeworld-the-better-one/dither/v2"
	xdraw "golang.org/x/image/draw"
)

// defaultDeviceWidth matches the 384-dot print head.
const defaultDeviceWidth = 384

// Alignment places a narrow image on the full-width canvas.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

var alignmentNames = map[Alignment]string{
	AlignLeft:   "left",
	AlignCenter: "center",
	AlignRight:  "right",
}

func (a Alignment) String() string {
	if name, ok := alignmentNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAlignment parses "left", "center" or "right".
func ParseAlignment(s string) (Alignment, error) {
	for a, name := range alignmentNames {
		if s == name {
			return a, nil
		}
	}
	return AlignLeft, fmt.Errorf("unknown alignment %q", s)
}

// Options controls how a source image maps onto the print head.
type Options struct {
	// DeviceWidth is the head width in dots. Zero means 384.
	DeviceWidth int
	// Offset is the leftmost source column to print. Columns to its
	// left are dropped; columns beyond Offset+DeviceWidth too.
	Offset int
	// Align positions an image narrower than the head.
	Align Alignment
	// FitToWidth scales an over-wide image down to the head width
	// instead of cropping it.
	FitToWidth bool
}

// Encode converts a decoded image into the printer's packed raster.
//
// The pipeline: flatten transparency onto white, optionally scale to
// the head width, crop the horizontal window, pad narrow results onto
// a white full-width canvas, dither to black and white, pack one bit
// per dot. The result always spans the full head width unless the
// source itself is narrower and padding already handles that, so
// len(Data) == Stride*Height always holds.
func Encode(src image.Image, opts Options) (*DeviceImage, error) {
	pw := opts.DeviceWidth
	if pw <= 0 {
		pw = defaultDeviceWidth
	}
	if opts.Offset < 0 {
		return nil, &EncodeError{Kind: InvalidGeometry, Msg: fmt.Sprintf("offset %d is negative", opts.Offset)}
	}

	flat := flatten(src)
	if opts.FitToWidth && flat.Bounds().Dx() > pw {
		flat = scaleToWidth(flat, pw)
	}

	srcW, srcH := flat.Bounds().Dx(), flat.Bounds().Dy()
	if srcH <= 0 || srcW <= 0 {
		return nil, &EncodeError{Kind: EncodingFailure, Msg: "image has no pixels"}
	}

	right := opts.Offset + pw
	if right > srcW {
		right = srcW
	}
	cropW := right - opts.Offset
	if cropW <= 0 {
		return nil, &EncodeError{Kind: InvalidGeometry, Msg: fmt.Sprintf("offset %d leaves no columns of %d-wide image", opts.Offset, srcW)}
	}

	canvas := image.NewRGBA(image.Rect(0, 0, pw, srcH))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	// A full-width crop lands at x=0; a narrow one is placed per the
	// alignment. Cropping and padding never both apply to the same edge.
	var dstX int
	if cropW < pw {
		switch opts.Align {
		case AlignCenter:
			dstX = (pw - cropW) / 2
		case AlignRight:
			dstX = pw - cropW
		}
	}
	dstRect := image.Rect(dstX, 0, dstX+cropW, srcH)
	draw.Draw(canvas, dstRect, flat, image.Pt(opts.Offset, 0), draw.Src)

	return binarize(canvas), nil
}

// flatten composites the source over an opaque white background so
// that transparent regions print as blank paper, and normalizes the
// bounds to the origin.
func flatten(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

// scaleToWidth resizes to the given width preserving aspect ratio.
func scaleToWidth(src *image.RGBA, width int) *image.RGBA {
	b := src.Bounds()
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// binarize dithers to a two-color palette and packs the result.
// Serpentine Floyd-Steinberg spreads quantization error evenly on
// photographic input and leaves pure black/white input untouched.
func binarize(img *image.RGBA) *DeviceImage {
	d := dither.NewDitherer([]color.Color{color.Black, color.White})
	d.Matrix = dither.FloydSteinberg
	d.Serpentine = true
	paletted := d.DitherPaletted(img)

	// Map palette indices to wire bits: the dark entry prints (bit 1).
	var bit [2]byte
	if paletted.Palette.Index(color.White) == 0 {
		bit = [2]byte{0, 1}
	} else {
		bit = [2]byte{1, 0}
	}

	b := paletted.Bounds()
	out := newDeviceImage(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if bit[paletted.ColorIndexAt(b.Min.X+x, b.Min.Y+y)] == 1 {
				out.setBit(x, y)
			}
		}
	}
	return out
}
