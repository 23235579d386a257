package bitmap

// DeviceImage is a raster in the printer's wire format: one bit per
// dot, packed MSB-first, rows padded to whole bytes. Bit 1 is a dot
// that prints (dark); bit 0 leaves the paper blank.
type DeviceImage struct {
	Width  int // dots per row
	Height int // rows
	Stride int // bytes per row, (Width+7)/8
	Data   []byte
}

// BitAt returns the bit for the dot at (x, y): 1 prints, 0 does not.
func (d *DeviceImage) BitAt(x, y int) byte {
	b := d.Data[y*d.Stride+x/8]
	return (b >> (7 - uint(x)%8)) & 1
}

// setBit marks the dot at (x, y) as printing.
func (d *DeviceImage) setBit(x, y int) {
	d.Data[y*d.Stride+x/8] |= 0x80 >> (uint(x) % 8)
}

func newDeviceImage(width, height int) *DeviceImage {
	stride := (width + 7) / 8
	return &DeviceImage{
		Width:  width,
		Height: height,
		Stride: stride,
		Data:   make([]byte, stride*height),
	}
}
