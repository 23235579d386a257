package bitmap

// TestPattern builds a calibration raster without any input image:
// a one-dot border, ruler ticks along the top every 8 dots (long
// ticks every 32), a checkerboard band, and a solid band for density
// checks. Printing it verifies head width, alignment and darkness at
// a glance.
func TestPattern(width, height int) *DeviceImage {
	if width <= 0 {
		width = defaultDeviceWidth
	}
	if height < 32 {
		height = 32
	}
	img := newDeviceImage(width, height)

	// Border.
	for x := 0; x < width; x++ {
		img.setBit(x, 0)
		img.setBit(x, height-1)
	}
	for y := 0; y < height; y++ {
		img.setBit(0, y)
		img.setBit(width-1, y)
	}

	// Ruler ticks below the top border.
	for x := 0; x < width; x += 8 {
		tick := 3
		if x%32 == 0 {
			tick = 7
		}
		for y := 1; y <= tick && y < height-1; y++ {
			img.setBit(x, y)
		}
	}

	// Checkerboard band across the middle third, 4-dot cells.
	top, bottom := height/3, 2*height/3
	for y := top; y < bottom; y++ {
		for x := 1; x < width-1; x++ {
			if (x/4+y/4)%2 == 0 {
				img.setBit(x, y)
			}
		}
	}

	// Solid density band under the checkerboard.
	for y := bottom + 2; y < height-3; y++ {
		for x := 1; x < width-1; x++ {
			img.setBit(x, y)
		}
	}

	return img
}
