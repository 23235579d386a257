package x6

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// PrintHeader announces a raster transfer: how many bytes make up one
// row and how many rows follow.
type PrintHeader struct {
	WidthBytes uint16 // row stride in bytes (48 for a full-width label)
	Height     uint16 // rows in the transfer
}

// MarshalPrintHeader builds the 7-byte raster transfer header.
//
// Both fields are big-endian. The standard GS v 0 command is
// little-endian; this device is not. Sending little-endian width
// makes the firmware interpret row 0 as a 12288-byte row and print
// garbage, so the byte order here is load-bearing.
func MarshalPrintHeader(h PrintHeader) []byte {
	buf := make([]byte, 0, HeaderLen)
	buf = append(buf, RasterOpcode...)
	buf = binary.BigEndian.AppendUint16(buf, h.WidthBytes)
	buf = binary.BigEndian.AppendUint16(buf, h.Height)
	return buf
}

// ParsePrintHeader decodes a raster transfer header.
func ParsePrintHeader(data []byte) (*PrintHeader, error) {
	if len(data) < HeaderLen {
		return nil, fmt.Errorf("header too short: %d bytes, want %d", len(data), HeaderLen)
	}
	if !bytes.Equal(data[:3], RasterOpcode) {
		return nil, fmt.Errorf("bad raster opcode: % X", data[:3])
	}
	return &PrintHeader{
		WidthBytes: binary.BigEndian.Uint16(data[3:5]),
		Height:     binary.BigEndian.Uint16(data[5:7]),
	}, nil
}

// MarshalFeed builds the paper feed command for n lines.
func MarshalFeed(n int) []byte {
	if n < 0 {
		n = 0
	}
	if n > 0xFF {
		n = 0xFF
	}
	return append(append([]byte{}, FeedPrefix...), byte(n))
}
