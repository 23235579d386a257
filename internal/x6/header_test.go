package x6

import (
	"bytes"
	"testing"
)

func TestMarshalPrintHeader(t *testing.T) {
	tests := []struct {
		name string
		hdr  PrintHeader
		want []byte
	}{
		{
			// Full-width label: 384 px = 48 bytes = 0x0030, big-endian.
			name: "full width 70 rows",
			hdr:  PrintHeader{WidthBytes: 48, Height: 70},
			want: []byte{0x1D, 0x76, 0x30, 0x00, 0x30, 0x00, 0x46},
		},
		{
			// Height above 255 must land in the high byte, not wrap.
			name: "tall label",
			hdr:  PrintHeader{WidthBytes: 48, Height: 1000},
			want: []byte{0x1D, 0x76, 0x30, 0x00, 0x30, 0x03, 0xE8},
		},
		{
			name: "empty transfer",
			hdr:  PrintHeader{WidthBytes: 0, Height: 0},
			want: []byte{0x1D, 0x76, 0x30, 0x00, 0x00, 0x00, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarshalPrintHeader(tt.hdr)
			if len(got) != HeaderLen {
				t.Fatalf("header length = %d, want %d", len(got), HeaderLen)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("MarshalPrintHeader() = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestParsePrintHeader(t *testing.T) {
	raw := []byte{0x1D, 0x76, 0x30, 0x00, 0x30, 0x00, 0x46}
	hdr, err := ParsePrintHeader(raw)
	if err != nil {
		t.Fatalf("ParsePrintHeader failed: %v", err)
	}
	if hdr.WidthBytes != 48 {
		t.Errorf("WidthBytes = %d, want 48", hdr.WidthBytes)
	}
	if hdr.Height != 70 {
		t.Errorf("Height = %d, want 70", hdr.Height)
	}
}

func TestParsePrintHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"too short", []byte{0x1D, 0x76, 0x30, 0x00}},
		{"wrong opcode", []byte{0x1B, 0x76, 0x30, 0x00, 0x30, 0x00, 0x46}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePrintHeader(tt.data); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	orig := PrintHeader{WidthBytes: 48, Height: 4096}
	hdr, err := ParsePrintHeader(MarshalPrintHeader(orig))
	if err != nil {
		t.Fatalf("ParsePrintHeader failed: %v", err)
	}
	if *hdr != orig {
		t.Errorf("round trip = %+v, want %+v", *hdr, orig)
	}
}

func TestMarshalFeed(t *testing.T) {
	tests := []struct {
		name  string
		lines int
		want  []byte
	}{
		{"default", 6, []byte{0x1B, 0x64, 0x06}},
		{"zero", 0, []byte{0x1B, 0x64, 0x00}},
		{"negative clamps to zero", -3, []byte{0x1B, 0x64, 0x00}},
		{"clamps to byte", 300, []byte{0x1B, 0x64, 0xFF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarshalFeed(tt.lines); !bytes.Equal(got, tt.want) {
				t.Errorf("MarshalFeed(%d) = % X, want % X", tt.lines, got, tt.want)
			}
		})
	}
}
