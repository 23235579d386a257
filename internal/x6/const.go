package x6

import "time"

// Print head geometry (203 dpi head, 48 bytes per row).
const (
	PrinterWidth      = 384 // dots per row
	PrinterWidthBytes = PrinterWidth / 8
)

// Command bytes. The device speaks a small GS v 0 dialect over serial;
// text commands are newline-terminated ASCII.
var (
	ProbePing    = []byte{0x1E, 0x47, 0x03}                             // identity query
	Handshake    = []byte("MHV=H1.0,SV=V1.01,VOLT=8000mv,DPI=384,\n")   // wake-up / session start
	ColumnReset  = []byte{0x0D}                                         // reset column position
	RasterOpcode = []byte{0x1D, 0x76, 0x30}                             // GS v 0, raster transfer
	Execute      = []byte("LABELAT1\n")                                 // commit buffered raster
	FeedPrefix   = []byte{0x1B, 0x64}                                   // ESC d n, feed n lines
)

// PongMarker is the substring of the identity response that marks a
// compatible device. The full response carries firmware and voltage
// fields that vary between units.
const PongMarker = "HV=H1.0"

// Serial line parameters. Probe and data phases both run 9600 8N1.
const (
	BaudRate     = 9600
	ProbeTimeout = 700 * time.Millisecond
	DataTimeout  = 10 * time.Second
)

// ProbeReadSize is the response buffer for a single probe read.
// The identity response is under 50 bytes; 100 leaves slack for
// devices that prepend status noise.
const ProbeReadSize = 100

// Flow control. The device has no hardware flow control and a small
// receive buffer; these pacing values are empirical and overrunning
// them corrupts output mid-label.
const (
	DefaultChunkSize  = 768
	DefaultChunkDelay = 80 * time.Millisecond
	SettleDelay       = 500 * time.Millisecond
	CommandDelay      = 100 * time.Millisecond
	DefaultFeedLines  = 6
)

// HeaderLen is the fixed size of a raster transfer header:
// 3-byte opcode + uint16 width-bytes + uint16 height.
const HeaderLen = 7
