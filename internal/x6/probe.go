package x6

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.bug.st/serial"
)

// LineMode returns the serial parameters the device expects (9600 8N1).
func LineMode() *serial.Mode {
	return &serial.Mode{
		BaudRate: BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// ProbePort asks the device at the given port for its identity and
// reports whether it answered like a compatible printer.
//
// Any failure — port busy, permission denied, vanished device, garbage
// or no response — is a non-match, never an error: during a scan most
// ports belong to other hardware and failing on them would abort the
// scan. The port is closed before returning in every case.
func ProbePort(name string) bool {
	port, err := serial.Open(name, LineMode())
	if err != nil {
		slog.Debug("probe: open failed", "port", name, "error", err)
		return false
	}
	defer port.Close()

	if err := port.SetReadTimeout(ProbeTimeout); err != nil {
		slog.Debug("probe: set timeout failed", "port", name, "error", err)
		return false
	}
	if err := writeWithTimeout(port, ProbePing, ProbeTimeout); err != nil {
		slog.Debug("probe: write failed", "port", name, "error", err)
		return false
	}

	// The identity response can arrive split across reads; keep
	// accumulating until the marker shows up or the window closes.
	resp := make([]byte, 0, ProbeReadSize)
	buf := make([]byte, ProbeReadSize)
	deadline := time.Now().Add(ProbeTimeout)
	for time.Now().Before(deadline) && len(resp) < ProbeReadSize {
		n, err := port.Read(buf)
		if err != nil {
			slog.Debug("probe: read failed", "port", name, "error", err)
			return false
		}
		if n == 0 {
			break // read timeout
		}
		resp = append(resp, buf[:n]...)
		if bytes.Contains(resp, []byte(PongMarker)) {
			slog.Debug("probe: match", "port", name, "response", string(resp))
			return true
		}
	}

	slog.Debug("probe: no match", "port", name, "bytes", len(resp))
	return false
}

// writeWithTimeout bounds a write on a port with no native write
// deadline. A port wedged in Write would otherwise stall the whole
// scan on one bad device.
func writeWithTimeout(w io.Writer, data []byte, timeout time.Duration) error {
	ch := make(chan error, 1)
	go func() {
		_, err := w.Write(data)
		ch <- err
	}()

	select {
	case err := <-ch:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("write of %d bytes stalled for %v", len(data), timeout)
	}
}
