package x6

import (
	"fmt"
	"log/slog"

	"go.bug.st/serial"
)

// FindPrinter enumerates the serial ports on this machine and probes
// each in turn, returning the first port that identifies as a
// compatible printer. ok is false when no port matches; that includes
// a machine with no serial ports at all. Only enumeration itself can
// fail with an error.
func FindPrinter() (port string, ok bool, err error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return "", false, fmt.Errorf("list serial ports: %w", err)
	}
	slog.Debug("scanning serial ports", "count", len(ports))
	port, ok = scanPorts(ports, ProbePort)
	return port, ok, nil
}

// scanPorts probes candidates one at a time, in order, and stops at
// the first match. Probing two ports concurrently sounds faster, but
// opening a port mid-probe on some USB-serial bridges resets the
// adapter, so the scan stays strictly sequential.
func scanPorts(ports []string, probe func(string) bool) (string, bool) {
	for _, name := range ports {
		slog.Debug("probing", "port", name)
		if probe(name) {
			slog.Info("printer found", "port", name)
			return name, true
		}
	}
	return "", false
}
