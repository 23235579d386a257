package printer

import "errors"

// ErrJobActive is returned by Start while another job is in flight.
// The device has one receive buffer; interleaving two transfers
// corrupts both labels.
var ErrJobActive = errors.New("a print job is already active")

// ErrorKind classifies transfer failures.
type ErrorKind int

const (
	Connection ErrorKind = iota // port could not be opened or vanished
	Timeout                     // a write stalled past the deadline
	Transfer                    // the link failed mid-transfer
)

var errorKindNames = map[ErrorKind]string{
	Connection: "connection error",
	Timeout:    "timeout",
	Transfer:   "transfer error",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// PrintError indicates a transfer-level error.
type PrintError struct {
	Kind ErrorKind
	Msg  string
}

func (e *PrintError) Error() string { return e.Kind.String() + ": " + e.Msg }
