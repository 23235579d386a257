package printer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/nbsky/x6print/internal/bitmap"
	"github.com/nbsky/x6print/internal/x6"
)

// dataPort is the slice of a serial port the transfer needs.
type dataPort interface {
	io.WriteCloser
	Drain() error
}

func openDataPort(name string) (dataPort, error) {
	return serial.Open(name, x6.LineMode())
}

// Options tunes one print job. Zero values mean the device defaults;
// they exist as knobs because the pacing numbers are empirical, not
// documented by the vendor.
type Options struct {
	ChunkSize    int           // raster bytes per write
	ChunkDelay   time.Duration // pause after each chunk
	SettleDelay  time.Duration // pause before opening the port
	CommandDelay time.Duration // pause after control commands
	WriteTimeout time.Duration // per-write deadline
	FeedLines    int           // paper feed after the label

	// OnProgress, if set, is called after every chunk with the raster
	// bytes sent so far and the total. It runs on the job goroutine.
	OnProgress func(sent, total int)
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = x6.DefaultChunkSize
	}
	if o.ChunkDelay == 0 {
		o.ChunkDelay = x6.DefaultChunkDelay
	}
	if o.SettleDelay == 0 {
		o.SettleDelay = x6.SettleDelay
	}
	if o.CommandDelay == 0 {
		o.CommandDelay = x6.CommandDelay
	}
	if o.WriteTimeout == 0 {
		o.WriteTimeout = x6.DataTimeout
	}
	if o.FeedLines == 0 {
		o.FeedLines = x6.DefaultFeedLines
	}
	return o
}

// Driver runs print jobs against the device, one at a time.
type Driver struct {
	mu     sync.Mutex
	active *Job

	// open is swapped out in tests to drive the transfer against an
	// in-memory port.
	open func(name string) (dataPort, error)
}

// New returns a Driver that opens real serial ports.
func New() *Driver {
	return &Driver{open: openDataPort}
}

// Start begins printing the raster on the given port and returns the
// job immediately; the transfer runs on its own goroutine. It fails
// with ErrJobActive while a previous job is still running.
func (d *Driver) Start(portName string, img *bitmap.DeviceImage, opts Options) (*Job, error) {
	if img.Stride > 0xFFFF || img.Height > 0xFFFF {
		return nil, fmt.Errorf("raster %dx%d rows does not fit the transfer header", img.Stride, img.Height)
	}

	job := &Job{done: make(chan struct{})}

	d.mu.Lock()
	if d.active != nil {
		d.mu.Unlock()
		return nil, ErrJobActive
	}
	d.active = job
	d.mu.Unlock()

	go d.run(job, portName, img, opts.withDefaults())
	return job, nil
}

func (d *Driver) run(job *Job, portName string, img *bitmap.DeviceImage, opts Options) {
	out := d.transfer(job, portName, img, opts)
	job.outcome = out

	// The port is already closed here (transfer defers it), so a
	// caller woken by Done can start the next job straight away.
	d.mu.Lock()
	d.active = nil
	d.mu.Unlock()
	close(job.done)

	switch out.Status {
	case StatusSuccess:
		slog.Info("print finished", "bytes_sent", out.BytesSent)
	case StatusCanceled:
		slog.Info("print canceled", "bytes_sent", out.BytesSent)
	case StatusFailed:
		slog.Error("print failed", "error", out.Err, "bytes_sent", out.BytesSent)
	}
}

// transfer speaks the whole print protocol for one job:
// settle, open, wake-up, column reset, raster header, paced chunks,
// execute, feed. It returns after the port is closed.
func (d *Driver) transfer(job *Job, portName string, img *bitmap.DeviceImage, opts Options) Outcome {
	// Some USB-serial bridges drop the first bytes written right
	// after enumeration; give the link a moment.
	time.Sleep(opts.SettleDelay)
	if job.canceled.Load() {
		return Outcome{Status: StatusCanceled}
	}

	port, err := d.open(portName)
	if err != nil {
		return failure(&PrintError{Kind: Connection, Msg: fmt.Sprintf("open %s: %v", portName, err)}, 0)
	}
	defer port.Close()

	w := timedPort{port: port, timeout: opts.WriteTimeout}

	// Wake-up. The device answers with its identity line; nothing in
	// it matters here, so it stays in the input buffer.
	if _, err := w.write(x6.Handshake); err != nil {
		return failure(classify(err), 0)
	}
	time.Sleep(opts.CommandDelay)

	if _, err := w.write(x6.ColumnReset); err != nil {
		return failure(classify(err), 0)
	}
	if err := w.drain(); err != nil {
		return failure(classify(err), 0)
	}
	time.Sleep(opts.CommandDelay)

	header := x6.MarshalPrintHeader(x6.PrintHeader{
		WidthBytes: uint16(img.Stride),
		Height:     uint16(img.Height),
	})
	if _, err := w.write(header); err != nil {
		return failure(classify(err), 0)
	}
	if err := w.drain(); err != nil {
		return failure(classify(err), 0)
	}
	slog.Debug("raster header sent", "width_bytes", img.Stride, "rows", img.Height)

	sent := 0
	total := len(img.Data)
	for off := 0; off < total; off += opts.ChunkSize {
		if job.canceled.Load() {
			return Outcome{Status: StatusCanceled, BytesSent: sent}
		}

		end := off + opts.ChunkSize
		if end > total {
			end = total
		}
		n, err := w.write(img.Data[off:end])
		sent += n
		if err != nil {
			return failure(classify(err), sent)
		}
		if err := w.drain(); err != nil {
			return failure(classify(err), sent)
		}

		if opts.OnProgress != nil {
			opts.OnProgress(sent, total)
		}
		// The head prints while we wait; pushing the next chunk
		// early overruns the receive buffer.
		time.Sleep(opts.ChunkDelay)
	}

	if job.canceled.Load() {
		return Outcome{Status: StatusCanceled, BytesSent: sent}
	}

	if _, err := w.write(x6.Execute); err != nil {
		return failure(classify(err), sent)
	}
	time.Sleep(opts.CommandDelay)
	if _, err := w.write(x6.MarshalFeed(opts.FeedLines)); err != nil {
		return failure(classify(err), sent)
	}
	// The last flush has no later write to expose a dead link, so its
	// error decides the outcome like any other.
	if err := w.drain(); err != nil {
		return failure(classify(err), sent)
	}

	return Outcome{Status: StatusSuccess, BytesSent: sent}
}

func failure(err *PrintError, sent int) Outcome {
	return Outcome{Status: StatusFailed, Err: err, BytesSent: sent}
}

// classify maps a raw write error to the failure taxonomy. Timeouts
// keep their kind; anything else mid-transfer is a transfer error.
func classify(err error) *PrintError {
	var pe *PrintError
	if errors.As(err, &pe) {
		return pe
	}
	return &PrintError{Kind: Transfer, Msg: err.Error()}
}

// timedPort bounds each write. The serial layer has no write deadline
// of its own, and a powered-off printer with an active adapter blocks
// Write forever.
type timedPort struct {
	port    dataPort
	timeout time.Duration
}

func (p timedPort) write(data []byte) (int, error) {
	type result struct {
		n   int
		err error
	}
	ch := make(chan result, 1)
	go func() {
		n, err := p.port.Write(data)
		ch <- result{n, err}
	}()

	select {
	case r := <-ch:
		return r.n, r.err
	case <-time.After(p.timeout):
		return 0, &PrintError{Kind: Timeout, Msg: fmt.Sprintf("write of %d bytes stalled for %v", len(data), p.timeout)}
	}
}

// drain flushes the port under the same deadline as writes; a wedged
// device can block Drain just as it blocks Write.
func (p timedPort) drain() error {
	ch := make(chan error, 1)
	go func() { ch <- p.port.Drain() }()

	select {
	case err := <-ch:
		return err
	case <-time.After(p.timeout):
		return &PrintError{Kind: Timeout, Msg: fmt.Sprintf("flush stalled for %v", p.timeout)}
	}
}
