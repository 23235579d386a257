package x6

import (
	"errors"
	"testing"
	"time"
)

type stubWriter struct {
	err   error
	block chan struct{} // nil = return immediately
}

func (w stubWriter) Write(b []byte) (int, error) {
	if w.block != nil {
		<-w.block
	}
	if w.err != nil {
		return 0, w.err
	}
	return len(b), nil
}

func TestWriteWithTimeout(t *testing.T) {
	if err := writeWithTimeout(stubWriter{}, ProbePing, time.Second); err != nil {
		t.Errorf("writeWithTimeout on a working port = %v, want nil", err)
	}

	wantErr := errors.New("input/output error")
	if err := writeWithTimeout(stubWriter{err: wantErr}, ProbePing, time.Second); !errors.Is(err, wantErr) {
		t.Errorf("writeWithTimeout on a broken port = %v, want %v", err, wantErr)
	}
}

func TestWriteWithTimeoutStalledPort(t *testing.T) {
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })

	start := time.Now()
	err := writeWithTimeout(stubWriter{block: block}, ProbePing, 20*time.Millisecond)
	if err == nil {
		t.Fatal("writeWithTimeout returned nil on a stalled port")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("writeWithTimeout took %v, want around the 20ms deadline", elapsed)
	}
}
