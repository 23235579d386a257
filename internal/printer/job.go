package printer

import "sync/atomic"

// Status is the terminal state of a print job.
type Status int

const (
	StatusSuccess Status = iota
	StatusCanceled
	StatusFailed
)

var statusNames = map[Status]string{
	StatusSuccess:  "success",
	StatusCanceled: "canceled",
	StatusFailed:   "failed",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Outcome is the final report of a job: how it ended, the error for
// failed jobs, and how many raster bytes actually reached the device.
type Outcome struct {
	Status    Status
	Err       error // nil unless Status is StatusFailed
	BytesSent int   // raster payload bytes written, partial writes included
}

// Job is a single in-flight print. Cancel may be called from any
// goroutine, any number of times; once the job finishes Done is
// closed and Outcome returns the result.
type Job struct {
	canceled atomic.Bool
	done     chan struct{}
	outcome  Outcome // written once, before done is closed
}

// Cancel requests the job stop at the next chunk boundary. The flag
// only ever goes one way: a canceled job never resumes, and chunks
// already handed to the device still print.
func (j *Job) Cancel() {
	j.canceled.Store(true)
}

// Done is closed after the port is closed and the outcome recorded.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Outcome reports the result. Valid only after Done is closed.
func (j *Job) Outcome() Outcome {
	return j.outcome
}
