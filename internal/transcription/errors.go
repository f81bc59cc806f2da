package transcription

import (
	"fmt"
	"time"
)

// VendorError is a non-success HTTP response from the transcription service
type VendorError struct {
	Operation  string // "upload", "submit", "poll"
	StatusCode int
	Body       string
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("transcription service %s failed: http %d: %s", e.Operation, e.StatusCode, e.Body)
}

// JobError is a remote job that reached the terminal error state
type JobError struct {
	JobID   string
	Message string
}

func (e *JobError) Error() string {
	return fmt.Sprintf("transcription job %s failed: %s", e.JobID, e.Message)
}

// TimeoutError is a job that did not reach a terminal state within the
// configured polling bound
type TimeoutError struct {
	JobID    string
	Attempts int
	Elapsed  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("transcription job %s did not complete after %d polls (%s)", e.JobID, e.Attempts, e.Elapsed)
}
