package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyDataset is the only error that aborts a run: producing no accepted
// universities at all is never a successful outcome.
var ErrEmptyDataset = errors.New("no universities survived extraction and validation")

// TransportError is a transient fetch failure that survived all retries.
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport: %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("transport: %s: status %d", e.URL, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BlockedError means the source actively refused automated access.
// It is not retried within the run; adapters degrade to partial results.
type BlockedError struct {
	URL    string
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("blocked: %s: %s", e.URL, e.Reason)
}

// IsBlocked reports whether err (anywhere in its chain) is a BlockedError.
func IsBlocked(err error) bool {
	var be *BlockedError
	return errors.As(err, &be)
}
