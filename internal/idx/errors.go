package idx

import "errors"

var (
	// ErrExhausted is returned by Next once every declared record has been
	// decoded. It is the designed termination condition, not a fault.
	ErrExhausted = errors.New("dataset exhausted")

	// ErrTruncated is returned when a stream runs dry before a full record
	// (or the header) could be read.
	ErrTruncated = errors.New("truncated IDX file")
)
