package priority

import "strconv"

// ErrorKind classifies the ways a priority tree operation can fail
// (RFC 7540 §5.3 gives the dependency semantics; the kinds below are the
// taxonomy this package enforces on top of it).
type ErrorKind uint8

const (
	// ErrDuplicateStream means insertion named an id already present in the tree.
	ErrDuplicateStream ErrorKind = iota
	// ErrMissingStream means an operation named an id that does not exist.
	ErrMissingStream
	// ErrTooManyStreams means insertion would exceed the configured cap.
	ErrTooManyStreams
	// ErrBadWeight means weight was not an integer in [1,256].
	ErrBadWeight
	// ErrPseudoStream means an operation named the synthetic root (id 0),
	// which no public mutation or accessor accepts.
	ErrPseudoStream
	// ErrPriorityLoop means a stream would become its own ancestor.
	ErrPriorityLoop
	// ErrBadTreeConfig means the tree was constructed with a non-positive cap.
	ErrBadTreeConfig
	// ErrDeadlock means the iterator was asked for a stream but none is active.
	ErrDeadlock
)

func (k ErrorKind) String() string {
	switch k {
	case ErrDuplicateStream:
		return "DuplicateStream"
	case ErrMissingStream:
		return "MissingStream"
	case ErrTooManyStreams:
		return "TooManyStreams"
	case ErrBadWeight:
		return "BadWeight"
	case ErrPseudoStream:
		return "PseudoStreamError"
	case ErrPriorityLoop:
		return "PriorityLoop"
	case ErrBadTreeConfig:
		return "BadTreeConfig"
	case ErrDeadlock:
		return "Deadlock"
	default:
		return "Unknown"
	}
}

// TreeError is the single error type every fallible operation in this
// package returns. StreamID is 0 when the error isn't about a specific
// stream (e.g. ErrBadTreeConfig).
type TreeError struct {
	Kind     ErrorKind
	StreamID uint32
	Err      error
}

func (e *TreeError) Error() string {
	if e.Kind == ErrBadTreeConfig || e.Kind == ErrDeadlock {
		if e.Err != nil {
			return "priority: " + e.Kind.String() + ": " + e.Err.Error()
		}
		return "priority: " + e.Kind.String()
	}
	id := strconv.FormatUint(uint64(e.StreamID), 10)
	if e.Err != nil {
		return "priority: " + e.Kind.String() + ": stream " + id + ": " + e.Err.Error()
	}
	return "priority: " + e.Kind.String() + ": stream " + id
}

func (e *TreeError) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, streamID uint32) error {
	return &TreeError{Kind: kind, StreamID: streamID}
}
