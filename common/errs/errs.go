package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("Not Found")
	// InvalidArgument is returned when input is malformed or out of range.
	InvalidArgument = ErrorKind("Invalid Argument")
	// Unsupported is returned when a feature or value is not supported.
	Unsupported = ErrorKind("Unsupported")
	// ConflictSetting is returned when persisted settings disagree with the running build.
	ConflictSetting = ErrorKind("Conflict Setting")
	// Timeout is returned when an operation exceeds its deadline.
	Timeout = ErrorKind("Timeout")
	// Closed is returned when operating on a closed resource.
	Closed = ErrorKind("Closed")
	// InternalError is returned when an invariant of the program itself breaks.
	InternalError = ErrorKind("Internal Error")
	// SomethingWentWrong is a generic error for unexpected failures.
	SomethingWentWrong = ErrorKind("Something Went Wrong")

	// OrderingViolation is returned when transactions reach the engine out of (lt, hash) order.
	OrderingViolation = ErrorKind("Ordering Violation")
	// CodecError is returned when snapshot bytes can't be decoded or don't round-trip.
	CodecError = ErrorKind("Codec Error")
	// PersistenceError is returned when a commit can't be made durable.
	PersistenceError = ErrorKind("Persistence Error")
	// Overflow is returned when 256-bit arithmetic would wrap.
	Overflow = ErrorKind("Overflow")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
