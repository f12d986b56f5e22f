package library

// Result is the outcome of a mutating Library operation. Failures are
// reported here instead of as a returned error so callers can print Message
// and carry on; Err keeps the category for errors.Is.
type Result[T any] struct {
	OK      bool
	Message string
	Data    T
	Err     error
}

// Success builds a successful Result carrying data.
func Success[T any](message string, data T) Result[T] {
	if message == "" {
		message = "Operation completed successfully"
	}
	return Result[T]{OK: true, Message: message, Data: data}
}

// Failure builds a failed Result from err, using its text as the message.
func Failure[T any](err error) Result[T] {
	return Result[T]{Message: err.Error(), Err: err}
}
