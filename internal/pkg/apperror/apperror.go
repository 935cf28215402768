package apperror

// Kind classifies a failure for logging and remediation purposes.
type Kind string

const (
	// KindUnavailable marks transient transport failures against the calendar
	// or the issue tracker. Safe to retry.
	KindUnavailable Kind = "unavailable"
	// KindSlotGone marks a chosen slot that vanished or was booked by someone
	// else between listing and committing. The user must re-select.
	KindSlotGone Kind = "slot_gone"
	// KindDispatchFailed marks a confirmation email that could not be sent
	// after the reservation was already committed. Never rolled back.
	KindDispatchFailed Kind = "dispatch_failed"
	// KindInvalid marks rejected user input.
	KindInvalid Kind = "invalid"
)

// AppError is a custom error type that includes an HTTP status code, a failure
// kind and an optional underlying error.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 409)
	Kind    Kind   // Failure classification
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code, kind and message.
func New(code int, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}
