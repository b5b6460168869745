package domain

import "errors"

var (
	ErrMissingInput     = errors.New("missing input")
	ErrEncodingFailed   = errors.New("encoding failed")
	ErrPolicyBlocked    = errors.New("policy blocked")
	ErrNoImageReturned  = errors.New("no image returned")
	ErrGenerationFailed = errors.New("generation failed")
	ErrInFlight         = errors.New("generation already in flight")
	ErrInvalidSlot      = errors.New("invalid subject slot")
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrSessionClosed    = errors.New("session closed")
	ErrUploadTooLarge   = errors.New("upload too large")
)

// Error carries a user-facing message next to its taxonomy kind. errors.Is
// matches the kind, errors.Unwrap exposes the underlying cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Kind.Error() + ": " + e.Err.Error()
	}
	return e.Kind.Error()
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error whose message comes from the catalogue for locale.
func NewError(kind error, locale string, cause error) *Error {
	return &Error{Kind: kind, Message: Message(kind, locale), Err: cause}
}

// Kind returns the taxonomy sentinel matching err, or nil when err is not
// part of the taxonomy.
func Kind(err error) error {
	for _, k := range []error{
		ErrMissingInput,
		ErrEncodingFailed,
		ErrPolicyBlocked,
		ErrNoImageReturned,
		ErrGenerationFailed,
		ErrInFlight,
		ErrInvalidSlot,
		ErrUnsupportedMedia,
		ErrSessionClosed,
		ErrUploadTooLarge,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
