package pkgerror

import "errors"

type Code string

const (
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeNotFound        Code = "NOT_FOUND"
	CodeUnavailable     Code = "UNAVAILABLE"
	CodeInternal        Code = "INTERNAL"
)

// Business is an error carrying a machine-readable code, intended to cross the
// inbound boundary and be mapped to a transport status.
type Business struct {
	message string
	code    Code
}

func NewBusiness(message string, code Code) *Business {
	return &Business{message: message, code: code}
}

func (b *Business) Error() string {
	return b.message
}

func (b *Business) Code() Code {
	return b.code
}

// CodeOf extracts the business code from an error chain, CodeInternal when the
// chain carries none.
func CodeOf(err error) Code {
	var business *Business
	if errors.As(err, &business) {
		return business.Code()
	}
	return CodeInternal
}
