package pkguid

import "github.com/google/uuid"

// StringID generates opaque string identifiers, used for request correlation.
type StringID interface {
	Generate() string
}

type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

func (u *UUID) Generate() string {
	return uuid.NewString()
}
