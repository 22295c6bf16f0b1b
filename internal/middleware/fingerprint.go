package middleware

import (
	"fetch_server/internal/headers"
)

// Fingerprint sets the Server header unless the handler already chose one.
type Fingerprint struct {
	name string
}

func NewFingerprint(name string) *Fingerprint {
	return &Fingerprint{name: name}
}

func (f *Fingerprint) HandleResponse(header *headers.Headers) error {
	if f.name == "" {
		return nil
	}
	exists, err := header.Has("Server")
	if err != nil || exists {
		return err
	}
	return header.Set("Server", f.name)
}
