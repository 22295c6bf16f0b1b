package middleware

import (
	"net"

	"fetch_server/internal/headers"
)

// ForwardedFor appends the peer host to X-Forwarded-For.
type ForwardedFor struct{}

func NewForwardedFor() *ForwardedFor {
	return &ForwardedFor{}
}

func (ff *ForwardedFor) HandleRequest(header *headers.Headers, remoteAddr net.Addr) error {
	if remoteAddr == nil {
		return nil
	}
	host, _, err := net.SplitHostPort(remoteAddr.String())
	if err != nil {
		return err
	}
	return header.Append("X-Forwarded-For", host)
}
