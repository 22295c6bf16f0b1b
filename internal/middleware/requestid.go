package middleware

import (
	"net"

	"fetch_server/internal/headers"
	"fetch_server/internal/random"
)

const RequestIDHeader = "x-request-id"

// RequestID tags requests that arrive without an x-request-id.
type RequestID struct {
	ids random.IDGenerator
}

func NewRequestID(ids random.IDGenerator) *RequestID {
	return &RequestID{ids: ids}
}

func (ri *RequestID) HandleRequest(header *headers.Headers, _ net.Addr) error {
	if header.Value(RequestIDHeader) != "" {
		return nil
	}
	id, err := ri.ids.ID()
	if err != nil {
		return err
	}
	return header.Set(RequestIDHeader, id)
}
