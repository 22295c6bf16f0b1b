package middleware

import (
	"net"

	"fetch_server/internal/headers"
)

type RequestMiddleware interface {
	HandleRequest(header *headers.Headers, remoteAddr net.Addr) error
}

type ResponseMiddleware interface {
	HandleResponse(header *headers.Headers) error
}
