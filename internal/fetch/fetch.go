// Package fetch adapts a raw HTTP exchange to Fetch-shaped values: an
// immutable Request handed to a handler, and a Response that is written back
// to the connection exactly once.
package fetch

import (
	"context"
	"io"
	"net"

	"fetch_server/internal/headers"
	"fetch_server/internal/http/stream"
)

// Incoming describes a request as read off the wire. RawHeaders holds name,
// value, name, value, ... in arrival order with original casing.
type Incoming interface {
	Method() string
	Path() string
	RawHeaders() []string
	Body() io.Reader
	RemoteAddr() net.Addr
}

// ResponseSink is where a Response is serialized. HeadersSent reports whether
// a status line has already been committed.
type ResponseSink interface {
	stream.Sink
	HeadersSent() bool
	WriteHead(status int, statusText string, fields []headers.Entry) error
}

// Handler serves one request. It either mutates res and returns nil, or
// returns a replacement Response.
type Handler interface {
	ServeFetch(ctx context.Context, req *Request, res *Response) (*Response, error)
}

type HandlerFunc func(ctx context.Context, req *Request, res *Response) (*Response, error)

func (f HandlerFunc) ServeFetch(ctx context.Context, req *Request, res *Response) (*Response, error) {
	return f(ctx, req, res)
}
