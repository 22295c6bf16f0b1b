package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"fetch_server/internal/headers"
	"fetch_server/internal/http/stream"
	"fetch_server/internal/middleware"
)

const (
	defaultTextType = "text/plain; charset=utf8"
	defaultJSONType = "application/json; charset=utf8"
)

var (
	ErrUnbound       = errors.New("response is not bound to a connection")
	ErrInvalidStatus = errors.New("invalid status code")
)

// ResponseInit carries the optional parts of a handler-built Response.
// Headers accepts any init understood by headers.New.
type ResponseInit struct {
	Status     int
	StatusText string
	Headers    any
}

// Response is the outbound message. Body may be nil, a string, a []byte, a
// stream.Source, an io.Reader, or any other value, which is sent as JSON.
type Response struct {
	Status     int
	StatusText string
	Body       any

	headers *headers.Headers
	conn    *conn
}

// conn is the per-exchange state shared by every Response bound to the same
// sink. The sink is only written through, never owned.
type conn struct {
	ctx         context.Context
	sink        ResponseSink
	sent        atomic.Bool
	middlewares []middleware.ResponseMiddleware
}

// NewResponse builds a Response for a handler to return. init may be nil.
func NewResponse(body any, init *ResponseInit) (*Response, error) {
	if init == nil {
		init = &ResponseInit{}
	}

	status := init.Status
	if status == 0 {
		status = http.StatusOK
	}
	if status < 200 || status > 599 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, status)
	}

	h, err := headers.New(init.Headers)
	if err != nil {
		return nil, err
	}

	return &Response{
		Status:     status,
		StatusText: init.StatusText,
		Body:       body,
		headers:    h,
	}, nil
}

func newBoundResponse(c *conn) *Response {
	return &Response{
		Status:  http.StatusOK,
		headers: headers.Must(nil),
		conn:    c,
	}
}

// Headers returns the header list, creating it for a Response built as a
// struct literal.
func (r *Response) Headers() *headers.Headers {
	if r.headers == nil {
		r.headers = headers.Must(nil)
	}
	return r.headers
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status <= 299
}

// Sent reports whether the exchange this Response is bound to has been
// finalized.
func (r *Response) Sent() bool {
	return r.conn != nil && (r.conn.sent.Load() || r.conn.sink.HeadersSent())
}

// Send serializes the response onto its connection. Only the first Send of an
// exchange writes anything; later calls, from this Response or any other
// bound to the same exchange, return nil. A default content type is applied
// to string, byte and JSON bodies, never to streamed ones.
func (r *Response) Send() error {
	c := r.conn
	if c == nil {
		return ErrUnbound
	}
	if c.sink.HeadersSent() || !c.sent.CompareAndSwap(false, true) {
		return nil
	}

	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	if status < 100 || status > 999 {
		return fmt.Errorf("%w: %d", ErrInvalidStatus, status)
	}
	statusText := r.StatusText
	if statusText == "" {
		statusText = http.StatusText(status)
	}

	h := r.Headers().Clone()
	for _, mw := range c.middlewares {
		if err := mw.HandleResponse(h); err != nil {
			return fmt.Errorf("response middleware: %w", err)
		}
	}

	switch body := r.Body.(type) {
	case nil:
		if err := c.sink.WriteHead(status, statusText, fieldsOf(h)); err != nil {
			return err
		}
		return c.sink.End(nil)
	case string:
		return r.sendBuffered(h, status, statusText, []byte(body), defaultTextType)
	case []byte:
		return r.sendBuffered(h, status, statusText, body, defaultTextType)
	case stream.Source:
		return r.sendStream(h, status, statusText, body)
	case io.Reader:
		return r.sendStream(h, status, statusText, stream.FromReader(body))
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode json body: %w", err)
		}
		return r.sendBuffered(h, status, statusText, data, defaultJSONType)
	}
}

func (r *Response) sendBuffered(h *headers.Headers, status int, statusText string, data []byte, contentType string) error {
	if exists, _ := h.Has("content-type"); !exists {
		if err := h.Set("content-type", contentType); err != nil {
			return err
		}
	}
	if err := r.conn.sink.WriteHead(status, statusText, fieldsOf(h)); err != nil {
		return err
	}
	return r.conn.sink.End(data)
}

func (r *Response) sendStream(h *headers.Headers, status int, statusText string, src stream.Source) error {
	if err := r.conn.sink.WriteHead(status, statusText, fieldsOf(h)); err != nil {
		return err
	}
	return stream.Pump(r.conn.ctx, src, r.conn.sink)
}

// fieldsOf lists header lines in sorted name order. Set-Cookie values cannot
// be joined, so each gets its own line.
func fieldsOf(h *headers.Headers) []headers.Entry {
	fields := make([]headers.Entry, 0, h.Len())
	for _, name := range h.Keys() {
		if name == "set-cookie" {
			values, _ := h.GetAll(name)
			for _, v := range values {
				fields = append(fields, headers.Entry{Name: name, Value: v})
			}
			continue
		}
		fields = append(fields, headers.Entry{Name: name, Value: h.Value(name)})
	}
	return fields
}
