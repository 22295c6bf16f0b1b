// Package stream moves bytes between pull-based body sources and push-based
// response sinks, and provides the connection-backed sink and body reader
// used by the transport.
package stream

import (
	"context"
	"errors"
	"io"
)

// Source yields a body one chunk at a time. Next returns io.EOF once the body
// is exhausted. A returned chunk is only valid until the following call.
type Source interface {
	Next() ([]byte, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() ([]byte, error)

func (f SourceFunc) Next() ([]byte, error) { return f() }

// Sink receives a body. End writes a final payload and closes the sink;
// Destroy aborts it with an error.
type Sink interface {
	io.Writer
	End(p []byte) error
	Destroy(err error)
}

// Flusher is implemented by sinks that buffer writes.
type Flusher interface {
	Flush() error
}

// Pump copies src into dst one chunk at a time: a chunk is read only after
// the previous one has been written and flushed. At the end of src the sink
// is ended. Any read, write or context error destroys the sink and is
// returned.
func Pump(ctx context.Context, src Source, dst Sink) error {
	defer closeSource(src)

	flusher, _ := dst.(Flusher)
	for {
		if err := ctx.Err(); err != nil {
			dst.Destroy(err)
			return err
		}

		chunk, err := src.Next()
		if len(chunk) > 0 {
			if _, werr := dst.Write(chunk); werr != nil {
				dst.Destroy(werr)
				return werr
			}
			if flusher != nil {
				if ferr := flusher.Flush(); ferr != nil {
					dst.Destroy(ferr)
					return ferr
				}
			}
		}

		if errors.Is(err, io.EOF) {
			return dst.End(nil)
		}
		if err != nil {
			dst.Destroy(err)
			return err
		}
	}
}

func closeSource(src Source) {
	if closer, ok := src.(io.Closer); ok {
		_ = closer.Close()
	}
}
