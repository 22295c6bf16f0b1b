package stream

import (
	"bufio"
	"errors"
	"io"
	"net/http/httputil"
	"strconv"

	"fetch_server/internal/headers"
	"fetch_server/internal/http/header"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	ErrHeadersSent = errors.New("response head already written")
	ErrClosed      = errors.New("response already closed")
)

// ResponseWriter is a Sink over a client connection. WriteHead commits the
// status and header lines; they are transmitted with the first body write.
type ResponseWriter interface {
	Sink
	Flusher
	HeadersSent() bool
	WriteHead(status int, statusText string, fields []headers.Entry) error
}

type responseWriter struct {
	conn       io.WriteCloser
	writer     *bufio.Writer
	logger     *zap.Logger
	omitBody   bool
	respHeader header.ResponseHeader
	wroteHead  bool
	chunked    bool
	body       io.WriteCloser
	closed     bool
}

// NewResponseWriter returns a ResponseWriter writing to conn through a
// buffer of size bytes. With omitBody, as for HEAD requests, body bytes are
// accepted and discarded.
func NewResponseWriter(conn io.WriteCloser, size int, omitBody bool, logger *zap.Logger) ResponseWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &responseWriter{
		conn:     conn,
		writer:   bufio.NewWriterSize(conn, size),
		logger:   logger,
		omitBody: omitBody,
	}
}

func (rw *responseWriter) HeadersSent() bool {
	return rw.respHeader != nil
}

func (rw *responseWriter) WriteHead(status int, statusText string, fields []headers.Entry) error {
	if rw.closed {
		return ErrClosed
	}
	if rw.respHeader != nil {
		return ErrHeadersSent
	}

	resphf := header.NewResponse(status, statusText)
	for _, f := range fields {
		resphf.Add(f.Name, f.Value)
	}
	resphf.Set("connection", "close")
	rw.respHeader = resphf
	return nil
}

func (rw *responseWriter) Write(p []byte) (int, error) {
	if rw.closed {
		return 0, ErrClosed
	}
	if err := rw.writeHead(false, 0); err != nil {
		return 0, err
	}
	if rw.omitBody || !bodyAllowed(rw.respHeader.StatusCode()) {
		return len(p), nil
	}
	return rw.body.Write(p)
}

func (rw *responseWriter) Flush() error {
	if rw.closed {
		return ErrClosed
	}
	return rw.writer.Flush()
}

func (rw *responseWriter) End(p []byte) error {
	if rw.closed {
		return nil
	}

	var err error
	if !rw.wroteHead {
		err = rw.writeHead(true, len(p))
	}
	if err == nil && len(p) > 0 {
		_, err = rw.Write(p)
	}
	if err == nil && rw.chunked {
		err = rw.finishChunked()
	}

	rw.closed = true
	err = multierr.Append(err, rw.writer.Flush())
	err = multierr.Append(err, closeWrite(rw.conn))
	return err
}

// closeWrite half-closes conn when it supports it so the peer sees the end of
// the response while unread request bytes can still be drained.
func closeWrite(conn io.WriteCloser) error {
	if closer, ok := conn.(interface{ CloseWrite() error }); ok {
		return closer.CloseWrite()
	}
	return conn.Close()
}

func (rw *responseWriter) Destroy(err error) {
	if rw.closed {
		return
	}
	rw.closed = true
	rw.logger.Debug("destroying response", zap.Error(err))
	if cerr := rw.conn.Close(); cerr != nil {
		rw.logger.Debug("failed to close destroyed response", zap.Error(cerr))
	}
}

// writeHead transmits the committed head. Transfer-Encoding is always chosen
// here. A final write gets a Content-Length of its payload; otherwise the body
// is sent with chunked coding unless the handler declared a Content-Length.
func (rw *responseWriter) writeHead(final bool, length int) error {
	if rw.wroteHead {
		return nil
	}
	if rw.respHeader == nil {
		if err := rw.WriteHead(200, "OK", nil); err != nil {
			return err
		}
	}

	rw.body = nopWriteCloser{rw.writer}
	rw.respHeader.Remove("transfer-encoding")
	if bodyAllowed(rw.respHeader.StatusCode()) {
		switch {
		case final:
			rw.respHeader.Set("content-length", strconv.Itoa(length))
		case rw.respHeader.Value("content-length") == "":
			rw.respHeader.Set("transfer-encoding", "chunked")
			rw.chunked = true
			rw.body = httputil.NewChunkedWriter(rw.writer)
		}
	}

	rw.wroteHead = true
	_, err := rw.writer.Write(rw.respHeader.Finalize())
	return err
}

func (rw *responseWriter) finishChunked() error {
	if rw.omitBody {
		return nil
	}
	if err := rw.body.Close(); err != nil {
		return err
	}
	_, err := rw.writer.WriteString("\r\n")
	return err
}

func bodyAllowed(status int) bool {
	return status >= 200 && status != 204 && status != 304
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
