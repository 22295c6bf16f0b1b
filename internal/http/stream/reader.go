package stream

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strconv"
	"strings"
	"sync"

	"fetch_server/internal/http/header"
)

const DefaultBufferSize = 32 * 1024

var bufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, DefaultBufferSize)
		return &buf
	},
}

type readerSource struct {
	reader io.Reader
	buf    *[]byte
	err    error
}

// FromReader adapts r to a Source backed by a pooled buffer. The buffer is
// released, and r closed when it is an io.Closer, by Close.
func FromReader(r io.Reader) Source {
	return &readerSource{
		reader: r,
		buf:    bufferPool.Get().(*[]byte),
	}
}

func (rs *readerSource) Next() ([]byte, error) {
	if rs.err != nil {
		return nil, rs.err
	}
	if rs.buf == nil {
		return nil, io.ErrClosedPipe
	}

	for {
		n, err := rs.reader.Read(*rs.buf)
		if err != nil {
			rs.err = err
		}
		if n > 0 {
			return (*rs.buf)[:n], nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (rs *readerSource) Close() error {
	if rs.buf != nil {
		bufferPool.Put(rs.buf)
		rs.buf = nil
	}
	if closer, ok := rs.reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

type chunksSource struct {
	chunks [][]byte
}

// FromChunks returns a Source yielding the given chunks in order.
func FromChunks(chunks ...[]byte) Source {
	return &chunksSource{chunks: chunks}
}

func (cs *chunksSource) Next() ([]byte, error) {
	if len(cs.chunks) == 0 {
		return nil, io.EOF
	}
	chunk := cs.chunks[0]
	cs.chunks = cs.chunks[1:]
	return chunk, nil
}

// NewBodyReader returns the request body that follows reqhf on br, framed by
// chunked transfer coding or Content-Length. Without either the body is
// empty.
func NewBodyReader(br *bufio.Reader, reqhf header.RequestHeader) (io.Reader, error) {
	if te := reqhf.Value("Transfer-Encoding"); te != "" {
		if !strings.EqualFold(strings.TrimSpace(lastToken(te)), "chunked") {
			return nil, fmt.Errorf("unsupported transfer encoding: %s", te)
		}
		return httputil.NewChunkedReader(br), nil
	}

	cl := strings.TrimSpace(reqhf.Value("Content-Length"))
	if cl == "" {
		return http.NoBody, nil
	}
	length, err := strconv.ParseInt(cl, 10, 64)
	if err != nil || length < 0 {
		return nil, fmt.Errorf("invalid content length: %q", cl)
	}
	if length == 0 {
		return http.NoBody, nil
	}
	return &lengthReader{reader: br, remaining: length}, nil
}

// lengthReader stops after the declared length and reports a connection
// that ends early as io.ErrUnexpectedEOF.
type lengthReader struct {
	reader    io.Reader
	remaining int64
}

func (lr *lengthReader) Read(p []byte) (int, error) {
	if lr.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > lr.remaining {
		p = p[:lr.remaining]
	}
	n, err := lr.reader.Read(p)
	lr.remaining -= int64(n)
	if err == io.EOF && lr.remaining > 0 {
		err = io.ErrUnexpectedEOF
	}
	return n, err
}

func lastToken(list string) string {
	if i := strings.LastIndexByte(list, ','); i != -1 {
		return list[i+1:]
	}
	return list
}
