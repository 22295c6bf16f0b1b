package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"fetch_server/internal/fetch"
	"fetch_server/internal/http/header"
	"fetch_server/internal/http/stream"

	"go.uber.org/zap"
)

const (
	lingerTimeout  = 500 * time.Millisecond
	maxLingerBytes = 256 << 10
)

type httpHandler struct {
	server     *fetch.Server
	bufferSize int
	logger     *zap.Logger
}

func newHTTPHandler(server *fetch.Server, bufferSize int, logger *zap.Logger) *httpHandler {
	if bufferSize <= 0 {
		bufferSize = stream.DefaultBufferSize
	}
	return &httpHandler{
		server:     server,
		bufferSize: bufferSize,
		logger:     logger,
	}
}

// incoming is one parsed request read off a connection.
type incoming struct {
	header.RequestHeader
	body       io.Reader
	remoteAddr net.Addr
}

func (in *incoming) Body() io.Reader {
	return in.body
}

func (in *incoming) RemoteAddr() net.Addr {
	return in.remoteAddr
}

func (hh *httpHandler) rejectRequest(conn net.Conn, status int) error {
	line := fmt.Sprintf("HTTP/1.1 %d %s\r\nContent-Length: 0\r\nConnection: close\r\n\r\n", status, http.StatusText(status))
	if _, err := conn.Write([]byte(line)); err != nil {
		return err
	}
	return nil
}

func (hh *httpHandler) handler(conn net.Conn) {
	br := bufio.NewReaderSize(conn, hh.bufferSize)
	defer hh.closeConnection(conn, br)

	reqhf, err := header.NewRequest(br)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			hh.logger.Debug("error parsing request header", zap.Error(err))
			status := http.StatusBadRequest
			if errors.Is(err, header.ErrHeaderTooLarge) {
				status = http.StatusRequestHeaderFieldsTooLarge
			}
			_ = hh.rejectRequest(conn, status)
		}
		return
	}

	body, err := stream.NewBodyReader(br, reqhf)
	if err != nil {
		hh.logger.Debug("error framing request body", zap.Error(err))
		_ = hh.rejectRequest(conn, http.StatusBadRequest)
		return
	}

	in := &incoming{
		RequestHeader: reqhf,
		body:          body,
		remoteAddr:    conn.RemoteAddr(),
	}
	rw := stream.NewResponseWriter(conn, hh.bufferSize, reqhf.Method() == http.MethodHead, hh.logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if body == http.NoBody {
		stop := watchPeer(conn, cancel)
		defer stop()
	}
	hh.server.Serve(ctx, in, rw)
}

// watchPeer cancels the request context when the peer closes or resets the
// connection while the handler runs. It reads the connection directly, so it
// is only used once nothing more is expected from the request. stop unblocks
// the pending read and waits for it before the connection is drained.
func watchPeer(conn net.Conn, cancel context.CancelFunc) (stop func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		var b [1]byte
		if _, err := conn.Read(b[:]); err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
			cancel()
		}
	}()
	return func() {
		_ = conn.SetReadDeadline(time.Now())
		<-done
		_ = conn.SetReadDeadline(time.Time{})
	}
}

// closeConnection discards what the client is still sending before closing,
// so that unread input does not reset the connection under the response.
func (hh *httpHandler) closeConnection(conn net.Conn, br *bufio.Reader) {
	if err := conn.SetReadDeadline(time.Now().Add(lingerTimeout)); err == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(br, maxLingerBytes))
	}

	err := conn.Close()
	if err != nil && !errors.Is(err, net.ErrClosed) {
		hh.logger.Debug("error closing connection", zap.Error(err))
	}
}
