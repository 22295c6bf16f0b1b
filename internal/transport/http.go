package transport

import (
	"errors"
	"net"

	"fetch_server/internal/fetch"

	"go.uber.org/zap"
)

type httpServer struct {
	handler *httpHandler
	port    string
	logger  *zap.Logger
}

func NewHTTPServer(port string, server *fetch.Server, bufferSize int, logger *zap.Logger) Transport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &httpServer{
		handler: newHTTPHandler(server, bufferSize, logger),
		port:    port,
		logger:  logger,
	}
}

func (ht *httpServer) Listen() (net.Listener, error) {
	return net.Listen("tcp", ":"+ht.port)
}

func (ht *httpServer) Serve(listener net.Listener) error {
	ht.logger.Info("HTTP server is starting", zap.String("addr", listener.Addr().String()))
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			ht.logger.Warn("error accepting connection", zap.Error(err))
			continue
		}

		go ht.handler.handler(conn)
	}
}
