package fetch

import (
	"context"
	"fmt"
	"net/http"

	"fetch_server/internal/headers"
	"fetch_server/internal/middleware"

	"go.uber.org/zap"
)

var internalErrorBody = []byte("Internal server error\n")
var badRequestBody = []byte("Bad Request\n")

// Server drives one Handler over any number of independent exchanges.
type Server struct {
	handler Handler
	logger  *zap.Logger
	reqMW   []middleware.RequestMiddleware
	respMW  []middleware.ResponseMiddleware
}

func NewServer(handler Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		handler: handler,
		logger:  logger,
	}
}

func (s *Server) UseRequestMiddleware(mw middleware.RequestMiddleware) {
	s.reqMW = append(s.reqMW, mw)
}

func (s *Server) UseResponseMiddleware(mw middleware.ResponseMiddleware) {
	s.respMW = append(s.respMW, mw)
}

// Serve runs the handler for one exchange and finalizes out. Errors are
// logged; when nothing has been sent yet they become a 500 response.
func (s *Server) Serve(ctx context.Context, in Incoming, out ResponseSink) {
	h := headers.FromRaw(in.RawHeaders())
	for _, mw := range s.reqMW {
		if err := mw.HandleRequest(h, in.RemoteAddr()); err != nil {
			s.logger.Error("request middleware failed", zap.Error(err))
			s.writeError(out, http.StatusInternalServerError, internalErrorBody)
			return
		}
	}

	req, err := newRequest(ctx, in, h)
	if err != nil {
		s.logger.Warn("rejecting request", zap.String("path", in.Path()), zap.Error(err))
		s.writeError(out, http.StatusBadRequest, badRequestBody)
		return
	}

	fields := []zap.Field{zap.String("method", req.Method()), zap.String("url", req.URL().String())}
	if id := h.Value(middleware.RequestIDHeader); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	logger := s.logger.With(fields...)
	logger.Debug("handling request")

	c := &conn{ctx: ctx, sink: out, middlewares: s.respMW}
	res := newBoundResponse(c)

	final, err := s.invoke(ctx, req, res)
	if err == nil {
		if final == nil {
			final = res
		}
		final.conn = c
		err = final.Send()
	}
	if err == nil {
		return
	}

	if out.HeadersSent() {
		logger.Error("request failed after response was sent", zap.Error(err))
		return
	}
	logger.Error("request failed", zap.Error(err))
	s.writeError(out, http.StatusInternalServerError, internalErrorBody)
}

func (s *Server) invoke(ctx context.Context, req *Request, res *Response) (final *Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("handler panic: %v", p)
		}
	}()
	return s.handler.ServeFetch(ctx, req, res)
}

func (s *Server) writeError(out ResponseSink, status int, body []byte) {
	fields := []headers.Entry{{Name: "content-type", Value: defaultTextType}}
	if err := out.WriteHead(status, http.StatusText(status), fields); err != nil {
		s.logger.Error("failed to write error response", zap.Error(err))
		return
	}
	if err := out.End(body); err != nil {
		s.logger.Error("failed to write error response", zap.Error(err))
	}
}
