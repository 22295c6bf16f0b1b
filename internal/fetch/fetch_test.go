package fetch

import (
	"io"
	"net"
	"strings"

	"fetch_server/internal/headers"
)

type fakeIncoming struct {
	method string
	path   string
	raw    []string
	body   io.Reader
	addr   net.Addr
}

func (f *fakeIncoming) Method() string       { return f.method }
func (f *fakeIncoming) Path() string         { return f.path }
func (f *fakeIncoming) RawHeaders() []string { return f.raw }
func (f *fakeIncoming) Body() io.Reader      { return f.body }
func (f *fakeIncoming) RemoteAddr() net.Addr { return f.addr }

type recordingSink struct {
	headSent   bool
	heads      int
	status     int
	statusText string
	fields     []headers.Entry
	writes     []string
	flushes    int
	ended      int
	endPayload string
	destroyed  error
}

func (s *recordingSink) HeadersSent() bool { return s.headSent }

func (s *recordingSink) WriteHead(status int, statusText string, fields []headers.Entry) error {
	s.heads++
	s.headSent = true
	s.status = status
	s.statusText = statusText
	s.fields = fields
	return nil
}

func (s *recordingSink) Write(p []byte) (int, error) {
	s.writes = append(s.writes, string(p))
	return len(p), nil
}

func (s *recordingSink) Flush() error {
	s.flushes++
	return nil
}

func (s *recordingSink) End(p []byte) error {
	s.ended++
	s.endPayload = string(p)
	return nil
}

func (s *recordingSink) Destroy(err error) {
	s.destroyed = err
}

func (s *recordingSink) field(name string) string {
	var values []string
	for _, f := range s.fields {
		if f.Name == name {
			values = append(values, f.Value)
		}
	}
	return strings.Join(values, "|")
}
