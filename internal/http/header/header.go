package header

// RequestHeader is a parsed HTTP/1.x request head. Header lines are kept in
// wire order with their original casing and duplicates.
type RequestHeader interface {
	Method() string
	Path() string
	Version() string
	RawHeaders() []string
	Value(key string) string
}

type requestHeader struct {
	method    string
	path      string
	version   string
	startLine []byte
	raw       []string
}

// ResponseHeader collects a status line and header lines for serialization.
type ResponseHeader interface {
	Value(key string) string
	Set(key string, value string)
	Add(key string, value string)
	Remove(key string)
	StatusCode() int
	Finalize() []byte
}

type responseHeader struct {
	status    int
	startLine []byte
	fields    [][2]string
}
