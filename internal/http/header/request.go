package header

import (
	"bufio"
	"fmt"
	"strings"
)

func NewRequest(r interface{}) (RequestHeader, error) {
	switch v := r.(type) {
	case []byte:
		return parseHeadersFromBytes(v)
	case *bufio.Reader:
		return parseHeadersFromReader(v)
	default:
		return nil, fmt.Errorf("unsupported type: %T", r)
	}
}

// Value returns the first value sent under key, matched case-insensitively.
func (req *requestHeader) Value(key string) string {
	for i := 0; i+1 < len(req.raw); i += 2 {
		if strings.EqualFold(req.raw[i], key) {
			return req.raw[i+1]
		}
	}
	return ""
}

func (req *requestHeader) RawHeaders() []string {
	return req.raw
}

func (req *requestHeader) Method() string {
	return req.method
}

func (req *requestHeader) Path() string {
	return req.path
}

func (req *requestHeader) Version() string {
	return req.version
}
