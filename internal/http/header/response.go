package header

import (
	"fmt"
	"strings"
)

func NewResponse(status int, statusText string) ResponseHeader {
	return &responseHeader{
		status:    status,
		startLine: []byte(fmt.Sprintf("HTTP/1.1 %03d %s", status, statusText)),
		fields:    make([][2]string, 0, 16),
	}
}

func (resp *responseHeader) Value(key string) string {
	for _, f := range resp.fields {
		if strings.EqualFold(f[0], key) {
			return f[1]
		}
	}
	return ""
}

// Set replaces every line sent under key with a single one.
func (resp *responseHeader) Set(key string, value string) {
	resp.Remove(key)
	resp.Add(key, value)
}

func (resp *responseHeader) Add(key string, value string) {
	resp.fields = append(resp.fields, [2]string{key, value})
}

func (resp *responseHeader) Remove(key string) {
	out := resp.fields[:0]
	for _, f := range resp.fields {
		if !strings.EqualFold(f[0], key) {
			out = append(out, f)
		}
	}
	resp.fields = out
}

func (resp *responseHeader) StatusCode() int {
	return resp.status
}

func (resp *responseHeader) Finalize() []byte {
	return finalize(resp.startLine, resp.fields)
}
