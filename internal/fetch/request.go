package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"fetch_server/internal/headers"

	"golang.org/x/text/encoding"
)

// Request is the immutable view of an inbound request.
type Request struct {
	ctx        context.Context
	method     string
	url        *url.URL
	headers    *headers.Headers
	remoteAddr net.Addr
	body       *body
}

// NewRequest ingests the raw header lines of in and builds a Request.
func NewRequest(ctx context.Context, in Incoming) (*Request, error) {
	return newRequest(ctx, in, headers.FromRaw(in.RawHeaders()))
}

func newRequest(ctx context.Context, in Incoming, h *headers.Headers) (*Request, error) {
	method := strings.ToUpper(in.Method())
	if method == "" {
		method = http.MethodGet
	}

	u, err := resolveURL(in.Path(), h)
	if err != nil {
		return nil, err
	}

	req := &Request{
		ctx:        ctx,
		method:     method,
		url:        u,
		headers:    h,
		remoteAddr: in.RemoteAddr(),
	}
	if method != http.MethodGet && method != http.MethodHead {
		if r := in.Body(); r != nil {
			req.body = &body{reader: r}
		}
	}
	return req, nil
}

// resolveURL rebuilds the absolute request URL. Forwarding headers are taken
// at face value; they are not a trust boundary.
func resolveURL(path string, h *headers.Headers) (*url.URL, error) {
	proto := firstElement(h.Value("x-forwarded-proto"))
	if proto == "" {
		proto = "http"
	}

	host := firstElement(h.Value("x-forwarded-host"))
	if host == "" {
		host = firstElement(h.Value("host"))
	}
	if host == "" {
		host = "localhost"
	}
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}

	base, err := url.Parse(proto + "://" + host)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	if path == "" {
		path = "/"
	}
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid request target: %w", err)
	}
	return base.ResolveReference(ref), nil
}

func firstElement(list string) string {
	if i := strings.IndexByte(list, ','); i != -1 {
		list = list[:i]
	}
	return strings.TrimSpace(list)
}

func (r *Request) Context() context.Context {
	return r.ctx
}

func (r *Request) Method() string {
	return r.method
}

// URL returns a copy of the resolved request URL.
func (r *Request) URL() *url.URL {
	u := *r.url
	return &u
}

func (r *Request) Headers() *headers.Headers {
	return r.headers
}

func (r *Request) RemoteAddr() net.Addr {
	return r.remoteAddr
}

// Body returns the request body stream, or nil for GET and HEAD requests.
// The stream can be consumed once.
func (r *Request) Body() io.Reader {
	if r.body == nil {
		return nil
	}
	return r.body
}

// Buffer drains the body into memory. It fails if the body stream fails
// before its end; once drained, later calls return an empty slice.
func (r *Request) Buffer() ([]byte, error) {
	if r.body == nil {
		return []byte{}, nil
	}
	data, err := io.ReadAll(r.body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

func (r *Request) Text() (string, error) {
	data, err := r.Buffer()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// TextEncoding decodes the body from enc into UTF-8.
func (r *Request) TextEncoding(enc encoding.Encoding) (string, error) {
	data, err := r.Buffer()
	if err != nil {
		return "", err
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	return string(decoded), nil
}

// JSON decodes the body into v. An empty body leaves v untouched.
func (r *Request) JSON(v any) error {
	data, err := r.Buffer()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse json body: %w", err)
	}
	return nil
}

type body struct {
	reader io.Reader
	done   bool
}

func (b *body) Read(p []byte) (int, error) {
	if b.done {
		return 0, io.EOF
	}
	n, err := b.reader.Read(p)
	if err != nil {
		b.done = true
	}
	return n, err
}
