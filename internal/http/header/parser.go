package header

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
)

const (
	MaxLineBytes = 64 << 10
	MaxHeadBytes = 1 << 20
)

var ErrHeaderTooLarge = errors.New("request header too large")

func setRemainingHeaders(remaining []byte, header *requestHeader) {
	for len(remaining) > 0 {
		lineEnd := bytes.Index(remaining, []byte("\r\n"))
		if lineEnd == -1 {
			lineEnd = len(remaining)
		}

		line := remaining[:lineEnd]
		if len(line) == 0 {
			break
		}

		header.addLine(line)

		if lineEnd == len(remaining) {
			break
		}
		remaining = remaining[lineEnd+2:]
	}
}

func (req *requestHeader) addLine(line []byte) {
	colonIdx := bytes.IndexByte(line, ':')
	if colonIdx == -1 {
		return
	}
	key := bytes.TrimSpace(line[:colonIdx])
	value := bytes.TrimSpace(line[colonIdx+1:])
	req.raw = append(req.raw, string(key), string(value))
}

func parseHeadersFromBytes(headerData []byte) (RequestHeader, error) {
	header := &requestHeader{
		raw: make([]string, 0, 32),
	}

	lineEnd := bytes.Index(headerData, []byte("\r\n"))
	if lineEnd == -1 {
		return nil, fmt.Errorf("invalid request: no CRLF found in start line")
	}

	header.startLine = headerData[:lineEnd]
	var err error
	header.method, header.path, header.version, err = parseStartLine(header.startLine)
	if err != nil {
		return nil, err
	}

	setRemainingHeaders(headerData[lineEnd+2:], header)
	return header, nil
}

func parseStartLine(startLine []byte) (method, path, version string, err error) {
	firstSpace := bytes.IndexByte(startLine, ' ')
	if firstSpace == -1 {
		return "", "", "", fmt.Errorf("invalid start line: missing method")
	}

	secondSpace := bytes.IndexByte(startLine[firstSpace+1:], ' ')
	if secondSpace == -1 {
		return "", "", "", fmt.Errorf("invalid start line: missing version")
	}
	secondSpace += firstSpace + 1

	method = string(startLine[:firstSpace])
	path = string(startLine[firstSpace+1 : secondSpace])
	version = string(startLine[secondSpace+1:])

	return method, path, version, nil
}

// readLine returns the next line without its line ending. A line longer
// than limit fails with ErrHeaderTooLarge.
func readLine(br *bufio.Reader, limit int) ([]byte, error) {
	line, err := br.ReadSlice('\n')
	if err == bufio.ErrBufferFull {
		buf := append([]byte(nil), line...)
		for err == bufio.ErrBufferFull {
			if len(buf) > limit {
				return nil, ErrHeaderTooLarge
			}
			line, err = br.ReadSlice('\n')
			buf = append(buf, line...)
		}
		line = buf
	}
	if err != nil {
		return nil, err
	}
	line = bytes.TrimRight(line, "\r\n")
	if len(line) > limit {
		return nil, ErrHeaderTooLarge
	}
	return line, nil
}

func parseHeadersFromReader(br *bufio.Reader) (RequestHeader, error) {
	header := &requestHeader{
		raw: make([]string, 0, 32),
	}
	budget := MaxHeadBytes

	startLineBytes, err := readLine(br, min(MaxLineBytes, budget))
	if err != nil {
		return nil, err
	}
	budget -= len(startLineBytes)

	header.startLine = make([]byte, len(startLineBytes))
	copy(header.startLine, startLineBytes)

	header.method, header.path, header.version, err = parseStartLine(header.startLine)
	if err != nil {
		return nil, err
	}

	for {
		lineBytes, err := readLine(br, min(MaxLineBytes, budget))
		if err != nil {
			return nil, err
		}

		if len(lineBytes) == 0 {
			break
		}
		budget -= len(lineBytes)

		header.addLine(lineBytes)
	}

	return header, nil
}

func finalize(startLine []byte, fields [][2]string) []byte {
	size := len(startLine) + 2
	for _, f := range fields {
		size += len(f[0]) + 2 + len(f[1]) + 2
	}
	size += 2

	buf := make([]byte, 0, size)
	buf = append(buf, startLine...)
	buf = append(buf, '\r', '\n')

	for _, f := range fields {
		buf = append(buf, f[0]...)
		buf = append(buf, ':', ' ')
		buf = append(buf, f[1]...)
		buf = append(buf, '\r', '\n')
	}

	buf = append(buf, '\r', '\n')
	return buf
}
