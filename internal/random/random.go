package random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

const idBytes = 8

var ErrShortRead = fmt.Errorf("short read from entropy source")

// IDGenerator produces opaque identifiers for correlating log lines.
type IDGenerator interface {
	ID() (string, error)
}

type generator struct {
	reader io.Reader
}

func New() IDGenerator {
	return &generator{reader: rand.Reader}
}

func NewFromReader(r io.Reader) IDGenerator {
	return &generator{reader: r}
}

// ID returns 16 lower-case hex characters.
func (g *generator) ID() (string, error) {
	b := make([]byte, idBytes)
	n, err := io.ReadFull(g.reader, b)
	if err != nil {
		if n > 0 {
			return "", fmt.Errorf("%w: %w", ErrShortRead, err)
		}
		return "", err
	}
	return hex.EncodeToString(b), nil
}
