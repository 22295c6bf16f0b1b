package headers

import (
	"errors"
	"fmt"

	"golang.org/x/net/http/httpguts"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidChar   = errors.New("invalid header value")
	ErrMalformedPair = errors.New("malformed pair")
	ErrInvalidInit   = errors.New("invalid headers init")
)

var codes = map[error]string{
	ErrInvalidToken:  "ERR_INVALID_HTTP_TOKEN",
	ErrInvalidChar:   "ERR_INVALID_CHAR",
	ErrMalformedPair: "ERR_MALFORMED_PAIR",
	ErrInvalidInit:   "ERR_INVALID_INIT",
}

// Code returns the machine-readable code of a validation error, or "" when
// err is not one.
func Code(err error) string {
	for sentinel, code := range codes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}

func validateName(name string) error {
	if !httpguts.ValidHeaderFieldName(name) {
		return fmt.Errorf("%w: header name must be a valid HTTP token [%s]", ErrInvalidToken, name)
	}
	return nil
}

// validateValue accepts tab, printable ASCII and bytes 0x80-0xFF.
func validateValue(name, value string) error {
	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("%w: invalid character in header content [%q]", ErrInvalidChar, name)
	}
	return nil
}

func validatePair(name, value string) error {
	if err := validateName(name); err != nil {
		return err
	}
	return validateValue(name, value)
}
