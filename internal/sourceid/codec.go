// Package sourceid implements the reversible, URL-safe encoding used for
// source identifiers carried in API paths. It is standard base64 with the
// characters `+`, `/` and `=` substituted by `.`, `_` and `-`, which keeps
// tokens safe inside path segments without percent-escaping.
package sourceid

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// DublinCorePrefix marks a decoded identifier as a Dublin-Core-style id
// rather than a canonical URL. The codec treats it as opaque; consumers of
// the decoded string decide whether to care.
const DublinCorePrefix = "dc:"

// ErrInvalidToken indicates the token is not a well-formed encoded identifier.
var ErrInvalidToken = errors.New("sourceid: invalid token")

var (
	toTokenAlphabet   = strings.NewReplacer("+", ".", "/", "_", "=", "-")
	fromTokenAlphabet = strings.NewReplacer(".", "+", "_", "/", "-", "=")
)

// Encode converts a raw identifier into its path-safe token form.
func Encode(raw []byte) string {
	return toTokenAlphabet.Replace(base64.StdEncoding.EncodeToString(raw))
}

// Decode converts a token back into the raw identifier bytes. Failure is an
// ordinary error value; callers must check it before using the result as a
// lookup key.
func Decode(token string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(fromTokenAlphabet.Replace(token))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return raw, nil
}
