package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Kind classifies a response body by its Content-Type.
type Kind int

const (
	// KindBytes is any body that is neither JSON nor text.
	KindBytes Kind = iota
	// KindJSON is an application/json body.
	KindJSON
	// KindText is a text/* body.
	KindText
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindText:
		return "text"
	default:
		return "bytes"
	}
}

// Classify returns the body kind for a Content-Type header value.
func Classify(contentType string) Kind {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "application/json"):
		return KindJSON
	case strings.Contains(ct, "text/"):
		return KindText
	default:
		return KindBytes
	}
}

// DecodeResponse turns a response body into a Go value according to its
// Content-Type: JSON into map[string]any, []any or a scalar; text/* into a
// string decoded with the declared charset (UTF-8 when none is declared);
// anything else into the unchanged []byte.
func DecodeResponse(contentType string, body []byte) (any, error) {
	switch Classify(contentType) {
	case KindJSON:
		if len(bytes.TrimSpace(body)) == 0 {
			return nil, nil
		}
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("codec: json decode: %w", err)
		}
		return v, nil
	case KindText:
		return decodeText(contentType, body)
	default:
		return body, nil
	}
}

func decodeText(contentType string, body []byte) (string, error) {
	if !strings.Contains(strings.ToLower(contentType), "charset=") {
		return string(body), nil
	}
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return "", fmt.Errorf("codec: text decode: %w", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("codec: text decode: %w", err)
	}
	return string(out), nil
}
