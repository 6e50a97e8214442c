// Package codec encodes request bodies and decodes response bodies for
// restkit endpoints.
//
// Three body encoders are provided: JSON, Form (application/x-www-form-urlencoded)
// and Raw (bytes passed through unchanged). Endpoints pick one through their
// body type and may swap in any other Encoder.
//
// Responses are classified by Content-Type with DecodeResponse: JSON bodies are
// unmarshalled into generic Go values, text/* bodies are transcoded to a UTF-8
// string, anything else is returned as raw bytes.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Content types set by the built-in encoders.
const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
	ContentTypeRaw  = "application/octet-stream"
)

// Encoder serializes a request body.
type Encoder interface {
	// ContentType is the Content-Type header value for encoded bodies.
	ContentType() string
	// Encode serializes v.
	Encode(v any) ([]byte, error)
}

// Built-in encoders.
var (
	JSON Encoder = jsonEncoder{}
	Form Encoder = formEncoder{}
	Raw  Encoder = rawEncoder{}
)

type jsonEncoder struct{}

func (jsonEncoder) ContentType() string { return ContentTypeJSON }

func (jsonEncoder) Encode(v any) ([]byte, error) {
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: json encode: %w", err)
	}
	return data, nil
}

type rawEncoder struct{}

func (rawEncoder) ContentType() string { return ContentTypeRaw }

func (rawEncoder) Encode(v any) ([]byte, error) {
	switch t := v.(type) {
	case []byte:
		return t, nil
	case string:
		return []byte(t), nil
	case json.RawMessage:
		return t, nil
	case *bytes.Buffer:
		return t.Bytes(), nil
	case io.Reader:
		data, err := io.ReadAll(t)
		if err != nil {
			return nil, fmt.Errorf("codec: read raw body: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("codec: raw body must be []byte, string or io.Reader, got %T", v)
	}
}
