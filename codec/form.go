package codec

import (
	"fmt"
	"net/url"
	"reflect"

	"github.com/gorilla/schema"
)

var formEncoderSchema = newSchemaEncoder()

func newSchemaEncoder() *schema.Encoder {
	enc := schema.NewEncoder()
	enc.SetAliasTag("form")
	return enc
}

type formEncoder struct{}

func (formEncoder) ContentType() string { return ContentTypeForm }

// Encode accepts url.Values, map[string]string, map[string][]string,
// map[string]any (slices become repeated keys) and structs, which are encoded
// through their `form` tags.
func (formEncoder) Encode(v any) ([]byte, error) {
	values, err := FormValues(v)
	if err != nil {
		return nil, err
	}
	return []byte(values.Encode()), nil
}

// FormValues converts a form body into url.Values.
func FormValues(v any) (url.Values, error) {
	switch t := v.(type) {
	case url.Values:
		return t, nil
	case map[string][]string:
		return url.Values(t), nil
	case map[string]string:
		values := make(url.Values, len(t))
		for k, s := range t {
			values.Set(k, s)
		}
		return values, nil
	case map[string]any:
		values := make(url.Values, len(t))
		for k, item := range t {
			addFormValue(values, k, item)
		}
		return values, nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("codec: form body must be a map or struct, got %T", v)
	}
	values := make(url.Values)
	if err := formEncoderSchema.Encode(rv.Interface(), values); err != nil {
		return nil, fmt.Errorf("codec: form encode: %w", err)
	}
	return values, nil
}

func addFormValue(values url.Values, key string, v any) {
	rv := reflect.ValueOf(v)
	if v != nil && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		if b, ok := v.([]byte); ok {
			values.Add(key, string(b))
			return
		}
		for i := 0; i < rv.Len(); i++ {
			values.Add(key, fmt.Sprint(rv.Index(i).Interface()))
		}
		return
	}
	if v == nil {
		values.Add(key, "")
		return
	}
	values.Add(key, fmt.Sprint(v))
}
