package codec

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
	"testing"
)

func TestJSON_Encode(t *testing.T) {
	data, err := JSON.Encode(map[string]any{"name": "rex"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"name":"rex"}` {
		t.Errorf("got %s", data)
	}
	if JSON.ContentType() != ContentTypeJSON {
		t.Errorf("content type = %q", JSON.ContentType())
	}
}

func TestJSON_EncodeRawMessage(t *testing.T) {
	raw := json.RawMessage(`{"a": 1}`)
	data, err := JSON.Encode(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"a": 1}` {
		t.Errorf("expected raw message unchanged, got %s", data)
	}
}

func TestJSON_EncodeError(t *testing.T) {
	if _, err := JSON.Encode(make(chan int)); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}

func TestRaw_Encode(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"bytes", []byte("abc"), "abc"},
		{"string", "abc", "abc"},
		{"buffer", bytes.NewBufferString("abc"), "abc"},
		{"reader", strings.NewReader("abc"), "abc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Raw.Encode(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(data) != tc.want {
				t.Errorf("got %q", data)
			}
		})
	}
	if _, err := Raw.Encode(42); err == nil {
		t.Error("expected error for int body")
	}
}

type signup struct {
	Email string   `form:"email"`
	Tags  []string `form:"tag"`
	Age   int      `form:"age,omitempty"`
}

func TestForm_Encode(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want url.Values
	}{
		{"values", url.Values{"a": {"1", "2"}}, url.Values{"a": {"1", "2"}}},
		{"string map", map[string]string{"a": "1"}, url.Values{"a": {"1"}}},
		{"any map", map[string]any{"a": []int{1, 2}, "b": true}, url.Values{"a": {"1", "2"}, "b": {"true"}}},
		{"struct", signup{Email: "a@b.c", Tags: []string{"x", "y"}}, url.Values{"email": {"a@b.c"}, "tag": {"x", "y"}}},
		{"struct pointer", &signup{Email: "a@b.c", Age: 3}, url.Values{"email": {"a@b.c"}, "age": {"3"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Form.Encode(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, err := url.ParseQuery(string(data))
			if err != nil {
				t.Fatalf("invalid form body %q: %v", data, err)
			}
			for k, want := range tc.want {
				if strings.Join(got[k], ",") != strings.Join(want, ",") {
					t.Errorf("%s = %v, want %v", k, got[k], want)
				}
			}
			if len(got) != len(tc.want) {
				t.Errorf("got keys %v, want %v", got, tc.want)
			}
		})
	}
	if _, err := Form.Encode("a=1"); err == nil {
		t.Error("expected error for string form body")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		contentType string
		want        Kind
	}{
		{"application/json", KindJSON},
		{"application/json; charset=utf-8", KindJSON},
		{"Application/JSON", KindJSON},
		{"text/plain", KindText},
		{"text/html; charset=ISO-8859-1", KindText},
		{"application/octet-stream", KindBytes},
		{"", KindBytes},
	}
	for _, tc := range tests {
		if got := Classify(tc.contentType); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.contentType, got, tc.want)
		}
	}
}

func TestDecodeResponse(t *testing.T) {
	v, err := DecodeResponse("application/json", []byte(`{"id": 7, "tags": ["a"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok || m["id"] != float64(7) {
		t.Errorf("unexpected json result %#v", v)
	}

	v, err = DecodeResponse("application/json", nil)
	if err != nil || v != nil {
		t.Errorf("empty json body: got %#v, %v", v, err)
	}

	if _, err := DecodeResponse("application/json", []byte("{")); err == nil {
		t.Error("expected error for invalid json")
	}

	v, err = DecodeResponse("text/plain", []byte("hello"))
	if err != nil || v != "hello" {
		t.Errorf("text body: got %#v, %v", v, err)
	}

	v, err = DecodeResponse("text/plain; charset=ISO-8859-1", []byte{'c', 'a', 'f', 0xe9})
	if err != nil || v != "café" {
		t.Errorf("latin-1 body: got %#v, %v", v, err)
	}

	raw := []byte{0x00, 0x01}
	v, err = DecodeResponse("image/png", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b, ok := v.([]byte); !ok || !bytes.Equal(b, raw) {
		t.Errorf("binary body: got %#v", v)
	}
}
