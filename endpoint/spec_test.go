package endpoint

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kbukum/restkit/codec"
)

func TestNew_DerivesArgumentNames(t *testing.T) {
	s, err := Get("/things/{user_id}/",
		WithQuery(RequiredParam("type"), Param("offset_id")),
		WithHeader("Authorization", "Bearer {access_token}"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Method() != MethodGet {
		t.Errorf("expected GET, got %s", s.Method())
	}
	if !reflect.DeepEqual(s.PathArgs(), []string{"user_id"}) {
		t.Errorf("path args = %v", s.PathArgs())
	}
	if !reflect.DeepEqual(s.HeaderArgs(), []string{"access_token"}) {
		t.Errorf("header args = %v", s.HeaderArgs())
	}
	if len(s.Query()) != 2 || s.Query()[0].Name != "type" {
		t.Errorf("query = %+v", s.Query())
	}
	if s.BodyArg() != DefaultBodyArg || s.BodyType() != BodyJSON {
		t.Errorf("unexpected body defaults: %q %s", s.BodyArg(), s.BodyType())
	}
}

func TestNew_DuplicateArgumentNames(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		opts    []Option
		dup     string
		sources []string
	}{
		{
			name:    "path and query",
			path:    "/things/{id}",
			opts:    []Option{WithQuery(Param("id"))},
			dup:     "id",
			sources: []string{SourcePath, SourceQuery},
		},
		{
			name:    "path and header",
			path:    "/things/{thing_id}",
			opts:    []Option{WithHeader("X-Thing", "{thing_id}")},
			dup:     "thing_id",
			sources: []string{SourcePath, SourceHeader},
		},
		{
			name:    "query and header",
			path:    "/things",
			opts:    []Option{WithQuery(Param("token")), WithHeader("Authorization", "Bearer {token}")},
			dup:     "token",
			sources: []string{SourceQuery, SourceHeader},
		},
		{
			name:    "query twice",
			path:    "/things",
			opts:    []Option{WithQuery(Param("page"), Param("page"))},
			dup:     "page",
			sources: []string{SourceQuery, SourceQuery},
		},
		{
			name:    "body arg and query",
			path:    "/things",
			opts:    []Option{WithQuery(Param("body"))},
			dup:     "body",
			sources: []string{SourceQuery, SourceBody},
		},
		{
			name:    "renamed body arg and path",
			path:    "/things/{payload}",
			opts:    []Option{WithBodyArg("payload")},
			dup:     "payload",
			sources: []string{SourcePath, SourceBody},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(MethodPost, tc.path, tc.opts...)
			if !errors.Is(err, ErrDuplicateArgumentName) {
				t.Fatalf("expected ErrDuplicateArgumentName, got %v", err)
			}
			var dup *DuplicateArgumentNameError
			if !errors.As(err, &dup) {
				t.Fatalf("expected *DuplicateArgumentNameError, got %T", err)
			}
			if dup.Name != tc.dup {
				t.Errorf("name = %q, want %q", dup.Name, tc.dup)
			}
			if !reflect.DeepEqual(dup.Sources, tc.sources) {
				t.Errorf("sources = %v, want %v", dup.Sources, tc.sources)
			}
		})
	}
}

func TestNew_BodyNoneFreesBodyName(t *testing.T) {
	if _, err := New(MethodGet, "/search", WithBodyType(BodyNone), WithQuery(Param("body"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_InvalidDefinitions(t *testing.T) {
	tests := []struct {
		name   string
		method Method
		path   string
		opts   []Option
	}{
		{"unknown method", Method("TRACE"), "/", nil},
		{"bad path template", MethodGet, "/things/{id", nil},
		{"bad header template", MethodGet, "/", []Option{WithHeader("X-A", "{")}},
		{"required with default", MethodGet, "/", []Option{WithQuery(Arg{Name: "a", Required: true, Default: Static(1)})}},
		{"required body without body", MethodPost, "/", []Option{WithBodyType(BodyNone), WithBodyRequired()}},
		{"bad body arg", MethodPost, "/", []Option{WithBodyArg("my-body")}},
		{"header casing twice", MethodGet, "/", []Option{WithHeaders(map[string]string{"x-a": "1", "X-A": "2"})}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.method, tc.path, tc.opts...)
			if !errors.Is(err, ErrInvalidDefinition) {
				t.Fatalf("expected ErrInvalidDefinition, got %v", err)
			}
		})
	}
}

func TestMustNew_PanicsOnDuplicate(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrDuplicateArgumentName) {
			t.Errorf("expected duplicate-name panic, got %v", r)
		}
	}()
	MustNew(MethodGet, "/{a}", WithQuery(Param("a")))
}

func TestSpec_Encoder(t *testing.T) {
	tests := []struct {
		bodyType BodyType
		want     codec.Encoder
	}{
		{BodyJSON, codec.JSON},
		{BodyForm, codec.Form},
		{BodyRaw, codec.Raw},
		{BodyNone, nil},
	}
	for _, tc := range tests {
		s := MustNew(MethodPost, "/", WithBodyType(tc.bodyType))
		if s.Encoder() != tc.want {
			t.Errorf("%s: encoder = %v, want %v", tc.bodyType, s.Encoder(), tc.want)
		}
	}

	custom := MustNew(MethodPost, "/", WithBodyType(BodyJSON), WithEncoder(codec.Raw))
	if custom.Encoder() != codec.Raw {
		t.Error("expected WithEncoder to override body type encoder")
	}
}

func TestSpec_Resolve(t *testing.T) {
	s := MustNew(MethodGet, "/things/{user_id}/",
		WithQuery(RequiredParam("type"), Param("offset_id"), ParamDefault("limit", 25)),
		WithHeader("authorization", "Bearer {access_token}"),
	)
	r, err := s.Resolve(Args{"user_id": 2345, "type": "cat", "access_token": "abc", "unused": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Path != "/things/2345/" {
		t.Errorf("path = %q", r.Path)
	}
	wantQuery := []QueryParam{{"type", "cat"}, {"limit", "25"}}
	if !reflect.DeepEqual(r.Query, wantQuery) {
		t.Errorf("query = %v, want %v", r.Query, wantQuery)
	}
	if r.Headers["Authorization"] != "Bearer abc" {
		t.Errorf("headers = %v", r.Headers)
	}
	if r.HasBody {
		t.Error("expected no body")
	}
}

func TestSpec_ResolveErrors(t *testing.T) {
	s := MustNew(MethodPost, "/things/{user_id}/",
		WithQuery(RequiredParam("type")),
		WithHeader("Authorization", "Bearer {token}"),
		WithBodyType(BodyForm),
		WithBodyRequired(),
	)
	tests := []struct {
		name   string
		args   Args
		target error
	}{
		{"missing query", Args{"user_id": 1, "token": "t", "body": map[string]string{}}, ErrMissingArgument},
		{"missing path", Args{"type": "cat", "token": "t", "body": map[string]string{}}, ErrMissingArgument},
		{"missing header", Args{"user_id": 1, "type": "cat", "body": map[string]string{}}, ErrMissingTemplateArgument},
		{"missing body", Args{"user_id": 1, "type": "cat", "token": "t"}, ErrMissingBody},
		{"nil body", Args{"user_id": 1, "type": "cat", "token": "t", "body": nil}, ErrMissingBody},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Resolve(tc.args)
			if !errors.Is(err, tc.target) {
				t.Fatalf("expected %v, got %v", tc.target, err)
			}
		})
	}
}

func TestSpec_ResolveMissingPathReportsName(t *testing.T) {
	s := MustNew(MethodGet, "/things/{user_id}/")
	_, err := s.Resolve(Args{})
	var mae *MissingArgumentError
	if !errors.As(err, &mae) || mae.Name != "user_id" {
		t.Fatalf("expected MissingArgumentError(user_id), got %v", err)
	}
}

func TestSpec_ResolveSkipsNilQueryValue(t *testing.T) {
	s := MustNew(MethodGet, "/", WithQuery(Param("cursor")))
	r, err := s.Resolve(Args{"cursor": nil})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Query) != 0 {
		t.Errorf("expected nil value to be omitted, got %v", r.Query)
	}
}

func TestSpec_ResolveEscapesPath(t *testing.T) {
	s := MustNew(MethodGet, "/users/{name}")
	r, err := s.Resolve(Args{"name": "jane doe/admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Path != "/users/jane%20doe%2Fadmin" {
		t.Errorf("path = %q", r.Path)
	}
}

func TestParseBodyType(t *testing.T) {
	for in, want := range map[string]BodyType{"": BodyJSON, "json": BodyJSON, "form": BodyForm, "raw": BodyRaw, "none": BodyNone} {
		got, err := ParseBodyType(in)
		if err != nil || got != want {
			t.Errorf("ParseBodyType(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseBodyType("xml"); err == nil {
		t.Error("expected error for unknown body type")
	}
}

func TestSpec_ResolveRepeatsSliceQueryValues(t *testing.T) {
	s := MustNew(MethodGet, "/pets", WithQuery(Param("tags"), Param("ids"), Param("raw")))
	r, err := s.Resolve(Args{
		"tags": []string{"a", "b"},
		"ids":  [2]int{1, 2},
		"raw":  []byte("xy"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []QueryParam{{"tags", "a"}, {"tags", "b"}, {"ids", "1"}, {"ids", "2"}, {"raw", "xy"}}
	if !reflect.DeepEqual(r.Query, want) {
		t.Errorf("query = %v, want %v", r.Query, want)
	}

	r, err = s.Resolve(Args{"tags": []string{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Query) != 0 {
		t.Errorf("expected empty slice to send nothing, got %v", r.Query)
	}
}
