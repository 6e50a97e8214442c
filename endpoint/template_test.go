package endpoint

import (
	"errors"
	"net/url"
	"reflect"
	"testing"
)

func TestBind_RoundTrip(t *testing.T) {
	got, err := Bind("/things/{user_id}/", map[string]any{"user_id": 2345})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/things/2345/" {
		t.Errorf("got %q, want %q", got, "/things/2345/")
	}
}

func TestBind_MissingPlaceholder(t *testing.T) {
	_, err := Bind("/things/{user_id}/", map[string]any{})
	if !errors.Is(err, ErrMissingTemplateArgument) {
		t.Fatalf("expected ErrMissingTemplateArgument, got %v", err)
	}
	var mte *MissingTemplateArgumentError
	if !errors.As(err, &mte) {
		t.Fatalf("expected *MissingTemplateArgumentError, got %T", err)
	}
	if mte.Name != "user_id" || mte.Template != "/things/{user_id}/" {
		t.Errorf("unexpected error fields: %+v", mte)
	}
}

func TestParseTemplate(t *testing.T) {
	tests := []struct {
		name      string
		template  string
		wantNames []string
		wantErr   bool
	}{
		{"no placeholders", "/things/", nil, false},
		{"single", "/things/{id}", []string{"id"}, false},
		{"repeated name", "{a}-{b}-{a}", []string{"a", "b"}, false},
		{"escaped braces", "{{literal}} {x}", []string{"x"}, false},
		{"unclosed", "/things/{id", nil, true},
		{"stray close", "/things/id}", nil, true},
		{"positional", "/things/{}", nil, true},
		{"format spec", "/things/{id:>4}", nil, true},
		{"digit start", "/things/{1id}", nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tmpl, err := ParseTemplate(tc.template)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidDefinition) {
					t.Fatalf("expected ErrInvalidDefinition, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tc.wantNames) == 0 && len(tmpl.Names()) == 0 {
				return
			}
			if !reflect.DeepEqual(tmpl.Names(), tc.wantNames) {
				t.Errorf("names = %v, want %v", tmpl.Names(), tc.wantNames)
			}
		})
	}
}

func TestTemplate_BindLiteralBraces(t *testing.T) {
	tmpl := MustParseTemplate("{{x}} = {x}")
	got, err := tmpl.Bind(map[string]any{"x": "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "{x} = 1" {
		t.Errorf("got %q", got)
	}
}

func TestTemplate_BindEscaped(t *testing.T) {
	tmpl := MustParseTemplate("/files/{name}/raw")
	got, err := tmpl.BindEscaped(map[string]any{"name": "a b/c"}, url.PathEscape)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/files/a%20b%2Fc/raw" {
		t.Errorf("got %q", got)
	}
}

func TestTemplate_String(t *testing.T) {
	if got := MustParseTemplate("Bearer {token}").String(); got != "Bearer {token}" {
		t.Errorf("got %q", got)
	}
}

func TestMustParseTemplate_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParseTemplate("{broken")
}
