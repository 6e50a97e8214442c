package endpoint

import (
	"fmt"
	"strings"
)

type segment struct {
	literal string
	name    string
}

// Template is a parsed format string with {name} placeholders. A literal
// brace is written doubled: "{{" and "}}".
type Template struct {
	raw      string
	segments []segment
	names    []string
}

// ParseTemplate parses s. Placeholder names must be identifiers; positional
// ("{}") and formatted ("{x:>4}") placeholders are rejected.
func ParseTemplate(s string) (Template, error) {
	t := Template{raw: s}
	var lit strings.Builder
	seen := make(map[string]bool)

	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				return Template{}, templateError(s, "unclosed '{'")
			}
			name := s[i+1 : i+1+end]
			if !namePattern.MatchString(name) {
				return Template{}, templateError(s, fmt.Sprintf("invalid placeholder {%s}", name))
			}
			flush()
			t.segments = append(t.segments, segment{name: name})
			if !seen[name] {
				seen[name] = true
				t.names = append(t.names, name)
			}
			i += end + 1
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return Template{}, templateError(s, "single '}' must be written as '}}'")
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return t, nil
}

// MustParseTemplate is like ParseTemplate but panics on error.
func MustParseTemplate(s string) Template {
	t, err := ParseTemplate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func templateError(s, reason string) error {
	return &DefinitionError{Subject: fmt.Sprintf("template %q", s), Reason: reason}
}

// String returns the template source.
func (t Template) String() string { return t.raw }

// Names returns the distinct placeholder names in order of first appearance.
func (t Template) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Bind substitutes every placeholder with the natural string form of its
// value in args. A placeholder without a key in args fails with
// *MissingTemplateArgumentError.
func (t Template) Bind(args map[string]any) (string, error) {
	return t.BindEscaped(args, nil)
}

// BindEscaped is like Bind but passes each substituted value through escape.
// Literal text is never escaped.
func (t Template) BindEscaped(args map[string]any, escape func(string) string) (string, error) {
	var b strings.Builder
	b.Grow(len(t.raw))
	for _, seg := range t.segments {
		if seg.name == "" {
			b.WriteString(seg.literal)
			continue
		}
		v, ok := args[seg.name]
		if !ok {
			return "", &MissingTemplateArgumentError{Name: seg.name, Template: t.raw}
		}
		s := FormatValue(v)
		if escape != nil {
			s = escape(s)
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// Bind parses template and binds it against args in one step.
func Bind(template string, args map[string]any) (string, error) {
	t, err := ParseTemplate(template)
	if err != nil {
		return "", err
	}
	return t.Bind(args)
}
