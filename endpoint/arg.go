package endpoint

import (
	"fmt"
	"reflect"
	"regexp"
)

// Args holds the domain arguments of one call, keyed by argument name.
type Args map[string]any

type absent struct{}

func (absent) String() string { return "<absent>" }

// Absent is returned by Arg.Resolve for an optional argument that was not
// supplied and has no default. It is distinct from every caller value,
// including nil, so the argument can be omitted from the request entirely.
var Absent any = absent{}

// IsAbsent reports whether v is the Absent sentinel.
func IsAbsent(v any) bool {
	_, ok := v.(absent)
	return ok
}

// Default is the default policy of an argument: either a fixed value or a
// producer invoked afresh on every call that omits the argument.
type Default interface {
	value() any
	valid() bool
}

type staticDefault struct{ v any }

func (d staticDefault) value() any  { return d.v }
func (d staticDefault) valid() bool { return true }

type producedDefault struct{ fn func() any }

func (d producedDefault) value() any  { return d.fn() }
func (d producedDefault) valid() bool { return d.fn != nil }

// Static returns a Default that always yields v.
func Static(v any) Default {
	return staticDefault{v: v}
}

// Produced returns a Default that calls fn each time a value is needed.
// fn may have side effects; it runs on the calling goroutine.
func Produced(fn func() any) Default {
	return producedDefault{fn: fn}
}

// Arg declares one named querystring argument of an endpoint.
type Arg struct {
	// Name is the querystring key and the call-time argument name.
	Name string
	// Required makes the call fail with MissingArgumentError when the
	// argument is omitted. A required argument cannot have a Default.
	Required bool
	// Default is used when the argument is omitted. Nil means no default.
	Default Default
}

// Param declares an optional argument without default.
func Param(name string) Arg {
	return Arg{Name: name}
}

// RequiredParam declares a required argument.
func RequiredParam(name string) Arg {
	return Arg{Name: name, Required: true}
}

// ParamDefault declares an optional argument with a static default.
func ParamDefault(name string, v any) Arg {
	return Arg{Name: name, Default: Static(v)}
}

// ParamProducer declares an optional argument whose default is produced per call.
func ParamProducer(name string, fn func() any) Arg {
	return Arg{Name: name, Default: Produced(fn)}
}

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks the argument declaration.
func (a Arg) Validate() error {
	subject := fmt.Sprintf("arg %q", a.Name)
	if !namePattern.MatchString(a.Name) {
		return &DefinitionError{Subject: subject, Reason: "name must be an identifier"}
	}
	if a.Required && a.Default != nil {
		return &DefinitionError{
			Subject: subject,
			Reason:  "a required arg is always supplied by the caller, so a default is redundant",
		}
	}
	if a.Default != nil && !a.Default.valid() {
		return &DefinitionError{Subject: subject, Reason: "default producer is nil"}
	}
	return nil
}

// Resolve returns the value of the argument for one call. A supplied value is
// returned verbatim. Otherwise the default is used, a required argument fails
// with *MissingArgumentError, and an optional one resolves to Absent.
func (a Arg) Resolve(args Args) (any, error) {
	if v, ok := args[a.Name]; ok {
		return v, nil
	}
	if a.Default != nil {
		return a.Default.value(), nil
	}
	if a.Required {
		return nil, &MissingArgumentError{Name: a.Name}
	}
	return Absent, nil
}

// FormatValue renders an argument value in its natural string form.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

// FormatValues renders a querystring value. Slices and arrays, other than
// []byte, yield one string per element; any other value yields one string.
func FormatValues(v any) []string {
	if _, ok := v.([]byte); ok {
		return []string{FormatValue(v)}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []string{FormatValue(v)}
	}
	out := make([]string, 0, rv.Len())
	for i := range rv.Len() {
		out = append(out, FormatValue(rv.Index(i).Interface()))
	}
	return out
}
