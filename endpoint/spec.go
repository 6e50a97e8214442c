package endpoint

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/kbukum/restkit/codec"
)

// Method is an HTTP method supported by endpoints.
type Method string

// Supported methods.
const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
)

func (m Method) valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
		return true
	}
	return false
}

// BodyType selects how a request body is encoded.
type BodyType int

const (
	// BodyJSON encodes the body as JSON. It is the default.
	BodyJSON BodyType = iota
	// BodyForm encodes the body as application/x-www-form-urlencoded.
	BodyForm
	// BodyRaw sends []byte, string or io.Reader bodies unchanged.
	BodyRaw
	// BodyNone declares that the endpoint takes no body.
	BodyNone
)

// String returns the body type name.
func (t BodyType) String() string {
	switch t {
	case BodyJSON:
		return "json"
	case BodyForm:
		return "form"
	case BodyRaw:
		return "raw"
	case BodyNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseBodyType parses a body type name as returned by BodyType.String.
// The empty string means BodyJSON.
func ParseBodyType(s string) (BodyType, error) {
	switch s {
	case "", "json":
		return BodyJSON, nil
	case "form", "form_encoded":
		return BodyForm, nil
	case "raw":
		return BodyRaw, nil
	case "none":
		return BodyNone, nil
	}
	return 0, fmt.Errorf("endpoint: unknown body type %q", s)
}

// DefaultBodyArg is the argument name carrying the request body.
const DefaultBodyArg = "body"

// Argument sources reported in DuplicateArgumentNameError.
const (
	SourcePath   = "path"
	SourceQuery  = "query"
	SourceHeader = "header"
	SourceBody   = "body"
)

// HeaderTemplate is one request header whose value is a template.
type HeaderTemplate struct {
	// Key is the canonical header name.
	Key      string
	Template Template
}

// Spec is an immutable endpoint definition: method, path template,
// querystring arguments, header templates and body policy. Argument names
// are unique across all sources; this is checked once, by New.
type Spec struct {
	method       Method
	path         Template
	query        []Arg
	headers      []HeaderTemplate
	pathNames    []string
	headerNames  []string
	bodyArg      string
	bodyRequired bool
	bodyType     BodyType
	encoder      codec.Encoder
}

type options struct {
	query        []Arg
	headers      map[string]string
	bodyArg      string
	bodyRequired bool
	bodyType     BodyType
	encoder      codec.Encoder
}

// Option configures a Spec.
type Option func(*options)

// WithQuery declares querystring arguments, sent in declaration order. A slice
// or array value is sent as one pair per element (tags=a&tags=b).
func WithQuery(args ...Arg) Option {
	return func(o *options) { o.query = append(o.query, args...) }
}

// WithHeaders declares request headers. Values may contain {name}
// placeholders bound from call arguments.
func WithHeaders(headers map[string]string) Option {
	return func(o *options) {
		for k, v := range headers {
			o.headers[k] = v
		}
	}
}

// WithHeader declares a single request header template.
func WithHeader(key, value string) Option {
	return func(o *options) { o.headers[key] = value }
}

// WithBodyType sets the body encoding.
func WithBodyType(t BodyType) Option {
	return func(o *options) { o.bodyType = t }
}

// WithBodyRequired makes calls without a body fail with MissingBodyError.
func WithBodyRequired() Option {
	return func(o *options) { o.bodyRequired = true }
}

// WithBodyArg renames the argument carrying the body (default "body"), for
// APIs that need "body" as a querystring name.
func WithBodyArg(name string) Option {
	return func(o *options) { o.bodyArg = name }
}

// WithEncoder replaces the encoder implied by the body type.
func WithEncoder(enc codec.Encoder) Option {
	return func(o *options) { o.encoder = enc }
}

// New defines an endpoint. It parses the path and header templates and
// fails with *DuplicateArgumentNameError when a name is declared by more than
// one source, or *DefinitionError for any other malformed declaration.
func New(method Method, path string, opts ...Option) (*Spec, error) {
	o := options{headers: make(map[string]string), bodyArg: DefaultBodyArg}
	for _, opt := range opts {
		opt(&o)
	}

	if !method.valid() {
		return nil, &DefinitionError{Subject: "method", Reason: fmt.Sprintf("unsupported method %q", method)}
	}
	if o.bodyType < BodyJSON || o.bodyType > BodyNone {
		return nil, &DefinitionError{Subject: "body type", Reason: fmt.Sprintf("unknown body type %d", o.bodyType)}
	}
	if o.bodyType == BodyNone && o.bodyRequired {
		return nil, &DefinitionError{Subject: "body", Reason: "body cannot be required when the endpoint takes no body"}
	}
	if o.bodyType != BodyNone && !namePattern.MatchString(o.bodyArg) {
		return nil, &DefinitionError{Subject: "body arg", Reason: fmt.Sprintf("%q is not an identifier", o.bodyArg)}
	}

	pathTmpl, err := ParseTemplate(path)
	if err != nil {
		return nil, err
	}

	for _, a := range o.query {
		if err := a.Validate(); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(o.headers))
	for k := range o.headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := &Spec{
		method:       method,
		path:         pathTmpl,
		query:        append([]Arg(nil), o.query...),
		pathNames:    pathTmpl.Names(),
		bodyArg:      o.bodyArg,
		bodyRequired: o.bodyRequired,
		bodyType:     o.bodyType,
		encoder:      o.encoder,
	}

	seenHeader := make(map[string]bool)
	for _, k := range keys {
		canonical := http.CanonicalHeaderKey(k)
		if canonical == "" {
			return nil, &DefinitionError{Subject: "header", Reason: "empty header name"}
		}
		if seenHeader[canonical] {
			return nil, &DefinitionError{Subject: "header " + canonical, Reason: "declared twice with different casing"}
		}
		seenHeader[canonical] = true
		tmpl, err := ParseTemplate(o.headers[k])
		if err != nil {
			return nil, err
		}
		s.headers = append(s.headers, HeaderTemplate{Key: canonical, Template: tmpl})
	}
	s.headerNames = collectNames(s.headers)

	if err := s.checkUnique(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustNew is like New but panics on error. It suits package-level endpoint
// tables, where a bad definition should stop the program at init.
func MustNew(method Method, path string, opts ...Option) *Spec {
	s, err := New(method, path, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Get defines a GET endpoint.
func Get(path string, opts ...Option) (*Spec, error) { return New(MethodGet, path, opts...) }

// Post defines a POST endpoint.
func Post(path string, opts ...Option) (*Spec, error) { return New(MethodPost, path, opts...) }

// Put defines a PUT endpoint.
func Put(path string, opts ...Option) (*Spec, error) { return New(MethodPut, path, opts...) }

// Patch defines a PATCH endpoint.
func Patch(path string, opts ...Option) (*Spec, error) { return New(MethodPatch, path, opts...) }

// Delete defines a DELETE endpoint.
func Delete(path string, opts ...Option) (*Spec, error) { return New(MethodDelete, path, opts...) }

func collectNames(headers []HeaderTemplate) []string {
	var names []string
	seen := make(map[string]bool)
	for _, h := range headers {
		for _, n := range h.Template.Names() {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	return names
}

// checkUnique enforces that path, query, header and body argument names are
// pairwise disjoint. A name repeated inside one template is fine.
func (s *Spec) checkUnique() error {
	sources := make(map[string][]string)
	var order []string
	add := func(name, source string) {
		if _, ok := sources[name]; !ok {
			order = append(order, name)
		}
		sources[name] = append(sources[name], source)
	}
	for _, n := range s.pathNames {
		add(n, SourcePath)
	}
	for _, a := range s.query {
		add(a.Name, SourceQuery)
	}
	for _, n := range s.headerNames {
		add(n, SourceHeader)
	}
	if s.bodyType != BodyNone {
		add(s.bodyArg, SourceBody)
	}
	for _, name := range order {
		if len(sources[name]) > 1 {
			return &DuplicateArgumentNameError{Name: name, Sources: sources[name]}
		}
	}
	return nil
}

// Method returns the HTTP method.
func (s *Spec) Method() Method { return s.method }

// Path returns the path template.
func (s *Spec) Path() Template { return s.path }

// Query returns the querystring arguments in declaration order.
func (s *Spec) Query() []Arg { return append([]Arg(nil), s.query...) }

// Headers returns the header templates sorted by key.
func (s *Spec) Headers() []HeaderTemplate { return append([]HeaderTemplate(nil), s.headers...) }

// PathArgs returns the path placeholder names.
func (s *Spec) PathArgs() []string { return append([]string(nil), s.pathNames...) }

// HeaderArgs returns the placeholder names used by header templates.
func (s *Spec) HeaderArgs() []string { return append([]string(nil), s.headerNames...) }

// BodyArg returns the name of the body argument.
func (s *Spec) BodyArg() string { return s.bodyArg }

// BodyRequired reports whether calls must supply a body.
func (s *Spec) BodyRequired() bool { return s.bodyRequired }

// BodyType returns the body encoding.
func (s *Spec) BodyType() BodyType { return s.bodyType }

// Encoder returns the body encoder: the one set with WithEncoder, otherwise
// the encoder implied by the body type. It is nil for BodyNone.
func (s *Spec) Encoder() codec.Encoder {
	if s.encoder != nil {
		return s.encoder
	}
	switch s.bodyType {
	case BodyJSON:
		return codec.JSON
	case BodyForm:
		return codec.Form
	case BodyRaw:
		return codec.Raw
	default:
		return nil
	}
}

// QueryParam is one querystring pair.
type QueryParam struct {
	Key   string
	Value string
}

// Resolved is the outcome of binding call arguments against a Spec.
type Resolved struct {
	// Path is the bound path with each substituted value percent-encoded.
	Path string
	// Query holds the present querystring arguments in declaration order.
	Query []QueryParam
	// Headers holds the bound endpoint headers keyed by canonical name.
	Headers map[string]string
	// Body is the body payload when HasBody is set.
	Body    any
	HasBody bool
}

// Resolve binds args against the endpoint. It applies query defaults,
// requires every path placeholder, binds header templates and enforces the
// body policy. It performs no I/O; any failure happens before a request
// exists. Keys in args that match no declared name are ignored.
func (s *Spec) Resolve(args Args) (*Resolved, error) {
	r := &Resolved{Headers: make(map[string]string, len(s.headers))}

	for _, a := range s.query {
		v, err := a.Resolve(args)
		if err != nil {
			return nil, err
		}
		if IsAbsent(v) || v == nil {
			continue
		}
		for _, value := range FormatValues(v) {
			r.Query = append(r.Query, QueryParam{Key: a.Name, Value: value})
		}
	}

	for _, name := range s.pathNames {
		if _, ok := args[name]; !ok {
			return nil, &MissingArgumentError{Name: name}
		}
	}
	path, err := s.path.BindEscaped(args, url.PathEscape)
	if err != nil {
		return nil, err
	}
	r.Path = path

	for _, h := range s.headers {
		v, err := h.Template.Bind(args)
		if err != nil {
			return nil, err
		}
		r.Headers[h.Key] = v
	}

	if s.bodyType != BodyNone {
		if body, ok := args[s.bodyArg]; ok && body != nil {
			r.Body = body
			r.HasBody = true
		}
	}
	if s.bodyRequired && !r.HasBody {
		return nil, &MissingBodyError{Arg: s.bodyArg}
	}
	return r, nil
}
