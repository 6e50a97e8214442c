package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/restkit/client"
	"github.com/kbukum/restkit/endpoint"
)

// ErrUnknownProducer is returned for a query default naming no producer.
var ErrUnknownProducer = errors.New("catalog: unknown producer")

// Entry is one named endpoint of a catalogue.
type Entry struct {
	Name        string
	Description string
	Spec        *endpoint.Spec
}

// Catalog is a loaded catalogue.
type Catalog struct {
	// Client is the client configuration from the document.
	Client  client.Config
	entries []Entry
}

type document struct {
	Client    client.Config `yaml:"client"`
	Endpoints yaml.Node     `yaml:"endpoints"`
}

type endpointDoc struct {
	Description string            `yaml:"description"`
	Method      string            `yaml:"method"`
	Path        string            `yaml:"path"`
	Query       []argDoc          `yaml:"query"`
	Headers     map[string]string `yaml:"headers"`
	Body        *bodyDoc          `yaml:"body"`
}

type argDoc struct {
	Name     string `yaml:"name"`
	Required bool   `yaml:"required"`
	Default  any    `yaml:"default"`
	Producer string `yaml:"producer"`
}

type bodyDoc struct {
	Type     string `yaml:"type"`
	Required bool   `yaml:"required"`
	Arg      string `yaml:"arg"`
}

// Option configures loading.
type Option func(*loader)

type loader struct {
	producers map[string]Producer
}

// WithProducer makes fn available as a named query default producer.
func WithProducer(name string, fn Producer) Option {
	return func(l *loader) { l.producers[name] = fn }
}

// Load parses and validates a catalogue.
func Load(r io.Reader, opts ...Option) (*Catalog, error) {
	l := &loader{producers: DefaultProducers()}
	for _, opt := range opts {
		opt(l)
	}

	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog: empty document")
		}
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}

	cat := &Catalog{Client: doc.Client}
	if doc.Endpoints.Kind == 0 {
		return cat, nil
	}
	if doc.Endpoints.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("catalog: line %d: endpoints must be a mapping", doc.Endpoints.Line)
	}

	seen := make(map[string]bool)
	content := doc.Endpoints.Content
	for i := 0; i+1 < len(content); i += 2 {
		key, value := content[i], content[i+1]
		name := key.Value
		if seen[name] {
			return nil, fmt.Errorf("catalog: line %d: endpoint %q defined twice", key.Line, name)
		}
		seen[name] = true

		var ed endpointDoc
		if err := value.Decode(&ed); err != nil {
			return nil, fmt.Errorf("catalog: endpoint %q: %w", name, err)
		}
		spec, err := l.build(ed)
		if err != nil {
			return nil, fmt.Errorf("catalog: endpoint %q: %w", name, err)
		}
		cat.entries = append(cat.entries, Entry{Name: name, Description: ed.Description, Spec: spec})
	}
	return cat, nil
}

// LoadFile loads the catalogue at path.
func LoadFile(path string, opts ...Option) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f, opts...)
}

func (l *loader) build(ed endpointDoc) (*endpoint.Spec, error) {
	if ed.Path == "" {
		return nil, errors.New("path is required")
	}
	method := endpoint.MethodGet
	if ed.Method != "" {
		method = endpoint.Method(strings.ToUpper(ed.Method))
	}

	var opts []endpoint.Option
	for _, a := range ed.Query {
		arg, err := l.arg(a)
		if err != nil {
			return nil, err
		}
		opts = append(opts, endpoint.WithQuery(arg))
	}
	if len(ed.Headers) > 0 {
		opts = append(opts, endpoint.WithHeaders(ed.Headers))
	}
	if ed.Body != nil {
		bt, err := endpoint.ParseBodyType(ed.Body.Type)
		if err != nil {
			return nil, err
		}
		opts = append(opts, endpoint.WithBodyType(bt))
		if ed.Body.Required {
			opts = append(opts, endpoint.WithBodyRequired())
		}
		if ed.Body.Arg != "" {
			opts = append(opts, endpoint.WithBodyArg(ed.Body.Arg))
		}
	}
	return endpoint.New(method, ed.Path, opts...)
}

func (l *loader) arg(a argDoc) (endpoint.Arg, error) {
	arg := endpoint.Arg{Name: a.Name, Required: a.Required}
	switch {
	case a.Producer != "" && a.Default != nil:
		return arg, fmt.Errorf("query arg %q: default and producer are exclusive", a.Name)
	case a.Producer != "":
		fn, ok := l.producers[a.Producer]
		if !ok {
			return arg, fmt.Errorf("query arg %q: %w %q", a.Name, ErrUnknownProducer, a.Producer)
		}
		arg.Default = endpoint.Produced(fn)
	case a.Default != nil:
		arg.Default = endpoint.Static(a.Default)
	}
	return arg, nil
}

// Entries returns the endpoints in document order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Entry returns the named endpoint.
func (c *Catalog) Entry(name string) (Entry, bool) {
	for _, e := range c.entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Build creates a client from the catalogue's client configuration with
// every endpoint registered in document order.
func (c *Catalog) Build(opts ...client.Option) (*client.Client, error) {
	all := make([]client.Option, 0, len(c.entries)+len(opts))
	for _, e := range c.entries {
		all = append(all, client.WithEndpoint(e.Name, e.Spec))
	}
	return client.New(c.Client, append(all, opts...)...)
}
