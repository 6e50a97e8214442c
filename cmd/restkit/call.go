package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/restkit/client"
	"github.com/kbukum/restkit/endpoint"
)

type callFlags struct {
	args     []string
	jsonArgs []string
	body     string
	headers  []string
	query    []string
	timeout  time.Duration
	async    bool
}

func newCallCmd(flags *globalFlags) *cobra.Command {
	var cf callFlags

	cmd := &cobra.Command{
		Use:   "call <endpoint>",
		Short: "Call an endpoint of the catalogue",
		Example: `  restkit call get_things --arg user_id=2345 --arg type=cat
  restkit call create_pet --body '{"name":"rex"}'
  restkit call create_pet --body @pet.json --async`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flags)
			if err != nil {
				return err
			}
			entry, ok := a.catalog.Entry(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", client.ErrUnknownEndpoint, args[0])
			}
			callArgs, err := cf.buildArgs(entry.Spec)
			if err != nil {
				return err
			}
			opts, err := cf.callOptions()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			c, stop, err := a.start(ctx, cf.async)
			if err != nil {
				return err
			}
			defer stop()

			if d := callTimeout(c.Config()); d > 0 && cf.timeout == 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
			}

			result, err := runCall(ctx, c, entry.Name, callArgs, opts, cf.async)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), result)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&cf.args, "arg", "a", nil, "Call argument as name=value (repeatable)")
	f.StringArrayVar(&cf.jsonArgs, "json-arg", nil, "Call argument as name=<json> (repeatable)")
	f.StringVarP(&cf.body, "body", "d", "", "Request body as JSON, or @file to read it from a file")
	f.StringArrayVarP(&cf.headers, "header", "H", nil, "Extra request header as Name=value (repeatable)")
	f.StringArrayVarP(&cf.query, "query", "q", nil, "Extra query parameter as name=value (repeatable)")
	f.DurationVar(&cf.timeout, "timeout", 0, "Timeout for this call (overrides client.timeout)")
	f.BoolVar(&cf.async, "async", false, "Run the call on the async worker pool")
	return cmd
}

// runCall invokes name synchronously or on the client's pool. An async call
// waits for its future rather than ctx, so a call that queued behind others
// still reports its own outcome.
func runCall(ctx context.Context, c *client.Client, name string, args endpoint.Args, opts []client.CallOption, async bool) (any, error) {
	if !async {
		return c.Call(ctx, name, args, opts...)
	}
	future, err := c.CallAsync(ctx, name, args, opts...)
	if err != nil {
		return nil, err
	}
	return future.Result()
}

// buildArgs turns the command line into call arguments for spec.
func (cf *callFlags) buildArgs(spec *endpoint.Spec) (endpoint.Args, error) {
	args := endpoint.Args{}
	for _, kv := range cf.args {
		k, v, err := splitPair(kv, "--arg")
		if err != nil {
			return nil, err
		}
		args[k] = v
	}
	for _, kv := range cf.jsonArgs {
		k, raw, err := splitPair(kv, "--json-arg")
		if err != nil {
			return nil, err
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("--json-arg %s: %w", k, err)
		}
		args[k] = v
	}

	if cf.body == "" {
		return args, nil
	}
	if spec.BodyType() == endpoint.BodyNone {
		return nil, fmt.Errorf("endpoint takes no body")
	}
	data, err := readBody(cf.body)
	if err != nil {
		return nil, err
	}
	if spec.BodyType() == endpoint.BodyRaw {
		args[spec.BodyArg()] = data
		return args, nil
	}
	var body any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("--body: %w", err)
	}
	args[spec.BodyArg()] = body
	return args, nil
}

func (cf *callFlags) callOptions() ([]client.CallOption, error) {
	var opts []client.CallOption
	if len(cf.headers) > 0 {
		headers := make(map[string]string, len(cf.headers))
		for _, kv := range cf.headers {
			k, v, err := splitPair(kv, "--header")
			if err != nil {
				return nil, err
			}
			headers[k] = v
		}
		opts = append(opts, client.WithHeaders(headers))
	}
	for _, kv := range cf.query {
		k, v, err := splitPair(kv, "--query")
		if err != nil {
			return nil, err
		}
		opts = append(opts, client.WithQuery(k, v))
	}
	if cf.timeout > 0 {
		opts = append(opts, client.WithTimeout(cf.timeout))
	}
	return opts, nil
}

func splitPair(kv, flag string) (string, string, error) {
	k, v, ok := strings.Cut(kv, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("%s %q: expected name=value", flag, kv)
	}
	return k, v, nil
}

func readBody(s string) ([]byte, error) {
	path, ok := strings.CutPrefix(s, "@")
	if !ok {
		return []byte(s), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

// writeResult prints a decoded response: JSON indented, text verbatim and
// binary bodies base64 encoded.
func writeResult(w io.Writer, result any) error {
	switch v := result.(type) {
	case nil:
		return nil
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	case []byte:
		_, err := fmt.Fprintln(w, base64.StdEncoding.EncodeToString(v))
		return err
	default:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}
}
