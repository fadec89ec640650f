package relay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bobmcallan/contentflow-mcp/internal/catalog"
)

// supportedMethods are the methods the translator will emit.
var supportedMethods = map[string]bool{
	http.MethodGet: true, http.MethodPost: true, http.MethodPut: true, http.MethodDelete: true,
}

// OutboundRequest is the HTTP request derived from one invocation.
type OutboundRequest struct {
	Method string

	// Path is the interpolated path plus encoded query, relative to the
	// base URL.
	Path string
	URL  string

	// Body is the JSON payload, nil when nothing is sent.
	Body []byte
}

// Translate builds the outbound request for spec from a bound argument set.
// It performs no I/O.
func Translate(spec catalog.OperationSpec, args catalog.Arguments, baseURL string) (*OutboundRequest, error) {
	if !supportedMethods[spec.Method] {
		return nil, newError(KindInvalidArgument, spec.Name, fmt.Errorf("unsupported method %q", spec.Method))
	}

	path, err := interpolatePath(spec, args)
	if err != nil {
		return nil, err
	}

	if query := buildQuery(spec, args); query != "" {
		path += "?" + query
	}

	var body []byte
	if spec.HasBody() && (spec.Method == http.MethodPost || spec.Method == http.MethodPut) {
		body, err = buildBody(spec, args)
		if err != nil {
			return nil, newError(KindInvalidArgument, spec.Name, err)
		}
	}

	return &OutboundRequest{
		Method: spec.Method,
		Path:   path,
		URL:    strings.TrimRight(baseURL, "/") + path,
		Body:   body,
	}, nil
}

// interpolatePath replaces each {param} with its value escaped as a single
// path segment.
func interpolatePath(spec catalog.OperationSpec, args catalog.Arguments) (string, error) {
	path := spec.Path
	for _, name := range spec.PathParams() {
		v, present := args.Get(name)
		if !present {
			return "", newError(KindInvalidArgument, spec.Name, fmt.Errorf("path parameter %q has no value", name))
		}
		seg := formatValue(v)
		if seg == "" {
			return "", newError(KindInvalidArgument, spec.Name, fmt.Errorf("path parameter %q is empty", name))
		}
		path = strings.Replace(path, "{"+name+"}", url.PathEscape(seg), 1)
	}
	return path, nil
}

// buildQuery encodes query parameters in declared order. url.Values is not
// used because its Encode sorts keys.
func buildQuery(spec catalog.OperationSpec, args catalog.Arguments) string {
	var parts []string
	for _, arg := range args {
		if !arg.Present || spec.Location(arg.Param.Name) != catalog.InQuery {
			continue
		}
		key := url.QueryEscape(arg.Param.Key())
		if list, ok := arg.Value.([]string); ok {
			for _, item := range list {
				parts = append(parts, key+"="+url.QueryEscape(item))
			}
			continue
		}
		parts = append(parts, key+"="+url.QueryEscape(formatValue(arg.Value)))
	}
	return strings.Join(parts, "&")
}

// buildBody assembles the declared body fields into a JSON object, nesting
// on dotted keys. When no field has a value the body is an empty object.
func buildBody(spec catalog.OperationSpec, args catalog.Arguments) ([]byte, error) {
	root := make(map[string]any)
	for _, f := range spec.Body {
		v, present := args.Get(f.Param)
		if !present {
			continue
		}
		parts := strings.Split(f.Key, ".")
		obj := root
		for _, part := range parts[:len(parts)-1] {
			next, ok := obj[part].(map[string]any)
			if !ok {
				next = make(map[string]any)
				obj[part] = next
			}
			obj = next
		}
		obj[parts[len(parts)-1]] = v
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encoding body: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []string:
		return strings.Join(val, ",")
	default:
		return fmt.Sprint(val)
	}
}
