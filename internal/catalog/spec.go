// Package catalog holds the fixed table of operations contentflow-mcp
// exposes and the rules that turn caller arguments into a fully defaulted
// argument set.
//
// Every tool and resource is an OperationSpec: a name, an ordered parameter
// list with declared defaults, and the HTTP method, path template and body
// shape the relay must produce. The table is built once at startup and is
// read-only afterwards.
package catalog

import (
	"regexp"
	"strings"
)

// Kind distinguishes invokable tools from read-only resources.
type Kind string

const (
	KindTool     Kind = "tool"
	KindResource Kind = "resource"
)

// ParamType is the declared type of a parameter. Caller values are coerced
// to it before translation.
type ParamType string

const (
	TypeString      ParamType = "string"
	TypeInteger     ParamType = "integer"
	TypeNumber      ParamType = "number"
	TypeBoolean     ParamType = "boolean"
	TypeStringArray ParamType = "array"
)

// Location is where a bound parameter ends up in the outbound request.
type Location int

const (
	InQuery Location = iota
	InPath
	InBody
)

func (l Location) String() string {
	switch l {
	case InPath:
		return "path"
	case InBody:
		return "body"
	default:
		return "query"
	}
}

type omission struct{}

func (omission) String() string { return "<omit>" }

// Omit is the omission default: a parameter declared with Default: Omit
// that the caller does not supply is left out of the request entirely. It
// never turns into an empty string or a zero value.
var Omit = omission{}

// IsOmit reports whether v is the omission default.
func IsOmit(v any) bool {
	_, ok := v.(omission)
	return ok
}

// Param declares one operation parameter.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool

	// Default applies when the caller supplies no value. Required
	// parameters have no default; every other parameter must set either a
	// concrete value or Omit.
	Default any

	// OmitValue is a caller value that also means "absent", e.g. a source
	// filter of "all". Nil disables it.
	OmitValue any

	Enum []string

	// QueryKey renames the parameter on the query string. Empty means Name.
	QueryKey string
}

// Key returns the query string name of the parameter.
func (p Param) Key() string {
	if p.QueryKey != "" {
		return p.QueryKey
	}
	return p.Name
}

// BodyField maps a parameter onto a JSON body key. Key is a dotted path,
// so "formData.topic" nests under a formData object. One parameter may
// feed several keys.
type BodyField struct {
	Key   string
	Param string
}

// OperationSpec describes one tool or resource.
type OperationSpec struct {
	Name        string
	Description string
	Kind        Kind

	// URI addresses a resource, e.g. "trends://daily". Empty for tools.
	URI string

	Method string
	Path   string
	Params []Param
	Body   []BodyField

	// Static, when set, is returned as the resource payload without
	// contacting the content API.
	Static any
}

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// placeholders returns the parameter names referenced by a path template,
// in template order.
func placeholders(path string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(path, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// IsStatic reports whether the operation is served from a constant.
func (s OperationSpec) IsStatic() bool {
	return s.Static != nil
}

// Param returns the declared parameter with the given name.
func (s OperationSpec) Param(name string) (Param, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// PathParams returns the parameters interpolated into the path template.
func (s OperationSpec) PathParams() []string {
	return placeholders(s.Path)
}

// Location returns where the named parameter is placed in the request.
// Path placement wins, then body; anything else is a query parameter.
func (s OperationSpec) Location(name string) Location {
	if strings.Contains(s.Path, "{"+name+"}") {
		return InPath
	}
	for _, f := range s.Body {
		if f.Param == name {
			return InBody
		}
	}
	return InQuery
}

// HasBody reports whether the operation declares a JSON body shape.
func (s OperationSpec) HasBody() bool {
	return len(s.Body) > 0
}

func (s OperationSpec) clone() OperationSpec {
	c := s
	c.Params = make([]Param, len(s.Params))
	for i, p := range s.Params {
		p.Enum = append([]string(nil), p.Enum...)
		c.Params[i] = p
	}
	c.Body = append([]BodyField(nil), s.Body...)
	return c
}
