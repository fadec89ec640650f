package catalog

import (
	"fmt"
	"net/http"
	"strings"
)

// allowedMethods is the whitelist of HTTP methods an operation may use.
var allowedMethods = map[string]bool{
	http.MethodGet: true, http.MethodPost: true, http.MethodPut: true, http.MethodDelete: true,
}

// Registry maps operation names to their specs.
//
// All Register calls happen during startup, before the registry is shared.
// After that it is only read, so lookups take no locks.
type Registry struct {
	specs map[string]OperationSpec
	uris  map[string]string
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		specs: make(map[string]OperationSpec),
		uris:  make(map[string]string),
	}
}

// Register validates spec and adds it to the registry.
func (r *Registry) Register(spec OperationSpec) error {
	if err := ValidateSpec(spec); err != nil {
		return err
	}
	if _, exists := r.specs[spec.Name]; exists {
		return fmt.Errorf("operation %q already registered", spec.Name)
	}
	if spec.URI != "" {
		if owner, exists := r.uris[spec.URI]; exists {
			return fmt.Errorf("resource URI %q of %q already registered by %q", spec.URI, spec.Name, owner)
		}
		r.uris[spec.URI] = spec.Name
	}
	r.specs[spec.Name] = spec.clone()
	r.order = append(r.order, spec.Name)
	return nil
}

// MustRegister is Register for the built-in table; an invalid spec is a
// programming error and stops the process at startup.
func (r *Registry) MustRegister(specs ...OperationSpec) *Registry {
	for _, spec := range specs {
		if err := r.Register(spec); err != nil {
			panic(fmt.Sprintf("catalog: %v", err))
		}
	}
	return r
}

// Resolve returns the operation registered under name.
func (r *Registry) Resolve(name string) (OperationSpec, error) {
	spec, ok := r.specs[name]
	if !ok {
		return OperationSpec{}, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	return spec, nil
}

// ResolveURI returns the resource registered under uri.
func (r *Registry) ResolveURI(uri string) (OperationSpec, error) {
	name, ok := r.uris[uri]
	if !ok {
		return OperationSpec{}, fmt.Errorf("%w: no resource at %q", ErrUnknownOperation, uri)
	}
	return r.specs[name], nil
}

// Operations returns every operation in registration order.
func (r *Registry) Operations() []OperationSpec {
	out := make([]OperationSpec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.specs[name])
	}
	return out
}

// Tools returns the tool specs in registration order.
func (r *Registry) Tools() []OperationSpec {
	return r.filter(KindTool)
}

// Resources returns the resource specs in registration order.
func (r *Registry) Resources() []OperationSpec {
	return r.filter(KindResource)
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	return len(r.order)
}

func (r *Registry) filter(kind Kind) []OperationSpec {
	var out []OperationSpec
	for _, name := range r.order {
		if spec := r.specs[name]; spec.Kind == kind {
			out = append(out, spec)
		}
	}
	return out
}

// ValidateSpec checks the internal consistency of one spec: every path
// placeholder and body field must name a declared parameter, defaults must
// be declared and coercible, and the method must fit the kind.
func ValidateSpec(s OperationSpec) error {
	if s.Name == "" {
		return fmt.Errorf("operation has empty name")
	}

	switch s.Kind {
	case KindTool:
		if s.URI != "" {
			return fmt.Errorf("tool %q must not declare a resource URI", s.Name)
		}
		if s.IsStatic() {
			return fmt.Errorf("tool %q cannot be constant-backed", s.Name)
		}
	case KindResource:
		if s.URI == "" || !strings.Contains(s.URI, "://") {
			return fmt.Errorf("resource %q has invalid URI %q", s.Name, s.URI)
		}
	default:
		return fmt.Errorf("operation %q has unknown kind %q", s.Name, s.Kind)
	}

	if s.IsStatic() {
		if s.Method != "" || s.Path != "" || len(s.Params) > 0 || len(s.Body) > 0 {
			return fmt.Errorf("constant resource %q must not declare a request shape", s.Name)
		}
		return nil
	}

	if !allowedMethods[s.Method] {
		return fmt.Errorf("operation %q has unsupported method %q", s.Name, s.Method)
	}
	if s.Kind == KindResource && s.Method != http.MethodGet {
		return fmt.Errorf("resource %q must use GET, got %s", s.Name, s.Method)
	}
	if !strings.HasPrefix(s.Path, "/") {
		return fmt.Errorf("operation %q has invalid path %q (must start with /)", s.Name, s.Path)
	}
	if strings.Contains(s.Path, "..") || strings.ContainsAny(s.Path, "?#") {
		return fmt.Errorf("operation %q has invalid path %q", s.Name, s.Path)
	}
	if strings.Count(s.Path, "{") != len(placeholders(s.Path)) || strings.Count(s.Path, "}") != len(placeholders(s.Path)) {
		return fmt.Errorf("operation %q has malformed placeholder in %q", s.Name, s.Path)
	}

	declared := make(map[string]Param, len(s.Params))
	for _, p := range s.Params {
		if err := validateParam(s.Name, p); err != nil {
			return err
		}
		if _, dup := declared[p.Name]; dup {
			return fmt.Errorf("operation %q declares parameter %q twice", s.Name, p.Name)
		}
		declared[p.Name] = p
	}

	inPath := make(map[string]bool)
	for _, name := range placeholders(s.Path) {
		p, ok := declared[name]
		if !ok {
			return fmt.Errorf("operation %q path %q references undeclared parameter %q", s.Name, s.Path, name)
		}
		if inPath[name] {
			return fmt.Errorf("operation %q path %q repeats placeholder %q", s.Name, s.Path, name)
		}
		if !p.Required && IsOmit(p.Default) {
			return fmt.Errorf("operation %q path parameter %q cannot default to Omit", s.Name, name)
		}
		inPath[name] = true
	}

	if len(s.Body) > 0 && s.Method != http.MethodPost && s.Method != http.MethodPut {
		return fmt.Errorf("operation %q declares a body on %s", s.Name, s.Method)
	}
	keys := make(map[string]bool, len(s.Body))
	for _, f := range s.Body {
		if _, ok := declared[f.Param]; !ok {
			return fmt.Errorf("operation %q body key %q references undeclared parameter %q", s.Name, f.Key, f.Param)
		}
		if inPath[f.Param] {
			return fmt.Errorf("operation %q parameter %q cannot be in both path and body", s.Name, f.Param)
		}
		if f.Key == "" || strings.HasPrefix(f.Key, ".") || strings.HasSuffix(f.Key, ".") || strings.Contains(f.Key, "..") {
			return fmt.Errorf("operation %q has invalid body key %q", s.Name, f.Key)
		}
		if keys[f.Key] {
			return fmt.Errorf("operation %q declares body key %q twice", s.Name, f.Key)
		}
		keys[f.Key] = true
	}
	for key := range keys {
		for other := range keys {
			if strings.HasPrefix(other, key+".") {
				return fmt.Errorf("operation %q body key %q is both a value and a parent of %q", s.Name, key, other)
			}
		}
	}
	return nil
}

func validateParam(op string, p Param) error {
	if p.Name == "" {
		return fmt.Errorf("operation %q has a parameter with empty name", op)
	}
	switch p.Type {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeStringArray:
	default:
		return fmt.Errorf("operation %q parameter %q has unknown type %q", op, p.Name, p.Type)
	}
	if len(p.Enum) > 0 && p.Type != TypeString {
		return fmt.Errorf("operation %q parameter %q: enum is only supported on strings", op, p.Name)
	}

	if p.Required {
		if p.Default != nil {
			return fmt.Errorf("operation %q required parameter %q must not declare a default", op, p.Name)
		}
		return nil
	}
	if p.Default == nil {
		return fmt.Errorf("operation %q parameter %q has no default (use catalog.Omit)", op, p.Name)
	}
	if !IsOmit(p.Default) {
		if _, err := coerce(p.Type, p.Default); err != nil {
			return fmt.Errorf("operation %q parameter %q default: %v", op, p.Name, err)
		}
	}
	if p.OmitValue != nil {
		if _, err := coerce(p.Type, p.OmitValue); err != nil {
			return fmt.Errorf("operation %q parameter %q omit value: %v", op, p.Name, err)
		}
	}
	return nil
}
