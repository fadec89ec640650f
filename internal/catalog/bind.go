package catalog

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Argument is one declared parameter after default filling. Present is
// false when the parameter resolved to Omit; such arguments never reach the
// outbound request.
type Argument struct {
	Param   Param
	Value   any
	Present bool
}

// Arguments is a fully defaulted argument set in declared parameter order.
type Arguments []Argument

// Get returns the value of a present argument.
func (a Arguments) Get(name string) (any, bool) {
	for _, arg := range a {
		if arg.Param.Name == name {
			return arg.Value, arg.Present
		}
	}
	return nil, false
}

// Bind fills defaults for every declared parameter and coerces supplied
// values to their declared types.
//
// A parameter is treated as not supplied when its key is missing, its value
// is nil, or its value equals the parameter's OmitValue. Keys that are not
// declared parameters are ignored.
func (s OperationSpec) Bind(args map[string]any) (Arguments, error) {
	bound := make(Arguments, 0, len(s.Params))
	for _, p := range s.Params {
		raw, supplied := args[p.Name]
		if supplied && raw != nil {
			v, err := coerce(p.Type, raw)
			if err != nil {
				return nil, &ArgumentError{Operation: s.Name, Param: p.Name, Reason: err.Error()}
			}
			if !p.isOmitValue(v) {
				bound = append(bound, Argument{Param: p, Value: v, Present: true})
				continue
			}
		}

		switch {
		case p.Required:
			return nil, &ArgumentError{Operation: s.Name, Param: p.Name, Reason: "is required"}
		case IsOmit(p.Default):
			bound = append(bound, Argument{Param: p})
		default:
			// Defaults are checked by ValidateSpec, so coercion cannot fail here.
			v, _ := coerce(p.Type, p.Default)
			bound = append(bound, Argument{Param: p, Value: v, Present: true})
		}
	}
	return bound, nil
}

func (p Param) isOmitValue(v any) bool {
	if p.OmitValue == nil {
		return false
	}
	omit, err := coerce(p.Type, p.OmitValue)
	return err == nil && reflect.DeepEqual(v, omit)
}

// coerce converts v to the Go type backing t: string, int64, float64, bool
// or []string. Input is loosely typed (JSON numbers arrive as float64,
// some clients send numbers as strings), so decoding is weak. Booleans are
// never read as numbers and numeric strings are always base 10.
func coerce(t ParamType, v any) (any, error) {
	switch t {
	case TypeString:
		if b, ok := v.(bool); ok {
			return strconv.FormatBool(b), nil
		}
		var out string
		if err := mapstructure.WeakDecode(v, &out); err != nil {
			return nil, fmt.Errorf("expected string: %w", err)
		}
		return out, nil

	case TypeInteger:
		switch n := v.(type) {
		case bool:
			return nil, fmt.Errorf("expected integer, got %v", n)
		case string:
			out, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("expected integer, got %q", n)
			}
			return out, nil
		case float64:
			if n != math.Trunc(n) {
				return nil, fmt.Errorf("expected integer, got %v", n)
			}
			// float64(math.MaxInt64) rounds up to 2^63.
			if n >= math.MaxInt64 || n < math.MinInt64 {
				return nil, fmt.Errorf("integer %v out of range", n)
			}
		}
		var out int64
		if err := mapstructure.WeakDecode(v, &out); err != nil {
			return nil, fmt.Errorf("expected integer: %w", err)
		}
		return out, nil

	case TypeNumber:
		if b, ok := v.(bool); ok {
			return nil, fmt.Errorf("expected number, got %v", b)
		}
		var out float64
		if err := mapstructure.WeakDecode(v, &out); err != nil {
			return nil, fmt.Errorf("expected number: %w", err)
		}
		if math.IsNaN(out) || math.IsInf(out, 0) {
			return nil, fmt.Errorf("expected finite number, got %v", out)
		}
		return out, nil

	case TypeBoolean:
		var out bool
		if err := mapstructure.WeakDecode(v, &out); err != nil {
			return nil, fmt.Errorf("expected boolean: %w", err)
		}
		return out, nil

	case TypeStringArray:
		var out []string
		if err := mapstructure.WeakDecode(v, &out); err != nil {
			return nil, fmt.Errorf("expected array of strings: %w", err)
		}
		if out == nil {
			out = []string{}
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown type %q", t)
}
