package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// OpenAPI describes the content API contract the registry relies on: one
// operation per distinct method and path, with the query, path and body
// parameters the relay sends. Constant resources and resources that share a
// method and path with an earlier operation are not repeated.
func OpenAPI(reg *Registry, baseURL, version string) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "contentflow content API",
			Description: "Endpoints called by contentflow-mcp.",
			Version:     version,
		},
		Paths: openapi3.NewPaths(),
	}
	if baseURL != "" {
		doc.Servers = openapi3.Servers{{URL: baseURL}}
	}

	seen := make(map[string]bool)
	for _, spec := range reg.Operations() {
		if spec.IsStatic() {
			continue
		}
		key := spec.Method + " " + spec.Path
		if seen[key] {
			continue
		}
		seen[key] = true

		op, err := buildOperation(spec)
		if err != nil {
			return nil, fmt.Errorf("openapi: %s: %w", spec.Name, err)
		}
		item := doc.Paths.Value(spec.Path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(spec.Path, item)
		}
		item.SetOperation(spec.Method, op)
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("openapi: validating document: %w", err)
	}
	return doc, nil
}

func buildOperation(spec OperationSpec) (*openapi3.Operation, error) {
	op := openapi3.NewOperation()
	op.OperationID = spec.Name
	op.Summary = spec.Description
	op.Tags = []string{tagFor(spec.Path)}

	for _, p := range spec.Params {
		var param *openapi3.Parameter
		switch spec.Location(p.Name) {
		case InPath:
			param = openapi3.NewPathParameter(p.Name)
		case InQuery:
			param = openapi3.NewQueryParameter(p.Key())
			param.Required = p.Required
		default:
			continue
		}
		schema, err := paramSchema(p)
		if err != nil {
			return nil, err
		}
		param.Description = p.Description
		param.Schema = schema.NewRef()
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: param})
	}

	if spec.HasBody() {
		schema, err := bodySchema(spec)
		if err != nil {
			return nil, err
		}
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithJSONSchema(schema),
		}
	}

	op.AddResponse(200, openapi3.NewResponse().
		WithDescription("JSON payload relayed to the caller unchanged").
		WithJSONSchema(openapi3.NewSchema()))
	return op, nil
}

// bodySchema builds the nested object schema declared by the dotted body keys.
func bodySchema(spec OperationSpec) (*openapi3.Schema, error) {
	root := openapi3.NewObjectSchema()
	for _, f := range spec.Body {
		p, _ := spec.Param(f.Param)
		leaf, err := paramSchema(p)
		if err != nil {
			return nil, err
		}

		parts := strings.Split(f.Key, ".")
		obj := root
		for _, part := range parts[:len(parts)-1] {
			ref, ok := obj.Properties[part]
			if !ok {
				ref = openapi3.NewObjectSchema().NewRef()
				obj.Properties[part] = ref
			}
			if p.Required && !contains(obj.Required, part) {
				obj.Required = append(obj.Required, part)
			}
			obj = ref.Value
		}

		name := parts[len(parts)-1]
		obj.Properties[name] = leaf.NewRef()
		if p.Required {
			obj.Required = append(obj.Required, name)
		}
	}
	return root, nil
}

func paramSchema(p Param) (*openapi3.Schema, error) {
	var schema *openapi3.Schema
	switch p.Type {
	case TypeString:
		schema = openapi3.NewStringSchema()
	case TypeInteger:
		schema = openapi3.NewInt64Schema()
	case TypeNumber:
		schema = openapi3.NewFloat64Schema()
	case TypeBoolean:
		schema = openapi3.NewBoolSchema()
	case TypeStringArray:
		schema = openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	default:
		return nil, fmt.Errorf("parameter %q has unknown type %q", p.Name, p.Type)
	}
	schema.Description = p.Description

	if !p.Required && !IsOmit(p.Default) {
		v, err := coerce(p.Type, p.Default)
		if err != nil {
			return nil, fmt.Errorf("parameter %q default: %w", p.Name, err)
		}
		def, err := jsonNative(v)
		if err != nil {
			return nil, err
		}
		schema.Default = def
	}
	for _, e := range p.Enum {
		schema.Enum = append(schema.Enum, e)
	}
	return schema, nil
}

// jsonNative converts a Go value to what encoding/json would decode it as,
// so schema defaults compare equal to decoded request values.
func jsonNative(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func tagFor(path string) string {
	seg := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)[0]
	if seg == "" {
		return "default"
	}
	return seg
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
