// Package relay resolves a named invocation against the catalog, translates
// it into exactly one HTTP request to the content API and hands back the
// JSON body unchanged.
//
// Each invocation runs Resolving, Building, Dispatching and ends Completed
// or Failed. There is no retry. The only blocking step is the HTTP call,
// which honours the caller's context and the configured per-call timeout.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/contentflow-mcp/internal/catalog"
	"github.com/bobmcallan/contentflow-mcp/internal/common"
)

// Invocation states, as they appear in debug logs.
const (
	stateResolving   = "resolving"
	stateBuilding    = "building"
	stateDispatching = "dispatching"
	stateCompleted   = "completed"
	stateFailed      = "failed"
)

// Relay executes catalog operations.
type Relay struct {
	registry *catalog.Registry
	proxy    *Proxy
	baseURL  string
	logger   *common.Logger
	metrics  *Metrics
}

// New creates a relay. metrics may be nil.
func New(registry *catalog.Registry, proxy *Proxy, baseURL string, logger *common.Logger, metrics *Metrics) *Relay {
	return &Relay{
		registry: registry,
		proxy:    proxy,
		baseURL:  baseURL,
		logger:   logger,
		metrics:  metrics,
	}
}

// Registry returns the catalog the relay serves.
func (r *Relay) Registry() *catalog.Registry {
	return r.registry
}

// BaseURL returns the content API base URL.
func (r *Relay) BaseURL() string {
	return r.baseURL
}

// Invoke runs the operation registered under name with the caller's raw
// arguments.
func (r *Relay) Invoke(ctx context.Context, name string, args map[string]any) (*Response, error) {
	ctx, log := r.begin(ctx)
	start := time.Now()

	log.Debug().Str("operation", name).Str("state", stateResolving).Msg("invocation")
	spec, err := r.registry.Resolve(name)
	if err != nil {
		return nil, r.fail(log, name, "", start, newError(KindUnknownOperation, name, err))
	}
	return r.run(ctx, log, spec, args, start)
}

// InvokeURI reads the resource registered under uri.
func (r *Relay) InvokeURI(ctx context.Context, uri string) (*Response, error) {
	ctx, log := r.begin(ctx)
	start := time.Now()

	log.Debug().Str("uri", uri).Str("state", stateResolving).Msg("invocation")
	spec, err := r.registry.ResolveURI(uri)
	if err != nil {
		return nil, r.fail(log, uri, "", start, newError(KindUnknownOperation, uri, err))
	}
	return r.run(ctx, log, spec, nil, start)
}

// Probe GETs a path outside the catalog, such as the content API's health
// endpoint. It goes through the same client and classification as Invoke.
func (r *Relay) Probe(ctx context.Context, path string) (*Response, error) {
	ctx, log := r.begin(ctx)
	out := &OutboundRequest{
		Method: http.MethodGet,
		Path:   path,
		URL:    strings.TrimRight(r.baseURL, "/") + path,
	}
	return r.proxy.Do(ctx, "probe", out, log)
}

func (r *Relay) begin(ctx context.Context) (context.Context, *common.Logger) {
	id := CorrelationID(ctx)
	if id == "" {
		id = uuid.New().String()
		ctx = WithCorrelationID(ctx, id)
	}
	return ctx, r.logger.WithCorrelationId(id)
}

func (r *Relay) run(ctx context.Context, log *common.Logger, spec catalog.OperationSpec, raw map[string]any, start time.Time) (*Response, error) {
	kind := string(spec.Kind)

	log.Debug().Str("operation", spec.Name).Str("state", stateBuilding).Msg("invocation")
	if spec.IsStatic() {
		body, err := json.Marshal(spec.Static)
		if err != nil {
			return nil, r.fail(log, spec.Name, kind, start, newError(KindDownstream, spec.Name, fmt.Errorf("encoding constant resource: %w", err)))
		}
		r.complete(log, spec.Name, kind, start, http.StatusOK)
		return &Response{Status: http.StatusOK, Body: body, Static: true}, nil
	}

	args, err := spec.Bind(raw)
	if err != nil {
		return nil, r.fail(log, spec.Name, kind, start, newError(KindInvalidArgument, spec.Name, err))
	}
	out, err := Translate(spec, args, r.baseURL)
	if err != nil {
		return nil, r.fail(log, spec.Name, kind, start, err)
	}

	log.Debug().Str("operation", spec.Name).Str("state", stateDispatching).Str("method", out.Method).Str("path", out.Path).Msg("invocation")
	resp, err := r.proxy.Do(ctx, spec.Name, out, log)
	if err != nil {
		return nil, r.fail(log, spec.Name, kind, start, err)
	}

	r.complete(log, spec.Name, kind, start, resp.Status)
	return resp, nil
}

func (r *Relay) complete(log *common.Logger, op, kind string, start time.Time, status int) {
	duration := time.Since(start)
	log.Debug().Str("operation", op).Str("state", stateCompleted).Int("status", status).Int64("duration_ms", duration.Milliseconds()).Msg("invocation")
	r.metrics.RecordInvocation(op, kind, "ok", duration)
}

func (r *Relay) fail(log *common.Logger, op, kind string, start time.Time, err error) error {
	duration := time.Since(start)
	errKind := KindOf(err)
	log.Debug().Str("operation", op).Str("state", stateFailed).Str("kind", string(errKind)).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("invocation")
	label := op
	if kind == "" {
		// Unresolved names come from the caller; keep them out of label values.
		label, kind = "unknown", "unknown"
	}
	r.metrics.RecordInvocation(label, kind, string(errKind), duration)
	return err
}
