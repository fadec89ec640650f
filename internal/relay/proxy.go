package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/bobmcallan/contentflow-mcp/internal/common"
	"github.com/bobmcallan/contentflow-mcp/internal/config"
)

// Response is the relayed result of one invocation.
type Response struct {
	Status int
	Body   json.RawMessage

	// Static is set when the body came from a constant resource.
	Static bool
}

// Proxy sends outbound requests to the content API over one pooled client.
type Proxy struct {
	httpClient  *http.Client
	timeout     time.Duration
	maxResponse int64
	logger      *common.Logger
}

// NewProxy creates a proxy using the API settings from cfg.
func NewProxy(cfg config.APIConfig, logger *common.Logger) *Proxy {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Proxy{
		// The per-call budget is applied through the request context, so
		// the client itself has no timeout.
		httpClient:  &http.Client{Transport: transport},
		timeout:     cfg.GetTimeout(),
		maxResponse: cfg.MaxResponseBytes(),
		logger:      logger,
	}
}

// Timeout returns the per-call budget.
func (p *Proxy) Timeout() time.Duration {
	return p.timeout
}

// Close releases pooled connections.
func (p *Proxy) Close() {
	p.httpClient.CloseIdleConnections()
}

// Do performs exactly one HTTP call for out. A response whose body parses as
// JSON is returned whatever its status; anything else is a DownstreamError.
func (p *Proxy) Do(ctx context.Context, op string, out *OutboundRequest, logger *common.Logger) (*Response, error) {
	if logger == nil {
		logger = p.logger
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var bodyReader io.Reader
	if out.Body != nil {
		bodyReader = bytes.NewReader(out.Body)
	}
	req, err := http.NewRequestWithContext(callCtx, out.Method, out.URL, bodyReader)
	if err != nil {
		return nil, newError(KindInvalidArgument, op, fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", common.UserAgent())
	if out.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := CorrelationID(ctx); id != "" {
		req.Header.Set("X-Correlation-ID", id)
	}

	logger.Debug().Str("method", out.Method).Str("path", out.Path).Msg("proxy request")

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		kind := classify(callCtx, err)
		logger.Error().Str("method", out.Method).Str("path", out.Path).Str("kind", string(kind)).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("proxy request failed")
		return nil, newError(kind, op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxResponse+1))
	if err != nil {
		kind := classify(callCtx, err)
		logger.Error().Str("method", out.Method).Str("path", out.Path).Str("kind", string(kind)).Int64("duration_ms", time.Since(start).Milliseconds()).Str("error", err.Error()).Msg("proxy response read failed")
		return nil, &Error{Kind: kind, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	logger.Debug().Int("status", resp.StatusCode).Int("bytes", len(body)).Int64("duration_ms", duration.Milliseconds()).Msg("proxy response")

	if int64(len(body)) > p.maxResponse {
		return nil, &Error{Kind: KindDownstream, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("response exceeds %d bytes", p.maxResponse)}
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, &Error{Kind: KindDownstream, Op: op, Status: resp.StatusCode, Err: errors.New("empty response body")}
	}
	if !json.Valid(trimmed) {
		return nil, &Error{Kind: KindDownstream, Op: op, Status: resp.StatusCode, Err: errors.New("response is not JSON"), Excerpt: excerpt(trimmed)}
	}

	return &Response{Status: resp.StatusCode, Body: json.RawMessage(body)}, nil
}

// classify maps a client error onto Timeout or TransportFailure. Only the
// per-call deadline or a network timeout count as Timeout; a caller that
// cancels gets TransportFailure.
func classify(callCtx context.Context, err error) Kind {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindTransport
}
