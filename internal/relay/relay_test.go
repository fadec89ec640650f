package relay

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/contentflow-mcp/internal/catalog"
	"github.com/bobmcallan/contentflow-mcp/internal/common"
	"github.com/bobmcallan/contentflow-mcp/internal/config"
)

func newTestRelay(t *testing.T, baseURL string, timeout string) (*Relay, *Metrics) {
	t.Helper()
	cfg := config.NewDefaultConfig().API
	cfg.URL = baseURL
	cfg.Timeout = timeout

	proxy := NewProxy(cfg, common.NewSilentLogger())
	t.Cleanup(proxy.Close)

	metrics := InitMetrics(prometheus.NewRegistry())
	return New(catalog.Default(), proxy, cfg.BaseURL(), common.NewSilentLogger(), metrics), metrics
}

// recorded captures what the mock content API received.
type recorded struct {
	Method      string
	RequestURI  string
	Body        string
	ContentType string
	Accept      string
	UserAgent   string
	Correlation string
}

func mockAPI(t *testing.T, status int, body string) (*httptest.Server, *recorded, *int32) {
	t.Helper()
	rec := &recorded{}
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		data, _ := io.ReadAll(r.Body)
		*rec = recorded{
			Method:      r.Method,
			RequestURI:  r.RequestURI,
			Body:        string(data),
			ContentType: r.Header.Get("Content-Type"),
			Accept:      r.Header.Get("Accept"),
			UserAgent:   r.Header.Get("User-Agent"),
			Correlation: r.Header.Get("X-Correlation-ID"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, rec, &calls
}

func TestInvoke_RelaysBodyVerbatim(t *testing.T) {
	payload := `{"success":true,  "data":[{"title":"热点","heat":9.5}]}`
	srv, rec, calls := mockAPI(t, http.StatusOK, payload)
	r, _ := newTestRelay(t, srv.URL+"/api", "5s")

	resp, err := r.Invoke(t.Context(), "get_hot_topics", map[string]any{"source": "weibo", "limit": float64(10)})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, payload, string(resp.Body))
	assert.False(t, resp.Static)

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, http.MethodGet, rec.Method)
	assert.Equal(t, "/api/hot-topics?limit=10&source=weibo", rec.RequestURI)
	assert.Equal(t, "application/json", rec.Accept)
	assert.Empty(t, rec.ContentType)
	assert.Equal(t, common.UserAgent(), rec.UserAgent)
	assert.NotEmpty(t, rec.Correlation)
}

func TestInvoke_SendsJSONBody(t *testing.T) {
	srv, rec, _ := mockAPI(t, http.StatusOK, `{"success":true}`)
	r, _ := newTestRelay(t, srv.URL+"/api", "5s")

	_, err := r.Invoke(t.Context(), "generate_content", map[string]any{"topic": "AI趋势", "content_type": "article"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/api/content/generate", rec.RequestURI)
	assert.Equal(t, "application/json", rec.ContentType)
	assert.Equal(t,
		`{"formData":{"keywords":[],"length":1000,"style":"professional","topic":"AI趋势","type":"article"},"type":"article"}`,
		rec.Body)
}

func TestInvoke_EscapedPathReachesServer(t *testing.T) {
	srv, rec, _ := mockAPI(t, http.StatusOK, `{}`)
	r, _ := newTestRelay(t, srv.URL+"/api", "5s")

	_, err := r.Invoke(t.Context(), "get_cross_platform_analysis", map[string]any{"title": "AI & Robotics?"})
	require.NoError(t, err)
	assert.Equal(t, "/api/hot-topics/trends/cross-platform/AI%20&%20Robotics%3F", rec.RequestURI)
}

func TestInvoke_PropagatesCorrelationID(t *testing.T) {
	srv, rec, _ := mockAPI(t, http.StatusOK, `{}`)
	r, _ := newTestRelay(t, srv.URL+"/api", "5s")

	ctx := WithCorrelationID(t.Context(), "corr-123")
	_, err := r.Invoke(ctx, "get_analytics_overview", nil)
	require.NoError(t, err)
	assert.Equal(t, "corr-123", rec.Correlation)
}

func TestInvoke_NonSuccessJSONIsRelayed(t *testing.T) {
	payload := `{"success":false,"message":"内容不存在"}`
	srv, _, _ := mockAPI(t, http.StatusNotFound, payload)
	r, _ := newTestRelay(t, srv.URL+"/api", "5s")

	resp, err := r.Invoke(t.Context(), "get_content_detail", map[string]any{"content_id": "missing"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, payload, string(resp.Body))
}

func TestInvoke_NonJSONIsDownstreamError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"html on 200", http.StatusOK, "<html>oops</html>"},
		{"text on 502", http.StatusBadGateway, "Bad Gateway"},
		{"empty body", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, _ := mockAPI(t, tt.status, tt.body)
			r, _ := newTestRelay(t, srv.URL+"/api", "5s")

			_, err := r.Invoke(t.Context(), "get_system_status", nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDownstream)

			var re *Error
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.status, re.Status)
			assert.Equal(t, "get_system_status", re.Op)
			assert.Equal(t, tt.body, re.Excerpt)
		})
	}
}

func TestInvoke_StaticResourceMakesNoCall(t *testing.T) {
	srv, _, calls := mockAPI(t, http.StatusOK, `{}`)
	r, _ := newTestRelay(t, srv.URL+"/api", "5s")

	var first string
	for i := 0; i < 3; i++ {
		resp, err := r.InvokeURI(t.Context(), "content://templates")
		require.NoError(t, err)
		assert.True(t, resp.Static)
		assert.Equal(t, http.StatusOK, resp.Status)
		if i == 0 {
			first = string(resp.Body)
		}
		assert.Equal(t, first, string(resp.Body))
	}

	resp, err := r.Invoke(t.Context(), "get_content_templates_resource", nil)
	require.NoError(t, err)
	assert.Equal(t, first, string(resp.Body))

	assert.Contains(t, first, `"type":"article"`)
	assert.Contains(t, first, `"type":"audio_script"`)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestInvokeURI_RequestBackedResource(t *testing.T) {
	srv, rec, _ := mockAPI(t, http.StatusOK, `{"data":[]}`)
	r, _ := newTestRelay(t, srv.URL+"/api", "5s")

	resp, err := r.InvokeURI(t.Context(), "trends://daily")
	require.NoError(t, err)
	assert.Equal(t, `{"data":[]}`, string(resp.Body))
	assert.Equal(t, "/api/hot-topics?limit=20", rec.RequestURI)
}

func TestInvoke_UnknownOperation(t *testing.T) {
	srv, _, calls := mockAPI(t, http.StatusOK, `{}`)
	r, metrics := newTestRelay(t, srv.URL+"/api", "5s")

	_, err := r.Invoke(t.Context(), "delete_everything", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownOperation)
	assert.Equal(t, KindUnknownOperation, KindOf(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.InvocationsTotal.WithLabelValues("unknown", "unknown", string(KindUnknownOperation))))

	_, err = r.InvokeURI(t.Context(), "nothing://here")
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestInvoke_MissingRequiredArgument(t *testing.T) {
	srv, _, calls := mockAPI(t, http.StatusOK, `{}`)
	r, _ := newTestRelay(t, srv.URL+"/api", "5s")

	_, err := r.Invoke(t.Context(), "search_news", map[string]any{"limit": 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), `"q" is required`)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestInvoke_ConnectionRefusedIsTransportFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	r, metrics := newTestRelay(t, "http://"+addr+"/api", "5s")

	_, err = r.Invoke(t.Context(), "get_analytics_overview", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.InvocationsTotal.WithLabelValues("get_analytics_overview", "tool", string(KindTransport))))
}

func TestInvoke_SingleAttemptOnFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Error("response writer does not support hijacking")
			return
		}
		conn, _, _ := hj.Hijack()
		conn.Close()
	}))
	t.Cleanup(srv.Close)

	r, _ := newTestRelay(t, srv.URL+"/api", "5s")
	_, err := r.Invoke(t.Context(), "update_hot_topics", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestInvoke_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	r, _ := newTestRelay(t, srv.URL+"/api", "50ms")

	start := time.Now()
	_, err := r.Invoke(t.Context(), "get_views_trend", nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	assert.Equal(t, KindTimeout, KindOf(err))
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestInvoke_CallerCancellation(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	r, _ := newTestRelay(t, srv.URL+"/api", "30s")

	ctx, cancel := context.WithCancel(t.Context())
	go func() {
		<-started
		cancel()
	}()

	_, err := r.Invoke(ctx, "get_publish_queue", nil)
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestInvoke_ResponseTooLarge(t *testing.T) {
	big := `{"data":"` + strings.Repeat("x", 2<<20) + `"}`
	srv, _, _ := mockAPI(t, http.StatusOK, big)

	cfg := config.NewDefaultConfig().API
	cfg.URL = srv.URL + "/api"
	cfg.MaxResponseMB = 1
	proxy := NewProxy(cfg, common.NewSilentLogger())
	t.Cleanup(proxy.Close)
	r := New(catalog.Default(), proxy, cfg.BaseURL(), common.NewSilentLogger(), nil)

	_, err := r.Invoke(t.Context(), "get_top_content", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDownstream)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestInvoke_RecordsSuccessMetrics(t *testing.T) {
	srv, _, _ := mockAPI(t, http.StatusOK, `{}`)
	r, metrics := newTestRelay(t, srv.URL+"/api", "5s")

	for i := 0; i < 2; i++ {
		_, err := r.Invoke(t.Context(), "get_publish_history", nil)
		require.NoError(t, err)
	}
	_, err := r.InvokeURI(t.Context(), "analytics://overview")
	require.NoError(t, err)

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.InvocationsTotal.WithLabelValues("get_publish_history", "tool", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.InvocationsTotal.WithLabelValues("get_analytics_overview_resource", "resource", "ok")))
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: KindDownstream, Op: "get_content_list", Status: 502, Err: errors.New("response is not JSON"), Excerpt: "Bad Gateway"}
	assert.Equal(t, `get_content_list: DownstreamError (status 502): response is not JSON: body "Bad Gateway"`, err.Error())

	long := excerpt([]byte(strings.Repeat("a", maxExcerpt+10)))
	assert.Len(t, long, maxExcerpt+3)
}

func TestProbe(t *testing.T) {
	srv, rec, _ := mockAPI(t, http.StatusOK, `{"status":"healthy"}`)
	r, _ := newTestRelay(t, srv.URL+"/api", "5s")

	resp, err := r.Probe(t.Context(), "/health")
	require.NoError(t, err)
	assert.Equal(t, `{"status":"healthy"}`, string(resp.Body))
	assert.Equal(t, "/api/health", rec.RequestURI)
}
