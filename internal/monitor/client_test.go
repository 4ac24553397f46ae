package monitor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testQuery = "?startTime=2026-02-02%2015%3A00%3A00&endTime=2026-02-03%2015%3A59%3A59"

func TestClient_Request_HeadersAndQuery(t *testing.T) {
	var gotAuth, gotLang, gotType, gotQuery, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotLang = r.Header.Get("Accept-Language")
		gotType = r.Header.Get("Content-Type")
		gotQuery = r.URL.RawQuery
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"code":200,"data":{"totalUsage":{"totalModelCallCount":3}}}`))
	}))
	defer server.Close()

	c := NewClient("raw-token", testQuery)
	got, err := c.Request(context.Background(), server.URL+"/api/monitor/usage/model-usage", "Model usage", true, nil)
	require.NoError(t, err)

	assert.Equal(t, "raw-token", gotAuth, "token must be sent without a scheme prefix")
	assert.Equal(t, "en-US,en", gotLang)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "/api/monitor/usage/model-usage", gotPath)
	assert.Equal(t, strings.TrimPrefix(testQuery, "?"), gotQuery)
	assert.Equal(t, map[string]any{
		"totalUsage": map[string]any{"totalModelCallCount": float64(3)},
	}, got)
}

func TestClient_Request_NoQueryWhenDisabled(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data":{"limits":[]}}`))
	}))
	defer server.Close()

	c := NewClient("t", testQuery)
	_, err := c.Request(context.Background(), server.URL+"/api/monitor/usage/quota/limit?stale=1", "Quota limit", false, nil)
	require.NoError(t, err)
	assert.Empty(t, gotQuery, "existing query and window must both be dropped")
}

func TestClient_Request_Payload(t *testing.T) {
	upper := func(data any) any {
		return map[string]any{"processed": data}
	}

	tests := []struct {
		name string
		body string
		post PostProcessor
		want any
	}{
		{
			name: "data field unwrapped",
			body: `{"data":{"a":1}}`,
			want: map[string]any{"a": float64(1)},
		},
		{
			name: "no data field returns body",
			body: `{"a":1}`,
			want: map[string]any{"a": float64(1)},
		},
		{
			name: "null data returns body",
			body: `{"data":null,"msg":"ok"}`,
			want: map[string]any{"data": nil, "msg": "ok"},
		},
		{
			name: "post processor applied to data",
			body: `{"data":{"a":1}}`,
			post: upper,
			want: map[string]any{"processed": map[string]any{"a": float64(1)}},
		},
		{
			name: "post processor skipped without data",
			body: `{"a":1}`,
			post: upper,
			want: map[string]any{"a": float64(1)},
		},
		{
			name: "array body",
			body: `[1,2]`,
			want: []any{float64(1), float64(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			got, err := NewClient("t", "").Request(context.Background(), server.URL, "Test", true, tt.post)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Request_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"msg":"token expired"}`))
	}))
	defer server.Close()

	_, err := NewClient("t", "").Request(context.Background(), server.URL, "Tool usage", true, nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "Tool usage", statusErr.Label)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "[Tool usage] HTTP 401\n{\"msg\":\"token expired\"}", err.Error())
}

func TestClient_Request_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}))
	defer server.Close()

	_, err := NewClient("t", "").Request(context.Background(), server.URL, "Quota limit", false, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.True(t, strings.HasPrefix(err.Error(), "[Quota limit] failed to parse response"), err.Error())
}

func TestClient_Request_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	addr := server.URL
	server.Close()

	_, err := NewClient("t", "").Request(context.Background(), addr, "Model usage", true, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[Model usage]")

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestClient_Request_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient("t", "").Request(ctx, server.URL, "Model usage", true, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Request_InvalidURL(t *testing.T) {
	_, err := NewClient("t", "").Request(context.Background(), "/relative/only", "Model usage", true, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{float64(0), false},
		{float64(2), true},
		{"", false},
		{"x", true},
		{map[string]any{}, true},
		{[]any{}, true},
	}
	for _, tt := range tests {
		if got := truthy(tt.in); got != tt.want {
			t.Errorf("truthy(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
