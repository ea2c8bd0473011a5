package common

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxyRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			assert.Equal(t, "secret", r.Header.Get("X-Token"))
			w.Write([]byte(`{"id":"abc"}`))
		case "/empty":
			w.WriteHeader(http.StatusNoContent)
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	proxy := NewProxy("test", map[string]string{"X-Token": "secret"}, time.Second, nil)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{name: "ok", path: "/ok", want: `{"id":"abc"}`},
		{name: "no content", path: "/empty", wantErr: ErrNotFound},
		{name: "not found", path: "/missing", wantErr: ErrNotFound},
		{name: "server error", path: "/boom", wantErr: ErrTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := proxy.Request(context.Background(), server.URL+tt.path)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, data)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestProxyUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	proxy := NewProxy("test", nil, time.Second, nil)
	_, err := proxy.Request(context.Background(), url)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestProxyTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	proxy := NewProxy("test", nil, 50*time.Millisecond, nil)
	_, err := proxy.Request(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestProxyRateLimitResponseStartsCooldown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	proxy := NewProxy("test", nil, time.Second, []Restriction{{Requests: 100, Duration: time.Second}})
	_, err := proxy.Request(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrTransport)

	// The next request has to wait for the cooldown, so a short context fails
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = proxy.Request(ctx, server.URL)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, 3*time.Second, retryAfter("3"))
	assert.Equal(t, time.Duration(0), retryAfter(""))
	assert.Equal(t, time.Duration(0), retryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
}
