package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchBytes_OK(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer ts.Close()

	body, status, err := NewClient("").FetchBytes(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "ok")
	assert.Contains(t, gotUA, "Mozilla/5.0", "browser-like user agent is sent")
}

func TestFetchBytes_UpstreamErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, status, err := NewClient("").FetchBytes(context.Background(), ts.URL)
	require.NoError(t, err, "an HTTP error status is data, not a transport failure")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestFetchBytes_EmptyURL(t *testing.T) {
	_, _, err := NewClient("").FetchBytes(context.Background(), "")
	assert.Error(t, err)
}

func TestFetchBytes_CanceledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("unreachable"))
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewClient("").FetchBytes(ctx, ts.URL)
	assert.Error(t, err)
}

func TestFetchError(t *testing.T) {
	err := &FetchError{Status: http.StatusBadGateway}
	assert.Contains(t, err.Error(), "502")
	assert.Nil(t, err.Unwrap())
}
