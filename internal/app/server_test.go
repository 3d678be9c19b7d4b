package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/specialistvlad/passgraph/internal/report"
	"github.com/specialistvlad/passgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	a, _, _ := setupApp(t, map[string]string{"frame.hcl": testutil.DeferredFrameHCL}, Config{})
	h := a.Handler()

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	t.Run("health", func(t *testing.T) {
		rec := get("/health")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK\n", rec.Body.String())
	})

	t.Run("plan before build", func(t *testing.T) {
		rec := get("/plan")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	_, err := a.Build(context.Background())
	require.NoError(t, err)

	t.Run("plan", func(t *testing.T) {
		rec := get("/plan")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var plan report.Plan
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
		assert.Equal(t, 3, plan.Stats.Passes)
	})

	t.Run("metrics", func(t *testing.T) {
		rec := get("/metrics")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `passgraph_builds_total{result="success"} 1`)
		assert.Contains(t, rec.Body.String(), "passgraph_cross_queue_waits 1")
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/plan", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestServeShutsDownOnCancel(t *testing.T) {
	a, _, logs := setupApp(t, map[string]string{"frame.hcl": testutil.DeferredFrameHCL}, Config{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/health", addr))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Contains(t, logs.String(), "Plan server shut down gracefully.")
}

func TestServeListenError(t *testing.T) {
	a, _, _ := setupApp(t, map[string]string{"frame.hcl": testutil.DeferredFrameHCL}, Config{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	err = a.Serve(context.Background(), ln.Addr().String())
	assert.ErrorContains(t, err, "failed to listen on")
}
