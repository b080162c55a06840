package tollapi

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_GracefulShutdown(t *testing.T) {
	h, reg := newTestHandler(t)
	e := RegisterRoutes(h, reg)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, e, "127.0.0.1:0", h.Logger) }()

	require.Eventually(t, func() bool { return e.ListenerAddr() != nil }, 2*time.Second, 5*time.Millisecond)
	resp, err := http.Get(fmt.Sprintf("http://%s/highways", e.ListenerAddr()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout):
		t.Fatal("server did not stop")
	}
}

func TestServe_ListenError(t *testing.T) {
	h, reg := newTestHandler(t)
	err := Serve(context.Background(), RegisterRoutes(h, reg), "127.0.0.1:-1", h.Logger)
	assert.Error(t, err)
}
