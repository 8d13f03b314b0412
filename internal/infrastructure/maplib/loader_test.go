package maplib

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderSuccessfulLoad(t *testing.T) {
	var tilePath atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/leaflet.js" {
			tilePath.Store(r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	l := NewLoader(srv.URL+"/leaflet.js", srv.URL+"/tiles/{z}/{x}/{y}.png", srv.Client())

	assert.Equal(t, StateIdle, l.Status().State, "loader starts idle")
	_, ok := l.Canvas()
	assert.False(t, ok, "canvas is unavailable before load")

	status := l.Ensure(context.Background())
	assert.Equal(t, StateReady, status.State)
	assert.Empty(t, status.Error)

	// Пробний тайл — нульовий
	assert.Equal(t, "/tiles/0/0/0.png", tilePath.Load())

	_, ok = l.Canvas()
	assert.True(t, ok)
}

func TestLoaderLibraryFailure(t *testing.T) {
	var healthy atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	l := NewLoader(srv.URL+"/leaflet.js", srv.URL+"/tiles/{z}/{x}/{y}.png", srv.Client())

	status := l.Ensure(context.Background())
	require.Equal(t, StateFailed, status.State)
	assert.Contains(t, status.Error, "map library is unavailable")

	t.Run("failed state persists until manual retry", func(t *testing.T) {
		again := l.Ensure(context.Background())
		assert.Equal(t, StateFailed, again.State)
	})

	t.Run("retry repeats the same load", func(t *testing.T) {
		healthy.Store(true)

		status := l.Retry(context.Background())
		assert.Equal(t, StateReady, status.State)
		assert.Empty(t, status.Error)

		_, ok := l.Canvas()
		assert.True(t, ok)
	})
}

func TestLoaderTileFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/leaflet.js" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	l := NewLoader(srv.URL+"/leaflet.js", srv.URL+"/tiles/{z}/{x}/{y}.png", srv.Client())

	status := l.Ensure(context.Background())
	require.Equal(t, StateFailed, status.State)
	assert.Contains(t, status.Error, "map tiles are unavailable")
}

func TestLoaderRetryWhenReadyIsNoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	l := NewLoader(srv.URL+"/leaflet.js", srv.URL+"/tiles/{z}/{x}/{y}.png", srv.Client())

	require.Equal(t, StateReady, l.Ensure(context.Background()).State)
	canvas1, _ := l.Canvas()

	assert.Equal(t, StateReady, l.Retry(context.Background()).State)
	canvas2, _ := l.Canvas()
	assert.Same(t, canvas1, canvas2, "retry must not rebuild a ready canvas")
}
