package maplayer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWidget рахує операції над шарами та стежить за дублюванням
type fakeWidget struct {
	layers   map[string]bool
	added    int
	removed  int
	lastFit  *Bounds
	fitCalls int
}

func newFakeWidget() *fakeWidget {
	return &fakeWidget{layers: make(map[string]bool)}
}

func (w *fakeWidget) AddPolyline(id string, path []Point, style Style) error {
	if w.layers[id] {
		panic("duplicate layer: " + id)
	}
	w.layers[id] = true
	w.added++
	return nil
}

func (w *fakeWidget) AddMarker(id string, at Point, label string) error {
	if w.layers[id] {
		panic("duplicate layer: " + id)
	}
	w.layers[id] = true
	w.added++
	return nil
}

func (w *fakeWidget) RemoveLayer(id string) error {
	delete(w.layers, id)
	w.removed++
	return nil
}

func (w *fakeWidget) FitBounds(b Bounds) error {
	w.lastFit = &b
	w.fitCalls++
	return nil
}

var testPath = []Point{
	{Lat: 50.45, Lon: 30.52},
	{Lat: 50.46, Lon: 30.53},
}

func TestRendererBeforeAttach(t *testing.T) {
	t.Run("operations are no-ops until the widget is ready", func(t *testing.T) {
		r := NewRenderer()

		require.NoError(t, r.SyncLine("LT-001", "Feeder", "healthy", testPath))
		require.NoError(t, r.SetVisible("LT-001", false))
		require.NoError(t, r.FitAll())
		assert.False(t, r.Ready())
	})

	t.Run("attach replays tracked visible lines", func(t *testing.T) {
		r := NewRenderer()
		require.NoError(t, r.SyncLine("LT-001", "Feeder", "healthy", testPath))
		require.NoError(t, r.SyncLine("LT-002", "Riverside", "fault", testPath))
		require.NoError(t, r.SetVisible("LT-002", false))

		w := newFakeWidget()
		require.NoError(t, r.Attach(w))

		assert.True(t, r.Ready())
		// Видима лінія — ламана плюс маркер; прихована не виводиться
		assert.Len(t, w.layers, 2)
		assert.True(t, w.layers["LT-001:path"])
		assert.True(t, w.layers["LT-001:marker"])
		assert.Equal(t, 1, w.fitCalls)
	})
}

func TestRendererSyncLine(t *testing.T) {
	t.Run("status change removes and recreates layers", func(t *testing.T) {
		r := NewRenderer()
		w := newFakeWidget()
		require.NoError(t, r.Attach(w))

		require.NoError(t, r.SyncLine("LT-001", "Feeder", "healthy", testPath))
		addedAfterFirst := w.added

		require.NoError(t, r.SyncLine("LT-001", "Feeder", "fault", testPath))

		assert.Equal(t, 2, w.removed, "both layers must be removed before recreation")
		assert.Equal(t, addedAfterFirst+2, w.added)
		assert.Len(t, w.layers, 2)
	})
}

func TestRendererVisibility(t *testing.T) {
	t.Run("toggle off then on restores layers without duplication", func(t *testing.T) {
		r := NewRenderer()
		w := newFakeWidget()
		require.NoError(t, r.Attach(w))
		require.NoError(t, r.SyncLine("LT-001", "Feeder", "healthy", testPath))

		require.NoError(t, r.SetVisible("LT-001", false))
		assert.Empty(t, w.layers)
		assert.True(t, r.Hidden("LT-001"))

		require.NoError(t, r.SetVisible("LT-001", true))
		assert.Len(t, w.layers, 2)
		assert.False(t, r.Hidden("LT-001"))

		// Повторний показ не дублює шари
		require.NoError(t, r.SetVisible("LT-001", true))
		assert.Len(t, w.layers, 2)
	})

	t.Run("hidden line stays tracked across status changes", func(t *testing.T) {
		r := NewRenderer()
		w := newFakeWidget()
		require.NoError(t, r.Attach(w))
		require.NoError(t, r.SyncLine("LT-001", "Feeder", "healthy", testPath))
		require.NoError(t, r.SetVisible("LT-001", false))

		require.NoError(t, r.SyncLine("LT-001", "Feeder", "shutoff", testPath))
		assert.Empty(t, w.layers)

		require.NoError(t, r.SetVisible("LT-001", true))
		require.Len(t, w.layers, 2)
	})
}

func TestRendererFitAll(t *testing.T) {
	r := NewRenderer()
	w := newFakeWidget()
	require.NoError(t, r.Attach(w))

	require.NoError(t, r.SyncLine("LT-001", "Feeder", "healthy", []Point{
		{Lat: 50.40, Lon: 30.50},
		{Lat: 50.48, Lon: 30.56},
	}))
	require.NoError(t, r.FitAll())

	require.NotNil(t, w.lastFit)
	assert.Equal(t, 50.40, w.lastFit.MinLat)
	assert.Equal(t, 50.48, w.lastFit.MaxLat)
	assert.Equal(t, 30.50, w.lastFit.MinLon)
	assert.Equal(t, 30.56, w.lastFit.MaxLon)
}

func TestStyleFor(t *testing.T) {
	assert.Equal(t, Style{Color: "green", Weight: 4}, StyleFor("healthy"))
	assert.Equal(t, Style{Color: "red", Weight: 4}, StyleFor("fault"))
	assert.Equal(t, Style{Color: "grey", Weight: 4, Dashed: true}, StyleFor("shutoff"))
	assert.True(t, StyleFor("bogus").Dashed)
}
