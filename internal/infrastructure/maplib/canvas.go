package maplib

import (
	"sort"
	"sync"

	"lt-line-dashboard/pkg/maplayer"
)

// Canvas — серверне дзеркало полотна мапи. Реалізує maplayer.Widget:
// рендерер малює на ньому, а браузерний віджет забирає знімок через API
type Canvas struct {
	mu        sync.RWMutex
	polylines map[string]polylineLayer
	markers   map[string]markerLayer
	bounds    *maplayer.Bounds
}

type polylineLayer struct {
	path  []maplayer.Point
	style maplayer.Style
}

type markerLayer struct {
	at    maplayer.Point
	label string
}

// LayerView — один шар у знімку полотна
type LayerView struct {
	ID    string           `json:"id"`
	Kind  string           `json:"kind"`
	Path  []maplayer.Point `json:"path,omitempty"`
	Style *maplayer.Style  `json:"style,omitempty"`
	At    *maplayer.Point  `json:"at,omitempty"`
	Label string           `json:"label,omitempty"`
}

// NewCanvas створює порожнє полотно
func NewCanvas() *Canvas {
	return &Canvas{
		polylines: make(map[string]polylineLayer),
		markers:   make(map[string]markerLayer),
	}
}

func (c *Canvas) AddPolyline(id string, path []maplayer.Point, style maplayer.Style) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cp := make([]maplayer.Point, len(path))
	copy(cp, path)
	c.polylines[id] = polylineLayer{path: cp, style: style}
	return nil
}

func (c *Canvas) AddMarker(id string, at maplayer.Point, label string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.markers[id] = markerLayer{at: at, label: label}
	return nil
}

func (c *Canvas) RemoveLayer(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.polylines, id)
	delete(c.markers, id)
	return nil
}

func (c *Canvas) FitBounds(b maplayer.Bounds) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bounds = &b
	return nil
}

// Snapshot повертає поточні шари у стабільному порядку та межі вікна
func (c *Canvas) Snapshot() ([]LayerView, *maplayer.Bounds) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	views := make([]LayerView, 0, len(c.polylines)+len(c.markers))
	for id, pl := range c.polylines {
		style := pl.style
		path := make([]maplayer.Point, len(pl.path))
		copy(path, pl.path)
		views = append(views, LayerView{ID: id, Kind: "polyline", Path: path, Style: &style})
	}
	for id, m := range c.markers {
		at := m.at
		views = append(views, LayerView{ID: id, Kind: "marker", At: &at, Label: m.label})
	}

	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })

	var bounds *maplayer.Bounds
	if c.bounds != nil {
		b := *c.bounds
		bounds = &b
	}

	return views, bounds
}
