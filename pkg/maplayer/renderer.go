package maplayer

import (
	"fmt"
	"sync"
)

// Point представляє точку траси на мапі
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Style описує вигляд шарів однієї лінії
type Style struct {
	Color  string `json:"color"`
	Weight int    `json:"weight"`
	Dashed bool   `json:"dashed"`
}

// Bounds описує прямокутник (MinLat,MinLon) – (MaxLat,MaxLon)
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Фіксована відповідність статус → стиль шару
var statusStyles = map[string]Style{
	"healthy": {Color: "green", Weight: 4},
	"fault":   {Color: "red", Weight: 4},
	"shutoff": {Color: "grey", Weight: 4, Dashed: true},
}

// StyleFor повертає стиль для статусу лінії
func StyleFor(status string) Style {
	if style, ok := statusStyles[status]; ok {
		return style
	}
	// Невідомий статус малюємо як shutoff, щоб він був помітний
	return statusStyles["shutoff"]
}

// Widget — поверхня мапи, на яку рендерер виводить шари.
// Стає доступною лише після завантаження картографічного провайдера
type Widget interface {
	AddPolyline(id string, path []Point, style Style) error
	AddMarker(id string, at Point, label string) error
	RemoveLayer(id string) error
	FitBounds(b Bounds) error
}

// layerRecord зберігає все потрібне для перестворення шарів лінії
type layerRecord struct {
	label    string
	status   string
	path     []Point
	attached bool
}

// Renderer синхронізує шари мапи зі станом реєстру ліній:
// одна ламана та один маркер на кожну видиму лінію
type Renderer struct {
	mu      sync.Mutex
	widget  Widget
	records map[string]*layerRecord
	hidden  map[string]bool
}

// NewRenderer створює новий Renderer без підключеної поверхні мапи
func NewRenderer() *Renderer {
	return &Renderer{
		records: make(map[string]*layerRecord),
		hidden:  make(map[string]bool),
	}
}

// Ready повідомляє, чи підключена поверхня мапи
func (r *Renderer) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.widget != nil
}

// Attach підключає поверхню мапи та виводить на неї всі видимі лінії
func (r *Renderer) Attach(w Widget) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.widget = w
	for id, rec := range r.records {
		rec.attached = false
		if r.hidden[id] {
			continue
		}
		if err := r.attachRecordLocked(id, rec); err != nil {
			return err
		}
	}

	return r.fitAllLocked()
}

// SyncLine перестворює шари лінії під її поточний статус.
// Шари видаляються та додаються заново, а не змінюються на місці
func (r *Renderer) SyncLine(id, label, status string, path []Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		rec = &layerRecord{}
		r.records[id] = rec
	}

	if rec.attached {
		if err := r.detachRecordLocked(id, rec); err != nil {
			return err
		}
	}

	rec.label = label
	rec.status = status
	rec.path = path

	// Поки мапа не готова або лінія прихована — лише облік
	if r.widget == nil || r.hidden[id] {
		return nil
	}

	return r.attachRecordLocked(id, rec)
}

// SetVisible ховає або показує шари лінії, не знищуючи облікового запису.
// Повторний показ ніколи не дублює шари
func (r *Renderer) SetVisible(id string, visible bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hidden[id] = !visible

	rec, ok := r.records[id]
	if !ok || r.widget == nil {
		return nil
	}

	if !visible && rec.attached {
		return r.detachRecordLocked(id, rec)
	}
	if visible && !rec.attached {
		return r.attachRecordLocked(id, rec)
	}

	return nil
}

// Hidden повідомляє, чи прихована лінія
func (r *Renderer) Hidden(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hidden[id]
}

// FitAll підганяє вікно мапи під усі видимі лінії
func (r *Renderer) FitAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fitAllLocked()
}

func (r *Renderer) attachRecordLocked(id string, rec *layerRecord) error {
	style := StyleFor(rec.status)
	if err := r.widget.AddPolyline(pathLayerID(id), rec.path, style); err != nil {
		return err
	}
	if len(rec.path) > 0 {
		if err := r.widget.AddMarker(markerLayerID(id), rec.path[0], rec.label); err != nil {
			return err
		}
	}
	rec.attached = true
	return nil
}

func (r *Renderer) detachRecordLocked(id string, rec *layerRecord) error {
	if err := r.widget.RemoveLayer(pathLayerID(id)); err != nil {
		return err
	}
	if err := r.widget.RemoveLayer(markerLayerID(id)); err != nil {
		return err
	}
	rec.attached = false
	return nil
}

func (r *Renderer) fitAllLocked() error {
	if r.widget == nil {
		return nil
	}

	var b Bounds
	first := true
	for id, rec := range r.records {
		if r.hidden[id] {
			continue
		}
		for _, p := range rec.path {
			if first {
				b = Bounds{MinLat: p.Lat, MinLon: p.Lon, MaxLat: p.Lat, MaxLon: p.Lon}
				first = false
				continue
			}
			if p.Lat < b.MinLat {
				b.MinLat = p.Lat
			}
			if p.Lat > b.MaxLat {
				b.MaxLat = p.Lat
			}
			if p.Lon < b.MinLon {
				b.MinLon = p.Lon
			}
			if p.Lon > b.MaxLon {
				b.MaxLon = p.Lon
			}
		}
	}

	if first {
		return nil
	}

	return r.widget.FitBounds(b)
}

func pathLayerID(id string) string {
	return fmt.Sprintf("%s:path", id)
}

func markerLayerID(id string) string {
	return fmt.Sprintf("%s:marker", id)
}
