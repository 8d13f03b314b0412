package domain

import (
	"errors"
	"time"
)

// Enums для статусів
type LineStatus string

const (
	// Статуси низьковольтних ліній
	LineStatusHealthy LineStatus = "healthy"
	LineStatusFault   LineStatus = "fault"
	LineStatusShutoff LineStatus = "shutoff"
)

// SystemLineID — сентинельне значення lineId для системних сповіщень
const SystemLineID = "system"

// ErrLineNotFound повертається, коли лінії з таким ID немає в реєстрі
var ErrLineNotFound = errors.New("line not found")

// Valid перевіряє, чи є статус одним із трьох допустимих значень
func (s LineStatus) Valid() bool {
	switch s {
	case LineStatusHealthy, LineStatusFault, LineStatusShutoff:
		return true
	}
	return false
}

// GeoPoint представляє географічну точку траси лінії
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Line представляє сегмент низьковольтної розподільчої лінії
type Line struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Path   []GeoPoint `json:"path"`
	Status LineStatus `json:"status"`
}

// Clone повертає незалежну копію лінії
func (l *Line) Clone() *Line {
	cp := *l
	cp.Path = make([]GeoPoint, len(l.Path))
	copy(cp.Path, l.Path)
	return &cp
}

// NotificationItem представляє запис журналу сповіщень про зміну статусу
type NotificationItem struct {
	ID        string     `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	LineID    string     `json:"line_id"`
	Message   string     `json:"message"`
	Status    LineStatus `json:"status"`
}

// Report представляє похідну статистику за поточними статусами ліній
type Report struct {
	Healthy int     `json:"healthy"`
	Fault   int     `json:"fault"`
	Shutoff int     `json:"shutoff"`
	Total   int     `json:"total"`
	Uptime  float64 `json:"uptime"`
}

// StatusEvent представляє подію зміни статусу для розсилки клієнтам дашборда
type StatusEvent struct {
	Line         *Line             `json:"line"`
	Notification *NotificationItem `json:"notification"`
}

// SeedLines повертає фіксований стартовий набір ліній.
// Реєстр створюється з нього при запуску і не змінюється за розміром
func SeedLines() []*Line {
	return []*Line{
		{
			ID:   "LT-001",
			Name: "Sector 12 Feeder",
			Path: []GeoPoint{
				{Latitude: 50.4501, Longitude: 30.5234},
				{Latitude: 50.4532, Longitude: 30.5301},
				{Latitude: 50.4568, Longitude: 30.5349},
			},
			Status: LineStatusHealthy,
		},
		{
			ID:   "LT-002",
			Name: "Riverside Distribution",
			Path: []GeoPoint{
				{Latitude: 50.4421, Longitude: 30.5189},
				{Latitude: 50.4399, Longitude: 30.5262},
			},
			Status: LineStatusHealthy,
		},
		{
			ID:   "LT-003",
			Name: "Industrial Park Line",
			Path: []GeoPoint{
				{Latitude: 50.4610, Longitude: 30.5102},
				{Latitude: 50.4655, Longitude: 30.5077},
				{Latitude: 50.4701, Longitude: 30.5121},
				{Latitude: 50.4733, Longitude: 30.5188},
			},
			Status: LineStatusHealthy,
		},
	}
}
