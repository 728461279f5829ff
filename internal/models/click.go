package models

import (
	"time"
)

// SourceDirect — значение source, когда переход произошёл без реферера
const SourceDirect = "Direct"

// ClickEvent — один зафиксированный переход по короткой ссылке
type ClickEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Location  Location  `json:"location"`
}

// Location — снимок геоданных на момент клика (best-effort)
type Location struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Region  string `json:"region"`
}

// UnknownLocation возвращает заглушку, когда геосервис недоступен
func UnknownLocation() Location {
	return Location{
		Country: "Unknown",
		City:    "Unknown",
		Region:  "Unknown",
	}
}
