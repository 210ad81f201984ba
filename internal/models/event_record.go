package models

import (
	"time"
)

// EventRecord is one journal entry per niri event processed by the bridge
type EventRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	Kind      string    `gorm:"not null;index" json:"kind"`
	Windows   int       `gorm:"not null;default:0" json:"windows"` // tiled windows in the projection after the event
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// EventKindCount is the number of journaled events of one kind
type EventKindCount struct {
	Kind  string `json:"kind"`
	Count int64  `json:"count"`
}
