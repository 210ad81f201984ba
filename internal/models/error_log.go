package models

import (
	"time"

	"gorm.io/gorm"
)

// ErrorLog keeps bridge failures so they survive the restart they cause
type ErrorLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	EventKind string         `gorm:"not null;default:''" json:"event_kind"` // niri event being processed, if any
	ErrorMsg  string         `gorm:"not null" json:"error_msg"`
	Fatal     bool           `gorm:"not null;default:false" json:"fatal"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
