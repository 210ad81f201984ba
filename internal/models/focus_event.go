package models

import (
	"time"

	"gorm.io/gorm"
)

// FocusEvent records a change of the focused window. An empty AppName marks
// the moment nothing was focused any more (focus cleared or bridge stopped).
type FocusEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Timestamp   time.Time      `gorm:"not null;index" json:"timestamp"`
	WindowID    uint64         `gorm:"not null;default:0" json:"window_id"`
	AppName     string         `gorm:"not null;index" json:"app_name"`
	WindowTitle string         `gorm:"not null" json:"window_title"`
	WorkspaceID uint64         `gorm:"not null;default:0" json:"workspace_id"`
	Output      string         `gorm:"not null" json:"output"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsBlank reports whether the event marks "nothing focused"
func (e *FocusEvent) IsBlank() bool {
	return e.AppName == ""
}

type AppSummary struct {
	AppName      string  `json:"app_name"`
	TotalSeconds int64   `json:"total_seconds"`
	TotalMinutes float64 `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
	FocusCount   int     `json:"focus_count"`
	Percentage   float64 `json:"percentage,omitempty"`
}

type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type"` // "day", "week", "month"
}

type Report struct {
	Period       ReportPeriod `json:"period"`
	Apps         []AppSummary `json:"apps"`
	TotalSeconds int64        `json:"total_seconds"`
	TotalMinutes float64      `json:"total_minutes"`
	TotalHours   float64      `json:"total_hours"`
	GeneratedAt  time.Time    `json:"generated_at"`
}
