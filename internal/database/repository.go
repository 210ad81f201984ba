package database

import (
	"time"

	"github.com/actionsum/niribar/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository handles the focus, event and error journals
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// CreateFocusEvent inserts a focus change
func (r *Repository) CreateFocusEvent(event *models.FocusEvent) error {
	result := r.db.Create(event)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert focus event")
	}
	return nil
}

// GetFocusEventsSince retrieves all focus changes since a given time, oldest first
func (r *Repository) GetFocusEventsSince(since time.Time) ([]*models.FocusEvent, error) {
	var events []*models.FocusEvent
	result := r.db.Where("timestamp >= ?", since).Order("timestamp ASC, id ASC").Find(&events)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query focus events")
	}

	return events, nil
}

// GetLatestFocusBefore returns the last focus change strictly before t, or nil
func (r *Repository) GetLatestFocusBefore(t time.Time) (*models.FocusEvent, error) {
	var event models.FocusEvent
	result := r.db.Where("timestamp < ?", t).Order("timestamp DESC, id DESC").First(&event)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get previous focus event")
	}
	return &event, nil
}

// GetLatestFocus retrieves the most recent focus change, or nil
func (r *Repository) GetLatestFocus() (*models.FocusEvent, error) {
	var event models.FocusEvent
	result := r.db.Order("timestamp DESC, id DESC").First(&event)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest focus event")
	}
	return &event, nil
}

// CreateEventRecord appends one entry to the event journal
func (r *Repository) CreateEventRecord(record *models.EventRecord) error {
	result := r.db.Create(record)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert event record")
	}
	return nil
}

// GetRecentEventRecords returns the newest journal entries, newest first
func (r *Repository) GetRecentEventRecords(limit int) ([]*models.EventRecord, error) {
	var records []*models.EventRecord
	result := r.db.Order("timestamp DESC, id DESC").Limit(limit).Find(&records)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query event records")
	}
	return records, nil
}

// GetEventKindCountsSince aggregates the journal per event kind
func (r *Repository) GetEventKindCountsSince(since time.Time) ([]models.EventKindCount, error) {
	var counts []models.EventKindCount

	result := r.db.Model(&models.EventRecord{}).
		Select("kind, COUNT(*) as count").
		Where("timestamp >= ?", since).
		Group("kind").
		Order("count DESC, kind ASC").
		Scan(&counts)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query event kind counts")
	}

	return counts, nil
}

// CreateErrorLog inserts a new error log into the database
func (r *Repository) CreateErrorLog(errorLog *models.ErrorLog) error {
	result := r.db.Create(errorLog)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// GetRecentErrors returns the newest error logs, newest first
func (r *Repository) GetRecentErrors(limit int) ([]*models.ErrorLog, error) {
	var logs []*models.ErrorLog
	result := r.db.Order("timestamp DESC, id DESC").Limit(limit).Find(&logs)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query error logs")
	}
	return logs, nil
}

// DeleteOldEvents deletes journal entries older than before (focus events are soft deleted)
func (r *Repository) DeleteOldEvents(before time.Time) (int64, error) {
	focus := r.db.Where("timestamp < ?", before).Delete(&models.FocusEvent{})
	if focus.Error != nil {
		return 0, errors.Wrap(focus.Error, "failed to delete old focus events")
	}
	records := r.db.Where("timestamp < ?", before).Delete(&models.EventRecord{})
	if records.Error != nil {
		return 0, errors.Wrap(records.Error, "failed to delete old event records")
	}
	return focus.RowsAffected + records.RowsAffected, nil
}

// Clear removes all journal data from the database
func (r *Repository) Clear() error {
	for _, table := range []string{"focus_events", "event_records", "error_logs"} {
		if result := r.db.Exec("DELETE FROM " + table); result.Error != nil {
			return errors.Wrapf(result.Error, "failed to clear %s", table)
		}
	}
	return nil
}
