// Package bridge runs the event loop: read a niri event, fold it into the
// model, project the model and emit the resulting document.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/actionsum/niribar/internal/config"
	"github.com/actionsum/niribar/internal/models"
	"github.com/actionsum/niribar/internal/output"
	"github.com/actionsum/niribar/pkg/niri"
	"github.com/actionsum/niribar/pkg/projection"
	"github.com/actionsum/niribar/pkg/state"
)

// ErrStreamClosed is returned when the event stream ends or fails to read
var ErrStreamClosed = errors.New("niri event stream closed")

// EventSource yields niri events one at a time. Close must unblock Next.
type EventSource interface {
	Next() (niri.Event, error)
	Close() error
}

// Recorder persists the focus, event and error journals
type Recorder interface {
	CreateFocusEvent(event *models.FocusEvent) error
	CreateEventRecord(record *models.EventRecord) error
	CreateErrorLog(errorLog *models.ErrorLog) error
}

type Service struct {
	config   *config.Config
	source   EventSource
	model    *state.Model
	emitter  *output.Emitter
	recorder Recorder
	snapshot *Snapshot
	now      func() time.Time

	focused  uint64
	hasFocus bool

	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
}

// NewService creates the event loop. recorder and snapshot may be nil.
func NewService(cfg *config.Config, source EventSource, emitter *output.Emitter, recorder Recorder, snapshot *Snapshot) *Service {
	return &Service{
		config:   cfg,
		source:   source,
		model:    state.New(),
		emitter:  emitter,
		recorder: recorder,
		snapshot: snapshot,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Start processes events until the stream ends, an event cannot be applied or projected,
// ctx is cancelled or Stop is called. The last two return ctx.Err() and nil.
func (s *Service) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("bridge is already running")
	}
	defer s.running.Store(false)
	defer s.clearFocus()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-s.stopChan:
		case <-done:
			return
		}
		s.source.Close()
	}()

	log.Println("Bridge started")

	for {
		ev, err := s.source.Next()
		if err != nil {
			select {
			case <-ctx.Done():
				log.Println("Bridge stopped by context")
				return ctx.Err()
			case <-s.stopChan:
				log.Println("Bridge stopped")
				return nil
			default:
			}
			// both wrapped so callers can match ErrStreamClosed and the cause (io.EOF)
			err = fmt.Errorf("%w: %w", ErrStreamClosed, err)
			s.storeError("", err)
			return err
		}

		if err := s.handle(ev); err != nil {
			s.storeError(ev.Kind(), err)
			return err
		}
	}
}

func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *Service) IsRunning() bool {
	return s.running.Load()
}

func (s *Service) handle(ev niri.Event) error {
	if s.config.Log.Verbose {
		log.Printf("Event: %s", ev.Kind())
	}

	if err := s.model.Apply(ev); err != nil {
		return errors.Wrapf(err, "failed to apply %s", ev.Kind())
	}

	view, err := projection.Project(s.model)
	if err != nil {
		return errors.Wrapf(err, "failed to project after %s", ev.Kind())
	}

	data, err := s.emitter.Emit(view)
	if err != nil {
		return err
	}

	now := s.now()
	if s.snapshot != nil {
		if s.emitter.Format() != output.FormatJSON {
			if data, err = json.Marshal(view); err != nil {
				return errors.Wrap(err, "failed to encode snapshot")
			}
		}
		s.snapshot.Publish(data, ev.Kind(), now)
	}

	s.record(ev, view, now)
	return nil
}

func (s *Service) record(ev niri.Event, view *projection.View, now time.Time) {
	if s.recorder == nil {
		return
	}

	if err := s.recorder.CreateEventRecord(&models.EventRecord{
		Timestamp: now,
		Kind:      ev.Kind(),
		Windows:   view.NumWindows(),
	}); err != nil {
		log.Printf("Failed to record event: %v", err)
	}

	w, ok := s.model.FocusedWindow()
	if ok == s.hasFocus && (!ok || w.ID == s.focused) {
		return
	}
	s.focused, s.hasFocus = w.ID, ok

	event := &models.FocusEvent{Timestamp: now}
	if ok {
		event.WindowID = w.ID
		event.AppName = w.AppName()
		event.WindowTitle = w.WindowTitle()
		if w.WorkspaceID != nil {
			event.WorkspaceID = *w.WorkspaceID
			if ws, found := s.model.Workspace(*w.WorkspaceID); found {
				event.Output = ws.OutputName()
			}
		}
	}

	if err := s.recorder.CreateFocusEvent(event); err != nil {
		log.Printf("Failed to record focus change: %v", err)
	} else if s.config.Log.Verbose {
		log.Printf("Focus: %s (window %d)", event.AppName, event.WindowID)
	}
}

// clearFocus closes the open focus interval when the loop exits
func (s *Service) clearFocus() {
	if s.recorder == nil || !s.hasFocus {
		return
	}
	s.hasFocus = false
	if err := s.recorder.CreateFocusEvent(&models.FocusEvent{Timestamp: s.now()}); err != nil {
		log.Printf("Failed to record focus end: %v", err)
	}
}

func (s *Service) storeError(kind string, err error) {
	if s.recorder == nil {
		return
	}

	errorLog := &models.ErrorLog{
		Timestamp: s.now(),
		EventKind: kind,
		ErrorMsg:  err.Error(),
		Fatal:     true,
	}

	if dbErr := s.recorder.CreateErrorLog(errorLog); dbErr != nil {
		log.Printf("Failed to store error in database: %v (original error: %v)", dbErr, err)
	} else {
		log.Printf("Error logged to database: %v", err)
	}
}
