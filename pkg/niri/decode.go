package niri

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// Request is a niri IPC request without arguments
type Request string

const (
	RequestEventStream   Request = "EventStream"
	RequestVersion       Request = "Version"
	RequestWorkspaces    Request = "Workspaces"
	RequestWindows       Request = "Windows"
	RequestFocusedWindow Request = "FocusedWindow"
)

// ReplyError is returned when niri answers a request with an Err reply
type ReplyError struct {
	Request Request
	Message string
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("niri rejected %s request: %s", e.Request, e.Message)
}

type reply struct {
	Ok  json.RawMessage `json:"Ok"`
	Err *string         `json:"Err"`
}

// DecodeReply parses a reply line and returns the Ok payload
func DecodeReply(req Request, line []byte) (json.RawMessage, error) {
	var r reply
	if err := json.Unmarshal(line, &r); err != nil {
		return nil, errors.Wrapf(err, "failed to decode reply to %s", req)
	}
	if r.Err != nil {
		return nil, &ReplyError{Request: req, Message: *r.Err}
	}
	if r.Ok == nil {
		return nil, errors.Errorf("reply to %s has neither Ok nor Err", req)
	}
	return r.Ok, nil
}

// DecodeEvent parses one line of the event stream.
// Kinds this package does not know are returned as Unknown.
func DecodeEvent(line []byte) (Event, error) {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(line, &tagged); err != nil {
		return nil, errors.Wrap(err, "failed to decode event")
	}
	if len(tagged) != 1 {
		return nil, errors.Errorf("event must have exactly one tag, got %d", len(tagged))
	}

	var (
		name    string
		payload json.RawMessage
	)
	for k, v := range tagged {
		name, payload = k, v
	}

	var ev Event
	var err error
	switch name {
	case "WorkspacesChanged":
		ev, err = decodeAs[WorkspacesChanged](payload)
	case "WorkspaceUrgencyChanged":
		ev, err = decodeAs[WorkspaceUrgencyChanged](payload)
	case "WorkspaceActivated":
		ev, err = decodeAs[WorkspaceActivated](payload)
	case "WorkspaceActiveWindowChanged":
		ev, err = decodeAs[WorkspaceActiveWindowChanged](payload)
	case "WindowsChanged":
		ev, err = decodeAs[WindowsChanged](payload)
	case "WindowOpenedOrChanged":
		ev, err = decodeAs[WindowOpenedOrChanged](payload)
	case "WindowClosed":
		ev, err = decodeAs[WindowClosed](payload)
	case "WindowFocusChanged":
		ev, err = decodeAs[WindowFocusChanged](payload)
	case "WindowUrgencyChanged":
		ev, err = decodeAs[WindowUrgencyChanged](payload)
	case "WindowLayoutsChanged":
		ev, err = decodeAs[WindowLayoutsChanged](payload)
	case "KeyboardLayoutsChanged":
		ev, err = decodeAs[KeyboardLayoutsChanged](payload)
	case "KeyboardLayoutSwitched":
		ev, err = decodeAs[KeyboardLayoutSwitched](payload)
	case "OverviewOpenedOrClosed":
		ev, err = decodeAs[OverviewOpenedOrClosed](payload)
	case "ConfigLoaded":
		ev, err = decodeAs[ConfigLoaded](payload)
	default:
		return Unknown{Name: name, Payload: payload}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", name)
	}
	return ev, nil
}

func decodeAs[T Event](payload json.RawMessage) (Event, error) {
	var ev T
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// EncodeEvent renders an event in niri's externally tagged form
func EncodeEvent(ev Event) ([]byte, error) {
	if ev == nil {
		return nil, errors.New("cannot encode nil event")
	}
	var payload any = ev
	if u, ok := ev.(Unknown); ok {
		payload = struct{}{}
		if len(u.Payload) > 0 {
			payload = u.Payload
		}
	}
	data, err := json.Marshal(map[string]any{ev.Kind(): payload})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s", ev.Kind())
	}
	return data, nil
}
