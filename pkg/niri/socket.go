package niri

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"iter"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// SocketEnv is the environment variable niri exports with its socket path
const SocketEnv = "NIRI_SOCKET"

// ErrSubscribeRejected is returned when niri does not acknowledge an event stream request
var ErrSubscribeRejected = errors.New("event stream subscription rejected")

// ErrNoSocket is returned when no niri socket can be located
var ErrNoSocket = errors.New("niri socket not found")

// SocketPath resolves the niri socket: NIRI_SOCKET when set, otherwise the
// most recently created niri.*.sock in XDG_RUNTIME_DIR.
func SocketPath() (string, error) {
	if path := os.Getenv(SocketEnv); path != "" {
		return path, nil
	}

	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = filepath.Join("/run/user", strconv.Itoa(os.Getuid()))
	}

	matches, err := filepath.Glob(filepath.Join(runtimeDir, "niri.*.sock"))
	if err != nil {
		return "", errors.Wrap(err, "failed to search for niri socket")
	}

	var (
		newest string
		mtime  int64
	)
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.Mode()&os.ModeSocket == 0 {
			continue
		}
		if t := info.ModTime().UnixNano(); newest == "" || t > mtime {
			newest, mtime = m, t
		}
	}
	if newest == "" {
		return "", errors.Wrapf(ErrNoSocket, "%s is unset and %s has no niri.*.sock", SocketEnv, runtimeDir)
	}
	return newest, nil
}

// Client talks to a niri IPC socket. Each request uses its own connection.
type Client struct {
	path string
}

// NewClient creates a client for the socket at path
func NewClient(path string) *Client {
	return &Client{path: path}
}

// Path returns the socket path
func (c *Client) Path() string {
	return c.path
}

func (c *Client) send(ctx context.Context, req Request) (net.Conn, *bufio.Reader, json.RawMessage, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.path)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "failed to connect to niri at %s", c.path)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	data, err := json.Marshal(req)
	if err != nil {
		conn.Close()
		return nil, nil, nil, errors.Wrapf(err, "failed to encode %s request", req)
	}
	if _, err := conn.Write(append(data, '\n')); err != nil {
		conn.Close()
		return nil, nil, nil, errors.Wrapf(err, "failed to send %s request", req)
	}

	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil && len(line) == 0 {
		conn.Close()
		return nil, nil, nil, errors.Wrapf(err, "failed to read reply to %s", req)
	}

	ok, err := DecodeReply(req, line)
	if err != nil {
		conn.Close()
		return nil, nil, nil, err
	}
	conn.SetDeadline(time.Time{})
	return conn, reader, ok, nil
}

// Request sends a single request and returns the Ok payload of the reply
func (c *Client) Request(ctx context.Context, req Request) (json.RawMessage, error) {
	conn, _, ok, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	conn.Close()
	return ok, nil
}

// unwrapResponse extracts the payload of a tagged response such as {"Version": "..."}
func unwrapResponse(ok json.RawMessage, name string, v any) error {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(ok, &tagged); err != nil {
		return errors.Wrapf(err, "failed to decode %s response", name)
	}
	payload, found := tagged[name]
	if !found {
		return errors.Errorf("unexpected response, want %s", name)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return errors.Wrapf(err, "failed to decode %s response", name)
	}
	return nil
}

// Version returns the running niri version
func (c *Client) Version(ctx context.Context) (string, error) {
	ok, err := c.Request(ctx, RequestVersion)
	if err != nil {
		return "", err
	}
	var version string
	if err := unwrapResponse(ok, "Version", &version); err != nil {
		return "", err
	}
	return version, nil
}

// Workspaces returns all workspaces
func (c *Client) Workspaces(ctx context.Context) ([]Workspace, error) {
	ok, err := c.Request(ctx, RequestWorkspaces)
	if err != nil {
		return nil, err
	}
	var workspaces []Workspace
	if err := unwrapResponse(ok, "Workspaces", &workspaces); err != nil {
		return nil, err
	}
	return workspaces, nil
}

// Windows returns all windows
func (c *Client) Windows(ctx context.Context) ([]Window, error) {
	ok, err := c.Request(ctx, RequestWindows)
	if err != nil {
		return nil, err
	}
	var windows []Window
	if err := unwrapResponse(ok, "Windows", &windows); err != nil {
		return nil, err
	}
	return windows, nil
}

// FocusedWindow returns the focused window, or nil when none is focused
func (c *Client) FocusedWindow(ctx context.Context) (*Window, error) {
	ok, err := c.Request(ctx, RequestFocusedWindow)
	if err != nil {
		return nil, err
	}
	var window *Window
	if err := unwrapResponse(ok, "FocusedWindow", &window); err != nil {
		return nil, err
	}
	return window, nil
}

// EventStream subscribes to the event stream. The context only bounds the
// handshake; once subscribed the stream lives until Close or the peer hangs up.
func (c *Client) EventStream(ctx context.Context) (*EventStream, error) {
	conn, reader, ok, err := c.send(ctx, RequestEventStream)
	if err != nil {
		var replyErr *ReplyError
		if errors.As(err, &replyErr) {
			return nil, errors.Wrap(ErrSubscribeRejected, replyErr.Error())
		}
		return nil, err
	}

	var handled string
	if err := json.Unmarshal(ok, &handled); err != nil || handled != "Handled" {
		conn.Close()
		return nil, errors.Wrapf(ErrSubscribeRejected, "unexpected reply %s", string(ok))
	}

	return &EventStream{conn: conn, reader: reader}, nil
}

// EventStream is a blocking sequence of events read from one connection
type EventStream struct {
	conn   io.Closer
	reader *bufio.Reader
}

// NewEventStream wraps an already subscribed connection
func NewEventStream(rc io.ReadCloser) *EventStream {
	return &EventStream{conn: rc, reader: bufio.NewReader(rc)}
}

// Next blocks until the next event arrives. It returns io.EOF when the
// connection is closed cleanly between events.
func (s *EventStream) Next() (Event, error) {
	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF && len(bytes.TrimSpace(line)) > 0 {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		return DecodeEvent(line)
	}
}

// All yields events until the stream fails. The final pair carries the
// terminal error, io.EOF included.
func (s *EventStream) All() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			ev, err := s.Next()
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}

// Close closes the underlying connection, unblocking a pending Next
func (s *EventStream) Close() error {
	return s.conn.Close()
}
