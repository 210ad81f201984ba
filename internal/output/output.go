package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use json or yaml)", s)
	}
}

// Emitter writes one document per call to an underlying writer.
// JSON documents are newline terminated so each line is one complete state.
type Emitter struct {
	w      io.Writer
	format Format
	pretty bool
}

// NewEmitter creates an emitter writing to w
func NewEmitter(w io.Writer, format Format, pretty bool) *Emitter {
	return &Emitter{w: w, format: format, pretty: pretty}
}

// Format returns the document format
func (e *Emitter) Format() Format {
	return e.format
}

// Encode renders v in the emitter's format without writing it
func (e *Emitter) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	switch e.format {
	case FormatYAML:
		buf.WriteString("---\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("yaml encode: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("yaml encode: %w", err)
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if e.pretty {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("json encode: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// Emit encodes v and writes it with a single Write call
func (e *Emitter) Emit(v any) ([]byte, error) {
	data, err := e.Encode(v)
	if err != nil {
		return nil, err
	}
	if _, err := e.w.Write(data); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	return data, nil
}
