package serializer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Writer serializes records to an io.Writer. Close must be called when the
// Writer owns a file handle.
type Writer struct {
	format Format
	out    io.Writer
	closer io.Closer
}

// NewWriter creates a Writer for the given destination. A nil destination
// writes to stdout; an unknown format falls back to YAML.
func NewWriter(format Format, out io.Writer) *Writer {
	if out == nil {
		out = os.Stdout
	}
	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to YAML", "format", format)
		format = FormatYAML
	}
	return &Writer{format: format, out: out}
}

// NewStdoutWriter creates a Writer that writes to stdout.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, nil)
}

// NewFileWriterOrStdout routes output by path: empty means stdout, a
// cm://namespace/name URI targets a ConfigMap, anything else creates a local
// file. Failures to set up the destination degrade to stdout rather than
// erroring, so apply never loses its undo snapshots outright.
func NewFileWriterOrStdout(format Format, path string) Serializer {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return NewStdoutWriter(format)
	}

	if strings.HasPrefix(trimmed, ConfigMapURIScheme) {
		namespace, name, err := parseConfigMapURI(trimmed)
		if err != nil {
			slog.Error("invalid ConfigMap URI, falling back to stdout", "error", err, "uri", trimmed)
			return NewStdoutWriter(format)
		}
		return NewConfigMapWriter(namespace, name, format)
	}

	file, err := os.Create(trimmed)
	if err != nil {
		slog.Error("failed to create output file, falling back to stdout", "error", err, "path", trimmed)
		return NewStdoutWriter(format)
	}

	w := NewWriter(format, file)
	w.closer = file
	return w
}

// Serialize encodes data and writes it to the destination.
func (w *Writer) Serialize(_ context.Context, data any) error {
	b, err := encode(w.format, data)
	if err != nil {
		return err
	}
	_, err = w.out.Write(b)
	return err
}

// Close releases the underlying file handle, if any. Safe to call more than
// once.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	c := w.closer
	w.closer = nil
	return c.Close()
}
