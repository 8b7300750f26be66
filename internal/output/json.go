package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// newEncoder returns a JSON encoder that leaves markup in content strings
// unescaped.
func newEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}

// JSONWriter buffers values and writes them on Close, as a single document
// for one value and as an array otherwise.
type JSONWriter struct {
	w      *bufio.Writer
	pretty bool
	indent string
	items  []any
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		pretty: pretty,
		indent: indent,
		items:  make([]any, 0),
	}
}

func (w *JSONWriter) Write(v any) error {
	w.items = append(w.items, v)
	return nil
}

func (w *JSONWriter) Close() error {
	enc := newEncoder(w.w)
	if w.pretty {
		enc.SetIndent("", w.indent)
	}

	var err error
	if len(w.items) == 1 {
		err = enc.Encode(w.items[0])
	} else {
		err = enc.Encode(w.items)
	}
	if err != nil {
		return err
	}
	return w.w.Flush()
}

// JSONLWriter writes one compact JSON document per line as values arrive.
type JSONLWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	bw := bufio.NewWriter(w)
	return &JSONLWriter{w: bw, enc: newEncoder(bw)}
}

func (w *JSONLWriter) Write(v any) error {
	if err := w.enc.Encode(v); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *JSONLWriter) Close() error {
	return w.w.Flush()
}
