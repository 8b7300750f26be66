package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter buffers values and writes them on Close.
type YAMLWriter struct {
	w     *bufio.Writer
	items []any
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{
		w:     bufio.NewWriter(w),
		items: make([]any, 0),
	}
}

func (w *YAMLWriter) Write(v any) error {
	w.items = append(w.items, v)
	return nil
}

func (w *YAMLWriter) Close() error {
	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(2)

	var err error
	if len(w.items) == 1 {
		err = encoder.Encode(w.items[0])
	} else {
		err = encoder.Encode(w.items)
	}
	if err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	return w.w.Flush()
}
