package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jmylchreest/docpull/pkg/docpull"
)

// TextWriter writes plain text as values arrive: one line per link, content
// strings separated by newlines. Failed results are rendered as their
// error message.
type TextWriter struct {
	w *bufio.Writer
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

func (w *TextWriter) Write(v any) error {
	switch v := v.(type) {
	case docpull.Result:
		if !v.Success {
			fmt.Fprintf(w.w, "error: %s\n", v.Error)
			break
		}
		w.lines(v.Data)
	case []string:
		w.lines(v)
	case fmt.Stringer:
		fmt.Fprintln(w.w, v.String())
	default:
		fmt.Fprintln(w.w, v)
	}
	return w.w.Flush()
}

func (w *TextWriter) lines(items []string) {
	for _, item := range items {
		w.w.WriteString(item)
		w.w.WriteByte('\n')
	}
}

func (w *TextWriter) Close() error {
	return w.w.Flush()
}
