package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// Format selects line-delimited JSON or CSV-with-header output, per
// spec §4.10.
type Format int

const (
	FormatJSON Format = iota
	FormatCSV
)

// RotatingWriter buffers records for one item type into a deque with a
// monotonic counter, flushing the first FileMaxLines records to a
// sequentially numbered file every time the counter crosses a multiple
// of FileMaxLines, and flushing any remaining tail on Close — a direct
// port of buffered_item_exporter.py's BufferedItemExporter.
type RotatingWriter struct {
	sink         Sink
	dir          string
	fields       []string
	format       Format
	compress     bool
	fileMaxLines int

	mu      sync.Mutex
	buffer  []map[string]interface{}
	counter int64
	nextIdx int64
}

// NewRotatingWriter returns a writer for one item type, rooted at dir
// under sink (spec §4.10's "<out_dir>/<type>/data-<seq:012>.<fmt>[.gz]").
// fields, if non-empty, fixes field projection order; fileMaxLines must
// be >= 1.
func NewRotatingWriter(sink Sink, dir string, fields []string, format Format, compress bool, fileMaxLines int) *RotatingWriter {
	if fileMaxLines < 1 {
		fileMaxLines = 1
	}
	return &RotatingWriter{
		sink:         sink,
		dir:          dir,
		fields:       fields,
		format:       format,
		compress:     compress,
		fileMaxLines: fileMaxLines,
	}
}

// ExportItem appends item to the buffer, rotating a file out exactly
// when the running counter crosses a fileMaxLines boundary.
func (w *RotatingWriter) ExportItem(ctx context.Context, item map[string]interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buffer = append(w.buffer, item)
	w.counter++

	if w.counter%int64(w.fileMaxLines) == 0 {
		return w.flushLocked(ctx, w.fileMaxLines)
	}
	return nil
}

// Close flushes any buffered tail shorter than fileMaxLines.
func (w *RotatingWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.buffer) == 0 {
		return nil
	}
	return w.flushLocked(ctx, len(w.buffer))
}

func (w *RotatingWriter) flushLocked(ctx context.Context, n int) error {
	batch := w.buffer[:n]
	w.buffer = w.buffer[n:]

	data, err := encode(batch, w.fields, w.format, w.compress)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("%s/%s", w.dir, filename(w.nextIdx, w.format, w.compress))
	w.nextIdx++
	return w.sink.Write(ctx, path, data)
}

func filename(idx int64, format Format, compress bool) string {
	ext := "json"
	if format == FormatCSV {
		ext = "csv"
	}
	if compress {
		return fmt.Sprintf("data-%012d.%s.gz", idx, ext)
	}
	return fmt.Sprintf("data-%012d.%s", idx, ext)
}

// encode serializes items as line-delimited JSON or CSV-with-header,
// gzip-compressing the result with klauspost/compress/gzip (a drop-in
// for compress/gzip's io.WriteCloser shape) when compress is true.
func encode(items []map[string]interface{}, fields []string, format Format, compress bool) ([]byte, error) {
	var buf bytes.Buffer
	var w interface {
		Write([]byte) (int, error)
		Close() error
	}
	if compress {
		w = gzip.NewWriter(&buf)
	} else {
		w = nopCloser{&buf}
	}

	var err error
	switch format {
	case FormatCSV:
		err = writeCSV(w, items, fields)
	default:
		err = writeJSONLines(w, items, fields)
	}
	if err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("export: close encoder: %w", err)
	}
	return buf.Bytes(), nil
}

func writeJSONLines(w interface{ Write([]byte) (int, error) }, items []map[string]interface{}, fields []string) error {
	for _, item := range items {
		projected := project(item, fields)
		line, err := json.Marshal(projected)
		if err != nil {
			return fmt.Errorf("export: marshal item: %w", err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("export: write line: %w", err)
		}
	}
	return nil
}

func writeCSV(w interface{ Write([]byte) (int, error) }, items []map[string]interface{}, fields []string) error {
	cw := csv.NewWriter(writerFunc(w.Write))
	header := fields
	if len(header) == 0 {
		header = collectFields(items)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, item := range items {
		row := make([]string, len(header))
		for i, f := range header {
			row[i] = fmt.Sprintf("%v", item[f])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

type nopCloser struct {
	*bytes.Buffer
}

func (nopCloser) Close() error { return nil }

func project(item map[string]interface{}, fields []string) map[string]interface{} {
	if len(fields) == 0 {
		return item
	}
	out := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		out[f] = item[f]
	}
	return out
}

func collectFields(items []map[string]interface{}) []string {
	seen := map[string]bool{}
	var out []string
	for _, item := range items {
		for k := range item {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}
