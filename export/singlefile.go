package export

import (
	"context"
	"sync"
)

// SingleFileWriter accumulates every record for one item type in memory
// and flushes a single file on Close — spec §4.10's "single-file" backend,
// used when a caller doesn't need rotation (small item types, or a
// one-shot export where multiple output files would just be noise).
type SingleFileWriter struct {
	sink     Sink
	path     string
	fields   []string
	format   Format
	compress bool

	mu     sync.Mutex
	buffer []map[string]interface{}
}

// NewSingleFileWriter returns a writer for one item type at sink/path.
func NewSingleFileWriter(sink Sink, path string, fields []string, format Format, compress bool) *SingleFileWriter {
	return &SingleFileWriter{sink: sink, path: path, fields: fields, format: format, compress: compress}
}

func (w *SingleFileWriter) ExportItem(ctx context.Context, item map[string]interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buffer = append(w.buffer, item)
	return nil
}

// Close writes every buffered record to the single configured path.
func (w *SingleFileWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.buffer) == 0 {
		return nil
	}
	data, err := encode(w.buffer, w.fields, w.format, w.compress)
	if err != nil {
		return err
	}
	return w.sink.Write(ctx, w.path, data)
}
