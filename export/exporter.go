package export

import (
	"context"
	"fmt"
	"sync"

	"github.com/kaiachain/chainetl/log"
)

var logger = log.NewModuleLogger("export")

// ItemWriter is satisfied by both RotatingWriter and SingleFileWriter.
type ItemWriter interface {
	ExportItem(ctx context.Context, item map[string]interface{}) error
	Close(ctx context.Context) error
}

// MultiExporter routes each record by its "type" field to a configured
// per-type writer, a direct port of multi_item_exporter.py's
// MultifileItemExporter.export_item, generalized to either backend
// (rotating or single-file) since Go doesn't need the Python version's
// dict-of-constructors indirection to pick one.
//
// Spec §5 requires the exporter be serialized — "a single coarse-grained
// lock covers export_item" — so every call takes the same mutex rather
// than one per writer; that also means a slow write to one type's file
// stalls every other type's export_item call, which is the teacher's own
// tradeoff, not a Go-specific regression.
type MultiExporter struct {
	mu      sync.Mutex
	writers map[string]ItemWriter
	counts  map[string]int64
}

// NewMultiExporter builds an exporter with one writer per item type.
func NewMultiExporter(writers map[string]ItemWriter) *MultiExporter {
	return &MultiExporter{
		writers: writers,
		counts:  make(map[string]int64, len(writers)),
	}
}

// ExportItem looks up item["type"] and forwards to that type's writer,
// returning an error for a type with no configured writer (spec §4.10:
// "an unknown type raises").
func (e *MultiExporter) ExportItem(ctx context.Context, item map[string]interface{}) error {
	itemType, _ := item["type"].(string)
	if itemType == "" {
		return fmt.Errorf("export: item has no \"type\" field: %v", item)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	w, ok := e.writers[itemType]
	if !ok {
		return fmt.Errorf("export: no writer configured for item type %q", itemType)
	}
	if err := w.ExportItem(ctx, item); err != nil {
		return err
	}
	e.counts[itemType]++
	return nil
}

// ExportItems exports a batch, stopping at the first error.
func (e *MultiExporter) ExportItems(ctx context.Context, items []map[string]interface{}) error {
	for _, item := range items {
		if err := e.ExportItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes every configured writer, returning the first
// error encountered (but still attempting every writer).
func (e *MultiExporter) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var firstErr error
	for itemType, w := range e.writers {
		if err := w.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		logger.Info("items exported", "type", itemType, "count", e.counts[itemType])
	}
	return firstErr
}
