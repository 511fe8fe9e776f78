package export

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSink is an in-memory Sink for assertions without touching disk.
type memSink struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemSink() *memSink { return &memSink{files: map[string][]byte{}} }

func (s *memSink) Write(ctx context.Context, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	return nil
}

func item(n int) map[string]interface{} {
	return map[string]interface{}{"type": "block", "number": n}
}

func TestRotatingWriterFlushesExactlyOnMaxLines(t *testing.T) {
	sink := newMemSink()
	w := NewRotatingWriter(sink, "block", nil, FormatJSON, false, 3)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		require.NoError(t, w.ExportItem(ctx, item(i)))
	}
	require.NoError(t, w.Close(ctx))

	assert.Len(t, sink.files, 2)
	assert.Contains(t, sink.files, "block/data-000000000000.json")
	assert.Contains(t, sink.files, "block/data-000000000001.json")
}

func TestRotatingWriterFlushesTailOnClose(t *testing.T) {
	sink := newMemSink()
	w := NewRotatingWriter(sink, "block", nil, FormatJSON, false, 3)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		require.NoError(t, w.ExportItem(ctx, item(i)))
	}
	require.NoError(t, w.Close(ctx))

	assert.Len(t, sink.files, 3) // ceil(7/3) = 3
	data := sink.files["block/data-000000000002.json"]
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 1) // tail has 7 mod 3 = 1 row
}

func TestRotatingWriterGzipCompresses(t *testing.T) {
	sink := newMemSink()
	w := NewRotatingWriter(sink, "block", nil, FormatJSON, true, 1)
	ctx := context.Background()
	require.NoError(t, w.ExportItem(ctx, item(1)))
	require.NoError(t, w.Close(ctx))

	data, ok := sink.files["block/data-000000000000.json.gz"]
	require.True(t, ok)

	r, err := gzip.NewReader(strings.NewReader(string(data)))
	require.NoError(t, err)
	plain, err := io.ReadAll(r)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(plain, &decoded))
	assert.Equal(t, float64(1), decoded["number"])
}

func TestMultiExporterRoutesByType(t *testing.T) {
	sink := newMemSink()
	blockWriter := NewRotatingWriter(sink, "block", nil, FormatJSON, false, 1)
	exp := NewMultiExporter(map[string]ItemWriter{"block": blockWriter})
	ctx := context.Background()

	require.NoError(t, exp.ExportItem(ctx, item(1)))
	require.NoError(t, exp.Close(ctx))

	assert.Len(t, sink.files, 1)
}

func TestMultiExporterRejectsUnknownType(t *testing.T) {
	exp := NewMultiExporter(map[string]ItemWriter{})
	err := exp.ExportItem(context.Background(), map[string]interface{}{"type": "receipt"})
	assert.Error(t, err)
}

func TestSingleFileWriterWritesAllBufferedOnClose(t *testing.T) {
	sink := newMemSink()
	w := NewSingleFileWriter(sink, "block/data.json", nil, FormatJSON, false)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, w.ExportItem(ctx, item(i)))
	}
	require.NoError(t, w.Close(ctx))

	data := sink.files["block/data.json"]
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 5)
}

func TestWriteCSVProjectsConfiguredFields(t *testing.T) {
	sink := newMemSink()
	w := NewRotatingWriter(sink, "block", []string{"type", "number"}, FormatCSV, false, 2)
	ctx := context.Background()
	require.NoError(t, w.ExportItem(ctx, item(1)))
	require.NoError(t, w.ExportItem(ctx, item(2)))
	require.NoError(t, w.Close(ctx))

	data := string(sink.files["block/data-000000000000.csv"])
	assert.Equal(t, "type,number\nblock,1\nblock,2\n", data)
}

func TestFilenameSchemeMatchesSpec(t *testing.T) {
	assert.Equal(t, "data-000000000000.json", filename(0, FormatJSON, false))
	assert.Equal(t, fmt.Sprintf("data-%012d.csv.gz", 5), filename(5, FormatCSV, true))
}
