package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerWritesKeyValuePairs(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, true)
	defer SetOutput(&buf, true)

	l := NewModuleLogger("test")
	l.Info("hello world", "a", 1, "b", "two")

	out := buf.String()
	assert.Contains(t, out, "hello world")
	assert.Contains(t, out, "module=test")
	assert.Contains(t, out, "a=1")
	assert.Contains(t, out, "b=two")
}

func TestLoggerChildInheritsContext(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, true)
	defer SetOutput(&buf, true)

	parent := New("service", "export")
	child := parent.New("worker", 3)
	child.Warn("slow batch")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	assert.Contains(t, last, "service=export")
	assert.Contains(t, last, "worker=3")
}

func TestNormalizeOddContextGetsPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, true)
	defer SetOutput(&buf, true)

	l := New()
	l.Info("odd", "onlykey")
	assert.Contains(t, buf.String(), "onlykey=LOG_ERRMISSINGVALUE")
}
