package executor

import (
	"testing"

	"github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
)

func TestProgressReporterTracksCount(t *testing.T) {
	r := newProgressReporter(100, 10, metrics.NewCounter())
	r.add(5)
	r.add(5)
	assert.Equal(t, int64(10), r.Count())
}

func TestProgressReporterDisabledGranularityStillCounts(t *testing.T) {
	r := newProgressReporter(0, 0, metrics.NewCounter())
	r.add(3)
	assert.Equal(t, int64(3), r.Count())
}
