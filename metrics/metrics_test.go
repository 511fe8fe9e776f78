package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCounterValue(t *testing.T) {
	counter := gometrics.NewCounter()
	counter.Inc(42)

	h := Handler(NewCollector("chainetl_items_processed_total", "items processed", counter))

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "chainetl_items_processed_total 42")
}
