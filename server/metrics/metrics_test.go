package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersExposed(t *testing.T) {
	before := testutil.ToFloat64(GachaPulls.WithLabelValues("kanto", "epic"))
	GachaPulls.WithLabelValues("kanto", "epic").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(GachaPulls.WithLabelValues("kanto", "epic")))

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `pokeidle_gacha_pulls_total{banner="kanto",rarity="epic"}`)
}
