package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHelpers(t *testing.T) {
	Init()
	Init()

	IncrementConversion("direct")
	IncrementConversion("direct")
	assert.Equal(t, 2.0, testutil.ToFloat64(conversionCounter.WithLabelValues("direct")))

	IncrementCommissionQuote("send", false)
	assert.Equal(t, 1.0, testutil.ToFloat64(commissionQuoteCounter.WithLabelValues("send", "none")))

	SetRateFindings(map[string]int{"suspect": 3, "unresolvable": 1})
	SetRateFindings(map[string]int{"suspect": 1})
	assert.Equal(t, 1.0, testutil.ToFloat64(rateFindingsGauge.WithLabelValues("suspect")))
	assert.Equal(t, 1, testutil.CollectAndCount(rateFindingsGauge))
}
