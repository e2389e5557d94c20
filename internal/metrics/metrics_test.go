package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("/v1/invoices", "GET", "200"))
	ObserveRequest("/v1/invoices", "GET", "200", 15*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("/v1/invoices", "GET", "200")))
}

func TestObservePublish(t *testing.T) {
	before := testutil.ToFloat64(eventsPublished.WithLabelValues("invoice.created", "error"))
	ObservePublish("invoice.created", errors.New("broker down"))
	assert.Equal(t, before+1, testutil.ToFloat64(eventsPublished.WithLabelValues("invoice.created", "error")))
}

func TestAddOverdue(t *testing.T) {
	before := testutil.ToFloat64(invoicesMarkedOverdue)
	AddOverdue(3)
	assert.Equal(t, before+3, testutil.ToFloat64(invoicesMarkedOverdue))
}
