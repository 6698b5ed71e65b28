package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"pomo/internal/core/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollectorRegisters(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector, err := NewCollector(registry)
	require.NoError(t, err)
	require.NotNil(t, collector)

	_, err = NewCollector(registry)
	assert.Error(t, err, "registering twice should fail")
}

func TestRecordSessions(t *testing.T) {
	collector, err := NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	collector.RecordStart(model.SessionWork)
	collector.RecordStart(model.SessionWork)
	collector.RecordStart(model.SessionBreak)
	collector.RecordCompletion(model.SessionWork, 1500)
	collector.RecordCompletion(model.SessionBreak, 300)
	collector.RecordCancel(model.SessionWork)
	collector.SetWorkSinceLongBreak(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.sessionsStarted.WithLabelValues("work")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.sessionsStarted.WithLabelValues("break")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.sessionsCompleted.WithLabelValues("work")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.sessionsCancelled.WithLabelValues("work")))
	assert.Equal(t, 1500.0, testutil.ToFloat64(collector.focusSeconds))
	assert.Equal(t, 3.0, testutil.ToFloat64(collector.workSinceLong))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var collector *Collector
	assert.NotPanics(t, func() {
		collector.RecordStart(model.SessionWork)
		collector.RecordCompletion(model.SessionWork, 60)
		collector.RecordCancel(model.SessionBreak)
		collector.SetWorkSinceLongBreak(1)
	})
}

func TestServeExposesMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector, err := NewCollector(registry)
	require.NoError(t, err)
	collector.RecordStart(model.SessionWork)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, listener, registry) }()

	response, err := http.Get("http://" + listener.Addr().String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(response.Body)
	require.NoError(t, response.Body.Close())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Contains(t, string(body), `pomo_sessions_started_total{type="work"} 1`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestServeRejectsBadAddress(t *testing.T) {
	err := Serve(context.Background(), "not-an-address", prometheus.NewRegistry())
	assert.Error(t, err)
}
