// Package metrics exposes Prometheus instruments for session activity.
//
//	pomo_sessions_started_total{type}    sessions started
//	pomo_sessions_completed_total{type}  sessions whose countdown reached zero
//	pomo_sessions_cancelled_total{type}  sessions cancelled or reset before finishing
//	pomo_focus_seconds_total             work seconds completed
//	pomo_work_sessions_since_long_break  rolling count driving the long break
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"pomo/internal/core/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the session instruments. A nil *Collector records nothing.
type Collector struct {
	sessionsStarted   *prometheus.CounterVec
	sessionsCompleted *prometheus.CounterVec
	sessionsCancelled *prometheus.CounterVec
	focusSeconds      prometheus.Counter
	workSinceLong     prometheus.Gauge
}

// NewCollector creates the instruments and registers them with registerer.
func NewCollector(registerer prometheus.Registerer) (*Collector, error) {
	collector := &Collector{
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pomo",
			Name:      "sessions_started_total",
			Help:      "Sessions started, by type.",
		}, []string{"type"}),
		sessionsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pomo",
			Name:      "sessions_completed_total",
			Help:      "Sessions whose countdown reached zero, by type.",
		}, []string{"type"}),
		sessionsCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pomo",
			Name:      "sessions_cancelled_total",
			Help:      "Sessions cancelled before finishing, by type.",
		}, []string{"type"}),
		focusSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pomo",
			Name:      "focus_seconds_total",
			Help:      "Seconds of completed work sessions.",
		}),
		workSinceLong: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pomo",
			Name:      "work_sessions_since_long_break",
			Help:      "Completed work sessions since the last long break.",
		}),
	}

	for _, instrument := range []prometheus.Collector{
		collector.sessionsStarted,
		collector.sessionsCompleted,
		collector.sessionsCancelled,
		collector.focusSeconds,
		collector.workSinceLong,
	} {
		if err := registerer.Register(instrument); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return collector, nil
}

// RecordStart counts a started session.
func (collector *Collector) RecordStart(sessionType model.SessionType) {
	if collector == nil {
		return
	}
	collector.sessionsStarted.WithLabelValues(string(sessionType)).Inc()
}

// RecordCompletion counts a finished session and its focus time.
func (collector *Collector) RecordCompletion(sessionType model.SessionType, durationSeconds int) {
	if collector == nil {
		return
	}
	collector.sessionsCompleted.WithLabelValues(string(sessionType)).Inc()
	if sessionType == model.SessionWork && durationSeconds > 0 {
		collector.focusSeconds.Add(float64(durationSeconds))
	}
}

// RecordCancel counts a session abandoned before finishing.
func (collector *Collector) RecordCancel(sessionType model.SessionType) {
	if collector == nil {
		return
	}
	collector.sessionsCancelled.WithLabelValues(string(sessionType)).Inc()
}

// SetWorkSinceLongBreak updates the rolling work-session gauge.
func (collector *Collector) SetWorkSinceLongBreak(count int) {
	if collector == nil {
		return
	}
	collector.workSinceLong.Set(float64(count))
}

// Serve exposes gatherer on addr at /metrics until ctx is cancelled.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("serve metrics: %w", err)
	}
	return serve(ctx, listener, gatherer)
}

func serve(ctx context.Context, listener net.Listener, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve metrics: %w", err)
	}
}
