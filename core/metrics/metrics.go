package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itcenter/coursebot/core/logger"
)

// Metrics holds the bot's Prometheus collectors on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	handlerDuration *prometheus.HistogramVec
	messagesSent    prometheus.Counter
	registrations   *prometheus.CounterVec
	broadcast       *prometheus.CounterVec
	gateChecks      *prometheus.CounterVec
	sessions        prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		handlerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coursebot_handler_duration_seconds",
			Help:    "Duration of update handlers in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"handler", "status"}),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coursebot_messages_sent_total",
			Help: "Messages sent or edited in reply to updates",
		}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coursebot_registrations_total",
			Help: "Finished registration dialogues by outcome",
		}, []string{"outcome"}),
		broadcast: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coursebot_broadcast_deliveries_total",
			Help: "Announcement deliveries by result",
		}, []string{"result"}),
		gateChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coursebot_gate_checks_total",
			Help: "Subscription gate decisions",
		}, []string{"result"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "coursebot_active_sessions",
			Help: "Dialogues currently in progress",
		}),
	}
	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "coursebot_goroutines",
		Help: "Number of goroutines",
	}, func() float64 { return float64(runtime.NumGoroutine()) })

	m.registry.MustRegister(m.handlerDuration, m.messagesSent, m.registrations, m.broadcast, m.gateChecks, m.sessions, goroutines)
	return m
}

// Default is the process-wide collector set.
var Default = New()

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler returns the Prometheus scrape handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHandler records one handler invocation.
func (m *Metrics) ObserveHandler(handler, status string, d time.Duration, messages int) {
	m.handlerDuration.WithLabelValues(handler, status).Observe(d.Seconds())
	if messages > 0 {
		m.messagesSent.Add(float64(messages))
	}
}

// Registration counts a finished registration dialogue ("ok", "cancelled", "fail", "not_found").
func (m *Metrics) Registration(outcome string) {
	m.registrations.WithLabelValues(outcome).Inc()
}

// Delivery counts one broadcast delivery.
func (m *Metrics) Delivery(ok bool) {
	m.broadcast.WithLabelValues(result(ok, "sent", "failed")).Inc()
}

// Gate counts one subscription decision.
func (m *Metrics) Gate(allowed bool) {
	m.gateChecks.WithLabelValues(result(allowed, "allowed", "denied")).Inc()
}

// Sessions sets the number of active dialogues.
func (m *Metrics) Sessions(n int) {
	m.sessions.Set(float64(n))
}

func result(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

// Serve exposes the registry on addr until ctx is cancelled.
func Serve(ctx context.Context, addr, path string, m *Metrics) error {
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, logger.CompMetrics, "metrics.listen",
		slog.String("listen", addr),
		slog.String("path", path),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
