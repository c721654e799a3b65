// internal/metrics/metrics.go
//
// Prometheus collectors for the Wordle service.
// Metrics implements game.Observer so the engine reports game events
// without importing Prometheus, and exposes an HTTP middleware for
// request latency. Collectors live on their own registry, served by Handler.

package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robalobadob/wordle-rounds/internal/game"
)

type Metrics struct {
	reg *prometheus.Registry

	GamesStarted   prometheus.Counter
	Guesses        *prometheus.CounterVec
	GamesFinished  *prometheus.CounterVec
	WinRound       prometheus.Histogram
	RequestLatency *prometheus.HistogramVec
}

func New(namespace string) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		GamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Number of games started",
		}),
		Guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guesses_total",
			Help:      "Guesses submitted, by outcome",
		}, []string{"result"}),
		GamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Games that reached a final state",
		}, []string{"state"}),
		WinRound: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "win_round",
			Help:      "Round on which games were won",
			Buckets:   prometheus.LinearBuckets(1, 1, game.MaxRounds),
		}),
		RequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"method", "route", "status"}),
	}

	m.reg.MustRegister(
		m.GamesStarted,
		m.Guesses,
		m.GamesFinished,
		m.WinRound,
		m.RequestLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) GameStarted() {
	m.GamesStarted.Inc()
}

func (m *Metrics) GuessRejected(err error) {
	result := "invalid"
	if errors.Is(err, game.ErrGameTerminal) {
		result = "terminal"
	}
	m.Guesses.WithLabelValues(result).Inc()
}

func (m *Metrics) GuessAccepted(g *game.Game) {
	m.Guesses.WithLabelValues("accepted").Inc()
	if !g.State.Terminal() {
		return
	}
	m.GamesFinished.WithLabelValues(string(g.State)).Inc()
	if g.State == game.StateWon {
		m.WinRound.Observe(float64(g.WinRound))
	}
}

// Middleware records request latency labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestLatency.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

var _ game.Observer = (*Metrics)(nil)
