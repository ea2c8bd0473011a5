package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minestats_upstream_requests_total",
		Help: "Requests made to upstream services, by service and status",
	}, []string{"service", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "minestats_upstream_request_duration_seconds",
		Help:    "Duration of upstream requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"service"})

	rateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minestats_upstream_rate_limited_total",
		Help: "Requests delayed by the local rate limiter or rejected upstream with 429",
	}, []string{"service"})

	nameLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minestats_name_lookups_total",
		Help: "Bulk display name lookups, by result",
	}, []string{"result"})

	leaderboardRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minestats_leaderboard_refreshes_total",
		Help: "Scheduled leaderboard message refreshes, by result",
	}, []string{"result"})

	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minestats_commands_total",
		Help: "Slash commands handled, by command and result",
	}, []string{"command", "result"})
)

// Upstream records one finished request against an upstream service.
// A status of 0 means the request never got a response.
func Upstream(service string, status int, elapsed time.Duration) {
	label := "error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	requestsTotal.WithLabelValues(service, label).Inc()
	requestDuration.WithLabelValues(service).Observe(elapsed.Seconds())
}

func RateLimited(service string) {
	rateLimited.WithLabelValues(service).Inc()
}

func NameLookup(ok bool) {
	nameLookups.WithLabelValues(result(ok)).Inc()
}

func LeaderboardRefresh(ok bool) {
	leaderboardRefreshes.WithLabelValues(result(ok)).Inc()
}

func Command(name string, ok bool) {
	commandsTotal.WithLabelValues(name, result(ok)).Inc()
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

// Router exposes the prometheus handler and a liveness probe
func Router() http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return r
}

// Serve listens on addr until ctx is cancelled
func Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Info().Msg("Serving metrics on " + addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
