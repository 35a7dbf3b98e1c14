package infra

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus counters for the hot paths. Registered via promauto so a
// duplicate registration panics at startup instead of silently dropping.
var (
	MatchesSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fielbet_matches_settled_total",
		Help: "Matches fully settled (bets graded, bolões resolved).",
	})

	VotingsFinalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fielbet_mvp_votings_finalized_total",
		Help: "MVP votings finalized after their deadline.",
	})

	BetsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fielbet_bets_settled_total",
		Help: "Individual bets settled, by outcome.",
	}, []string{"outcome"})

	TransactionsPosted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fielbet_wallet_transactions_total",
		Help: "Ledger entries posted, by transaction type.",
	}, []string{"type"})

	OutboxPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fielbet_outbox_published_total",
		Help: "Outbox events published to Kafka.",
	})

	OutboxPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fielbet_outbox_publish_failures_total",
		Help: "Outbox events that failed to publish and will be retried.",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fielbet_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status class.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "status"})
)

// StartMetricsServer serves /metrics and /healthz on its own listener so
// the operational surface never shares a port with the public API.
// Shuts down when ctx is cancelled.
func StartMetricsServer(ctx context.Context, addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	go func() {
		logger.Info("metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "error", err)
		}
	}()
}
