package content

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	writesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "content_writes_total",
		Help: "Content persistence attempts by backend and result.",
	}, []string{"backend", "result"})

	remoteUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "content_remote_updates_total",
		Help: "Remote content snapshots by outcome.",
	}, []string{"outcome"})

	syncingGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "content_syncing",
		Help: "Remote content writes currently in flight.",
	})
)
