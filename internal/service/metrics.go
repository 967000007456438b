package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backRefFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "msgboard_backref_failures_total",
			Help: "Owner-side id appends that failed after the child was persisted",
		},
		[]string{"kind"},
	)

	backRefRepairsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "msgboard_backref_repairs_total",
			Help: "Owner-side id appends restored by the reconciler",
		},
		[]string{"kind"},
	)
)
