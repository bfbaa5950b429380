package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SettlementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlements_total",
		Help: "Settlement submissions by outcome.",
	}, []string{"outcome"})

	RejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_rejections_total",
		Help: "Rejected settlements by machine reason.",
	}, []string{"reason"})

	KillsSettledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kills_settled_total",
		Help: "Kills credited across all settlements.",
	})

	PoolAccruedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pool_accrued_amount_total",
		Help: "Money accrued into monthly pools.",
	})
)

// Handler exposes the default prometheus registry on a gin route.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
