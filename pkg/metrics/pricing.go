package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics tracks the totals pipeline for carts and buy-now sessions.
type PricingMetrics struct {
	computations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	rejections   *prometheus.CounterVec
	redemptions  *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	computations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_totals_computed_total",
		Help: "Totals computations by checkout context.",
	}, []string{"context"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_totals_duration_seconds",
		Help:    "Time spent computing a price breakdown.",
		Buckets: prometheus.DefBuckets,
	}, []string{"context"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_coupon_rejections_total",
		Help: "Coupon evaluations that failed, by reason.",
	}, []string{"reason"})
	redemptions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_coupon_redemptions_total",
		Help: "Coupon usage counter changes, by action.",
	}, []string{"action"})
	reg.MustRegister(computations, duration, rejections, redemptions)
	return &PricingMetrics{
		computations: computations,
		duration:     duration,
		rejections:   rejections,
		redemptions:  redemptions,
	}
}

// ObserveTotals records one totals computation for the given context.
func (p *PricingMetrics) ObserveTotals(context string, took time.Duration) {
	if p == nil || p.computations == nil {
		return
	}
	label := normalizeLabel(context)
	p.computations.WithLabelValues(label).Inc()
	p.duration.WithLabelValues(label).Observe(took.Seconds())
}

// IncCouponRejection counts a coupon that failed evaluation.
func (p *PricingMetrics) IncCouponRejection(reason string) {
	if p == nil || p.rejections == nil {
		return
	}
	p.rejections.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncRedemption counts a redeem or release of a coupon usage slot.
func (p *PricingMetrics) IncRedemption(action string) {
	if p == nil || p.redemptions == nil {
		return
	}
	p.redemptions.WithLabelValues(normalizeLabel(action)).Inc()
}
