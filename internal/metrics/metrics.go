package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Dispatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "multigame_dispatch_sent_total",
		Help: "Total messages handed to the broker, by family and event.",
	}, []string{"family", "event"})
	DispatchFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "multigame_dispatch_fail_total",
		Help: "Total dispatches abandoned, by stage (resolve|publish).",
	}, []string{"stage"})
	DispatchLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "multigame_dispatch_seconds",
		Help:    "Time spent connecting, publishing and closing per dispatch.",
		Buckets: prometheus.DefBuckets,
	})

	BreakerOpen = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "multigame_breaker_open_total",
		Help: "Total times the broker circuit breaker opened.",
	})
	BreakerDrop = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "multigame_breaker_drop_total",
		Help: "Total messages dropped while the breaker was open.",
	})

	SequenceEvicted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "multigame_sequence_evicted_total",
		Help: "Total per-game counters dropped after DESTROY.",
	})

	Consumed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "multigame_worker_consumed_total",
		Help: "Total occurrences popped from the queue.",
	})
	DecodeFail = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "multigame_worker_decode_fail_total",
		Help: "Total occurrences dropped as undecodable.",
	})
)

func Register() {
	prometheus.MustRegister(
		Dispatched, DispatchFailed, DispatchLatency,
		BreakerOpen, BreakerDrop,
		SequenceEvicted,
		Consumed, DecodeFail,
	)
}
