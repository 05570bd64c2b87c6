package readahead

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusConfig is a config of the Prometheus metrics provided by the buffer.
//
// An instance can be created only by the [Prometheus] function. The zero value is invalid.
//
// Metrics are registered when the buffer is created, so buffers sharing a registerer must
// use different namespaces, subsystems or constant labels.
type PrometheusConfig struct {
	// Namespace of the metrics whose options don't set their own.
	Namespace string
	// Subsystem of the metrics whose options don't set their own.
	Subsystem string
	// Options for the buffered entries gauge.
	Buffered prometheus.GaugeOpts
	// Options for the fetched items counter.
	ItemsFetched prometheus.CounterOpts
	// Options for the delivered items counter.
	ItemsDelivered prometheus.CounterOpts
	// Options for the source errors counter.
	SourceErrors prometheus.CounterOpts
	// Options for the fetch duration histogram.
	FetchDuration prometheus.HistogramOpts
	// Options for the wait duration histogram.
	WaitDuration prometheus.HistogramOpts

	registerer prometheus.Registerer
}

// Prometheus returns a [PrometheusConfig] with the provided registerer. If registerer is nil,
// metrics will not be registered. Many default parameters can be configured by passing
// configuration functions.
func Prometheus(
	registerer prometheus.Registerer,
	configFuncs ...func(c *PrometheusConfig),
) *PrometheusConfig {
	c := PrometheusConfig{
		registerer: registerer,
		Namespace:  "readahead",
		Buffered: prometheus.GaugeOpts{
			Name: "buffered",
			Help: "Number of entries read ahead of the consumer",
		},
		ItemsFetched: prometheus.CounterOpts{
			Name: "items_fetched",
			Help: "Number of items pulled from the source",
		},
		ItemsDelivered: prometheus.CounterOpts{
			Name: "items_delivered",
			Help: "Number of items returned to the consumer",
		},
		SourceErrors: prometheus.CounterOpts{
			Name: "source_errors",
			Help: "Number of failed pulls from the source",
		},
		FetchDuration: prometheus.HistogramOpts{
			Name:    "fetch_duration_seconds",
			Help:    "Duration of a single pull from the source",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		WaitDuration: prometheus.HistogramOpts{
			Name:    "wait_duration_seconds",
			Help:    "Time the consumer spent waiting on an empty buffer",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	}

	for _, cf := range configFuncs {
		if cf != nil {
			cf(&c)
		}
	}

	return &c
}

func (c *PrometheusConfig) metrics() *metrics {
	var (
		buffered       = c.Buffered
		itemsFetched   = c.ItemsFetched
		itemsDelivered = c.ItemsDelivered
		sourceErrors   = c.SourceErrors
		fetchDuration  = c.FetchDuration
		waitDuration   = c.WaitDuration
	)
	c.scope(&buffered.Namespace, &buffered.Subsystem)
	c.scope(&itemsFetched.Namespace, &itemsFetched.Subsystem)
	c.scope(&itemsDelivered.Namespace, &itemsDelivered.Subsystem)
	c.scope(&sourceErrors.Namespace, &sourceErrors.Subsystem)
	c.scope(&fetchDuration.Namespace, &fetchDuration.Subsystem)
	c.scope(&waitDuration.Namespace, &waitDuration.Subsystem)

	m := metrics{
		buffered:       prometheus.NewGauge(buffered),
		itemsFetched:   prometheus.NewCounter(itemsFetched),
		itemsDelivered: prometheus.NewCounter(itemsDelivered),
		sourceErrors:   prometheus.NewCounter(sourceErrors),
		fetchDuration:  prometheus.NewHistogram(fetchDuration),
		waitDuration:   prometheus.NewHistogram(waitDuration),
	}

	if c.registerer != nil {
		c.registerer.MustRegister(
			m.buffered,
			m.itemsFetched,
			m.itemsDelivered,
			m.sourceErrors,
			m.fetchDuration,
			m.waitDuration,
		)
	}

	return &m
}

func (c *PrometheusConfig) scope(namespace, subsystem *string) {
	if *namespace == "" {
		*namespace = c.Namespace
	}
	if *subsystem == "" {
		*subsystem = c.Subsystem
	}
}

type metrics struct {
	buffered       prometheus.Gauge
	itemsFetched   prometheus.Counter
	itemsDelivered prometheus.Counter
	sourceErrors   prometheus.Counter
	fetchDuration  prometheus.Histogram
	waitDuration   prometheus.Histogram
}
