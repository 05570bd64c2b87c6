package readahead_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/synctest"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/teenjuna/readahead"
	"github.com/teenjuna/readahead/internal/testing/require"
)

func TestPrometheus(t *testing.T) {
	errBoom := errors.New("boom")

	run(t, func(t *testing.T) {
		registry := prometheus.NewRegistry()

		var calls int
		source := readahead.SourceFunc[int](func(ctx context.Context) (int, bool, error) {
			calls += 1
			if calls > 5 {
				return 0, false, errBoom
			}
			return calls, true, nil
		})
		buffer := newBuffer(t, source, 3, func(c *readahead.Config) {
			c.Prometheus(readahead.Prometheus(registry))
		})

		var delivered int
		for _, err := range buffer.All(t.Context()) {
			if err != nil {
				break
			}
			delivered += 1
		}
		require.Equal(t, delivered, 5)

		expected := `
			# HELP readahead_buffered Number of entries read ahead of the consumer
			# TYPE readahead_buffered gauge
			readahead_buffered 0
			# HELP readahead_items_delivered Number of items returned to the consumer
			# TYPE readahead_items_delivered counter
			readahead_items_delivered 5
			# HELP readahead_items_fetched Number of items pulled from the source
			# TYPE readahead_items_fetched counter
			readahead_items_fetched 5
			# HELP readahead_source_errors Number of failed pulls from the source
			# TYPE readahead_source_errors counter
			readahead_source_errors 1
		`
		require.Nil(t, testutil.GatherAndCompare(
			registry,
			strings.NewReader(expected),
			"readahead_buffered",
			"readahead_items_delivered",
			"readahead_items_fetched",
			"readahead_source_errors",
		))

		// Every pull is timed, including the failed one.
		families, err := registry.Gather()
		require.Nil(t, err)
		var found bool
		for _, family := range families {
			if family.GetName() != "readahead_fetch_duration_seconds" {
				continue
			}
			found = true
			require.Equal(t, family.GetMetric()[0].GetHistogram().GetSampleCount(), uint64(6))
		}
		require.True(t, found, "fetch duration is not registered")
	})

	run(t, func(t *testing.T) {
		registry := prometheus.NewRegistry()
		config := readahead.Prometheus(registry, func(c *readahead.PrometheusConfig) {
			c.Buffered.Subsystem = "rows"
			c.Buffered.ConstLabels = prometheus.Labels{"table": "item"}
		})

		buffer := newBuffer(t, produce(6, 0, nil), 4, func(c *readahead.Config) {
			c.Prometheus(config)
		})

		_, ok, err := buffer.Next(t.Context())
		require.Nil(t, err)
		require.Equal(t, ok, true)

		expected := `
			# HELP readahead_rows_buffered Number of entries read ahead of the consumer
			# TYPE readahead_rows_buffered gauge
			readahead_rows_buffered{table="item"} 4
		`
		// Wait for the buffer to fill up.
		synctest.Wait()
		require.Nil(t, testutil.GatherAndCompare(
			registry,
			strings.NewReader(expected),
			"readahead_rows_buffered",
		))

		consume(t, buffer, 0, nil)
	})

	run(t, func(t *testing.T) {
		// Namespace and subsystem apply to every metric that doesn't set its own.
		registry := prometheus.NewRegistry()
		config := readahead.Prometheus(registry, func(c *readahead.PrometheusConfig) {
			c.Namespace = "app"
			c.Subsystem = "events"
			c.SourceErrors.Subsystem = "upstream"
		})

		buffer := newBuffer(t, produce(3, 0, nil), 2, func(c *readahead.Config) {
			c.Prometheus(config)
		})
		require.Equal(t, consume(t, buffer, 0, nil), []int{0, 1, 2})

		expected := `
			# HELP app_events_items_delivered Number of items returned to the consumer
			# TYPE app_events_items_delivered counter
			app_events_items_delivered 3
			# HELP app_upstream_source_errors Number of failed pulls from the source
			# TYPE app_upstream_source_errors counter
			app_upstream_source_errors 0
		`
		require.Nil(t, testutil.GatherAndCompare(
			registry,
			strings.NewReader(expected),
			"app_events_items_delivered",
			"app_upstream_source_errors",
		))
	})
}
