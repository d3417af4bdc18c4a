package xfilelog

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/omeyang/xapplog/pkg/observability/xmetrics"
)

const (
	metricRecords     = "xapplog.sink.records"
	metricDropped     = "xapplog.sink.dropped"
	metricRotations   = "xapplog.sink.rotations"
	metricWriteErrors = "xapplog.sink.write_errors"
)

type sinkMetrics struct {
	records     metric.Int64Counter
	dropped     metric.Int64Counter
	rotations   metric.Int64Counter
	writeErrors metric.Int64Counter
}

func newSinkMetrics(provider metric.MeterProvider) (*sinkMetrics, error) {
	meter := provider.Meter(xmetrics.InstrumentationName)

	var errs []error
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit("1"))
		if err != nil {
			errs = append(errs, err)
			c, _ = noop.NewMeterProvider().Meter("").Int64Counter(name)
		}
		return c
	}

	m := &sinkMetrics{
		records:     counter(metricRecords, "records written to the rotation files"),
		dropped:     counter(metricDropped, "records discarded by a closed or disabled sink"),
		rotations:   counter(metricRotations, "rotation file switches"),
		writeErrors: counter(metricWriteErrors, "failed record writes"),
	}
	return m, errors.Join(errs...)
}

func inc(c metric.Int64Counter) {
	c.Add(context.Background(), 1)
}
