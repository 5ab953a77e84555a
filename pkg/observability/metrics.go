package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics publishes operational counters to CloudWatch. A nil Metrics or a
// nil client is a no-op, so callers never guard their instrumentation.
type Metrics struct {
	namespace string
	client    *cloudwatch.Client
}

// NewMetrics creates a metrics publisher for the given namespace
func NewMetrics(namespace string, client *cloudwatch.Client) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
	}
}

// CountOperation records one occurrence of the named operation.
// Publication is best-effort; failures are ignored.
func (m *Metrics) CountOperation(ctx context.Context, operation string) {
	m.put(ctx, types.MetricDatum{
		MetricName: aws.String(operation),
		Value:      aws.Float64(1),
		Unit:       types.StandardUnitCount,
		Timestamp:  aws.Time(time.Now()),
	})
}

// RecordLatency records how long the named operation took
func (m *Metrics) RecordLatency(ctx context.Context, operation string, d time.Duration) {
	m.put(ctx, types.MetricDatum{
		MetricName: aws.String(operation + ".latency"),
		Value:      aws.Float64(float64(d.Milliseconds())),
		Unit:       types.StandardUnitMilliseconds,
		Timestamp:  aws.Time(time.Now()),
	})
}

func (m *Metrics) put(ctx context.Context, datum types.MetricDatum) {
	if m == nil || m.client == nil {
		return
	}

	_, _ = m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: []types.MetricDatum{datum},
	})
}
