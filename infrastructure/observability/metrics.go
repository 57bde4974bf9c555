// Package observability emits operation counts to CloudWatch.
package observability

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics publishes count metrics under a fixed namespace
type Metrics struct {
	client    *cloudwatch.Client
	namespace string
}

// NewMetrics creates a CloudWatch-backed metrics emitter
func NewMetrics(client *cloudwatch.Client, namespace string) *Metrics {
	return &Metrics{
		client:    client,
		namespace: namespace,
	}
}

// Count increments a named counter. Failures are silently dropped; metric
// emission must never affect request handling.
func (m *Metrics) Count(ctx context.Context, name string) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(name),
				Value:      aws.Float64(1),
				Unit:       types.StandardUnitCount,
			},
		},
	}

	_, _ = m.client.PutMetricData(ctx, input)
}

// NoopMetrics discards all counts. Used when metrics are disabled.
type NoopMetrics struct{}

// NewNoopMetrics creates a metrics sink that drops everything
func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

// Count implements ports.Metrics
func (NoopMetrics) Count(ctx context.Context, name string) {}
