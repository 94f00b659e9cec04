package aws

import (
	"context"
	"log/slog"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const metricsTimeout = 2 * time.Second

// Metrics publishes outcome counters to CloudWatch. Publishing errors are
// logged and never surface to the request that produced them.
type Metrics struct {
	cw        CloudWatchAPI
	namespace string
	log       *slog.Logger
	nowFunc   func() time.Time
}

// NewMetrics returns a Metrics publisher for the given namespace.
func NewMetrics(cw CloudWatchAPI, namespace string, log *slog.Logger) *Metrics {
	return &Metrics{cw: cw, namespace: namespace, log: log, nowFunc: time.Now}
}

// Incr adds one to the named counter.
func (m *Metrics) Incr(ctx context.Context, name string) {
	m.put(ctx, name, 1, cwtypes.StandardUnitCount)
}

// Observe records a single unitless value, e.g. a sale value.
func (m *Metrics) Observe(ctx context.Context, name string, value float64) {
	m.put(ctx, name, value, cwtypes.StandardUnitNone)
}

func (m *Metrics) put(ctx context.Context, name string, value float64, unit cwtypes.StandardUnit) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsTimeout)
	defer cancel()

	_, err := m.cw.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: sdkaws.String(m.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: sdkaws.String(name),
				Timestamp:  sdkaws.Time(m.nowFunc()),
				Unit:       unit,
				Value:      sdkaws.Float64(value),
			},
		},
	})
	if err != nil {
		m.log.Warn("metric_publish_failed", slog.String("metric", name), slog.Any("err", err))
	}
}

// NopMetrics discards everything. Used when METRICS_NAMESPACE is unset.
type NopMetrics struct{}

func (NopMetrics) Incr(context.Context, string)             {}
func (NopMetrics) Observe(context.Context, string, float64) {}
