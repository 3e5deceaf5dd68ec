package dag

import (
	"context"
	"time"

	"github.com/kbukum/vpgbench/logger"
	"github.com/kbukum/vpgbench/observability"
)

// WithTracing wraps a Node with OpenTelemetry span creation.
// Each execution creates a span named spanName carrying the node name and
// any extra string attributes.
func WithTracing(node Node, spanName string, attrs map[string]string) Node {
	return &tracingNode{inner: node, spanName: spanName, attrs: attrs}
}

type tracingNode struct {
	inner    Node
	spanName string
	attrs    map[string]string
}

func (n *tracingNode) Name() string { return n.inner.Name() }

func (n *tracingNode) Run(ctx context.Context, state *State) (any, error) {
	ctx, span := observability.StartSpan(ctx, n.spanName)
	defer span.End()

	observability.SetSpanAttribute(ctx, observability.AttrStage, n.inner.Name())
	for k, v := range n.attrs {
		observability.SetSpanAttribute(ctx, k, v)
	}

	result, err := n.inner.Run(ctx, state)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}

	return result, err
}

// WithMetrics wraps a Node with stage metric recording under caseName.
func WithMetrics(node Node, metrics *observability.Metrics, caseName string) Node {
	return &metricsNode{inner: node, metrics: metrics, caseName: caseName}
}

type metricsNode struct {
	inner    Node
	metrics  *observability.Metrics
	caseName string
}

func (n *metricsNode) Name() string { return n.inner.Name() }

func (n *metricsNode) Run(ctx context.Context, state *State) (any, error) {
	start := time.Now()
	result, err := n.inner.Run(ctx, state)
	duration := time.Since(start)

	status := StatusCompleted
	if err != nil {
		status = StatusFailed
	}
	n.metrics.RecordStage(ctx, n.caseName, n.inner.Name(), status, duration)

	return result, err
}

// WithLogging wraps a Node with execution logging.
func WithLogging(node Node, log *logger.Logger) Node {
	return &loggingNode{inner: node, log: log}
}

type loggingNode struct {
	inner Node
	log   *logger.Logger
}

func (n *loggingNode) Name() string { return n.inner.Name() }

func (n *loggingNode) Run(ctx context.Context, state *State) (any, error) {
	start := time.Now()
	result, err := n.inner.Run(ctx, state)
	duration := time.Since(start)

	fields := logger.DurationFields("stage", duration)
	fields[logger.FieldStage] = n.inner.Name()

	if err != nil {
		n.log.Error("stage failed", logger.MergeWithError(fields, err))
	} else {
		n.log.Info("stage completed", fields)
	}

	return result, err
}
