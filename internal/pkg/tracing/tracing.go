// Package tracing builds the OpenTelemetry tracer provider of the host. Ended
// spans are batched and written to the zap logger at debug level, so traces
// follow the same output as the rest of the host's logs.
package tracing

import (
	"context"
	"fmt"

	"bookstore/internal/pkg/errs"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const ServiceName = "bookstore"

// NewTracerProvider returns a provider sampling sampleRatio of the root traces
// and exporting them through logger. The caller shuts it down on exit.
func NewTracerProvider(environment string, sampleRatio float64, logger *zap.Logger) (*sdktrace.TracerProvider, error) {
	if sampleRatio < 0 || sampleRatio > 1 {
		return nil, errs.NewValueIsOutOfRangeError("sampleRatio", sampleRatio, 0, 1)
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", ServiceName),
		attribute.String("deployment.environment", environment),
	))
	if err != nil {
		return nil, fmt.Errorf("build trace resource: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio))),
		sdktrace.WithBatcher(NewZapExporter(logger)),
	), nil
}

// ZapExporter writes ended spans to a zap logger.
type ZapExporter struct {
	logger *zap.Logger
}

var _ sdktrace.SpanExporter = (*ZapExporter)(nil)

func NewZapExporter(logger *zap.Logger) *ZapExporter {
	return &ZapExporter{logger: logger.With(zap.String("component", "tracing"))}
}

func (e *ZapExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		if err := ctx.Err(); err != nil {
			return err
		}
		ce := e.logger.Check(zapcore.DebugLevel, "span ended")
		if ce == nil {
			return nil
		}
		ce.Write(spanFields(span)...)
	}
	return nil
}

func (e *ZapExporter) Shutdown(context.Context) error {
	return nil
}

func spanFields(span sdktrace.ReadOnlySpan) []zap.Field {
	fields := []zap.Field{
		zap.String("name", span.Name()),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("span_id", span.SpanContext().SpanID().String()),
		zap.Duration("duration", span.EndTime().Sub(span.StartTime())),
		zap.String("status", span.Status().Code.String()),
	}
	if span.Parent().IsValid() {
		fields = append(fields, zap.String("parent_span_id", span.Parent().SpanID().String()))
	}
	if desc := span.Status().Description; desc != "" {
		fields = append(fields, zap.String("status_description", desc))
	}
	for _, kv := range span.Attributes() {
		fields = append(fields, zap.String(string(kv.Key), kv.Value.Emit()))
	}
	return fields
}
