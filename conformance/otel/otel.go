// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package confotel provides OpenTelemetry instrumentation for conformance
// runs. It implements the [conformance.RunHook] interface to add a span per
// case and case count and duration metrics.
//
// Usage:
//
//	runner := conformance.NewRunner()
//	confotel.InstrumentRunner(runner, confotel.DefaultConfig())
//	rep := runner.Run(ctx, conformance.AllSuites(factory)...)
package confotel

import (
	"context"
	"fmt"
	"time"

	"github.com/Query-farm/httpfactory/conformance"
	"github.com/Query-farm/httpfactory/conformance/report"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "httpfactory/conformance"

// OtelConfig configures OpenTelemetry instrumentation for a conformance run.
type OtelConfig struct {
	// TracerProvider supplies the tracer. Defaults to otel.GetTracerProvider().
	TracerProvider trace.TracerProvider
	// MeterProvider supplies the meter. Defaults to otel.GetMeterProvider().
	MeterProvider metric.MeterProvider
	// EnableTracing enables span creation. Default true.
	EnableTracing bool
	// EnableMetrics enables counter and histogram recording. Default true.
	EnableMetrics bool
	// RecordFailures adds an event per failure message to the case span.
	// Default true.
	RecordFailures bool
	// CustomAttributes are added to every span.
	CustomAttributes []attribute.KeyValue
}

// DefaultConfig returns an OtelConfig with sensible defaults.
// TracerProvider and MeterProvider are resolved from the global OTel SDK at
// instrumentation time.
func DefaultConfig() OtelConfig {
	return OtelConfig{
		EnableTracing:  true,
		EnableMetrics:  true,
		RecordFailures: true,
	}
}

// InstrumentRunner attaches OpenTelemetry instrumentation to a runner.
// The hook is installed via [conformance.Runner.SetRunHook].
func InstrumentRunner(runner *conformance.Runner, cfg OtelConfig) {
	runner.SetRunHook(NewHook(cfg))
}

// NewHook returns the RunHook used by InstrumentRunner.
func NewHook(cfg OtelConfig) conformance.RunHook {
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	if cfg.MeterProvider == nil {
		cfg.MeterProvider = otel.GetMeterProvider()
	}

	hook := &otelHook{
		cfg:    cfg,
		tracer: cfg.TracerProvider.Tracer(instrumentationName),
	}

	if cfg.EnableMetrics {
		meter := cfg.MeterProvider.Meter(instrumentationName)
		hook.caseCounter, _ = meter.Int64Counter("httpfactory.conformance.cases",
			metric.WithUnit("{case}"),
			metric.WithDescription("Number of conformance cases run"),
		)
		hook.durationHistogram, _ = meter.Float64Histogram("httpfactory.conformance.duration",
			metric.WithUnit("s"),
			metric.WithDescription("Duration of conformance cases"),
		)
	}
	return hook
}

// otelHook implements conformance.RunHook with OpenTelemetry tracing and metrics.
type otelHook struct {
	cfg               OtelConfig
	tracer            trace.Tracer
	caseCounter       metric.Int64Counter
	durationHistogram metric.Float64Histogram
}

// spanToken is the HookToken returned by OnCaseStart.
type spanToken struct {
	span      trace.Span
	startTime time.Time
}

// OnCaseStart starts a span for the case.
func (h *otelHook) OnCaseStart(ctx context.Context, info conformance.CaseInfo) (context.Context, conformance.HookToken) {
	if !h.cfg.EnableTracing {
		return ctx, &spanToken{startTime: time.Now()}
	}

	attrs := []attribute.KeyValue{
		attribute.String("httpfactory.implementation", info.Implementation),
		attribute.String("httpfactory.suite", info.Suite),
		attribute.String("httpfactory.case", info.Case),
	}
	attrs = append(attrs, h.cfg.CustomAttributes...)

	ctx, span := h.tracer.Start(ctx, fmt.Sprintf("conformance/%s", info.FullName()),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return ctx, &spanToken{span: span, startTime: time.Now()}
}

// OnCaseEnd records metrics and ends the span.
func (h *otelHook) OnCaseEnd(ctx context.Context, token conformance.HookToken, info conformance.CaseInfo, result *report.CaseResult) {
	st, ok := token.(*spanToken)
	if !ok {
		return
	}

	duration := time.Since(st.startTime)
	status := report.StatusPass
	if result != nil {
		status = result.Status
	}

	if h.cfg.EnableMetrics {
		metricAttrs := metric.WithAttributes(
			attribute.String("httpfactory.implementation", info.Implementation),
			attribute.String("httpfactory.suite", info.Suite),
			attribute.String("status", string(status)),
		)
		if h.caseCounter != nil {
			h.caseCounter.Add(ctx, 1, metricAttrs)
		}
		if h.durationHistogram != nil {
			h.durationHistogram.Record(ctx, duration.Seconds(), metricAttrs)
		}
	}

	if st.span == nil || !st.span.IsRecording() {
		return
	}
	if result != nil {
		st.span.SetAttributes(attribute.Int("httpfactory.failures", result.Failures()))
		if h.cfg.RecordFailures {
			for _, m := range result.Messages {
				if m.Level == report.LevelError {
					st.span.AddEvent("failure", trace.WithAttributes(attribute.String("message", m.Text)))
				}
			}
		}
	}
	if status == report.StatusFail {
		st.span.SetStatus(codes.Error, fmt.Sprintf("%s failed", info.FullName()))
	} else {
		st.span.SetStatus(codes.Ok, "")
	}
	st.span.End()
}
