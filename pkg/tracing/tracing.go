// Package tracing 基于OpenTelemetry的链路追踪
//
// 1. InitTracer创建OTLP gRPC Exporter并设置全局TracerProvider
// 2. 业务代码通过StartSpan创建Span，必须使用返回的ctx调用下游
// 3. Span名称用操作名（Checkout、LockCart），动态值放到属性里
//
// 示例：
//
//	shutdown, err := tracing.InitTracer(ctx, tracing.Options{
//	    ServiceName: "easyshop-api",
//	    Endpoint:    "localhost:4317",
//	    SampleRatio: 0.1,
//	})
//	if err != nil {
//	    return err
//	}
//	defer shutdown(context.Background())
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// Options 追踪配置
type Options struct {
	ServiceName string
	Endpoint    string  // OTLP gRPC地址，如 localhost:4317
	SampleRatio float64 // 采样率，>=1表示全部采样
	Insecure    bool    // 禁用TLS（本地Jaeger/Collector）
}

// ShutdownFunc 刷新并关闭TracerProvider
type ShutdownFunc func(context.Context) error

// InitTracer 初始化全局TracerProvider
// 连接Collector是异步的，Collector不可用时Span会在批量发送时丢弃，不影响业务
func InitTracer(ctx context.Context, opts Options) (ShutdownFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exporterOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(opts.Endpoint)}
	if opts.Insecure {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	return Install(NewProvider(opts.ServiceName, opts.SampleRatio, exporter)), nil
}

// NewProvider 用给定的Exporter创建TracerProvider
// 采样：父Span决定优先，根Span按SampleRatio采样
func NewProvider(serviceName string, sampleRatio float64, exporter sdktrace.SpanExporter) *sdktrace.TracerProvider {
	sampler := sdktrace.AlwaysSample()
	if sampleRatio < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio))
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	)

	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
}

// Install 设置全局TracerProvider和W3C传播器，返回关闭函数
func Install(tp *sdktrace.TracerProvider) ShutdownFunc {
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}
}

// StartSpan 创建Span，ctx中有父Span时自动成为子Span
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName)
}

// EndSpan 记录错误（如果有）并结束Span
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// ExtractTraceID 从Context提取TraceID（用于关联日志），没有有效Span时返回空串
func ExtractTraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// ExtractSpanID 从Context提取SpanID
func ExtractSpanID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}
