package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/easyshop/pkg/errors"
	"github.com/xiebiao/easyshop/pkg/logger"
	"github.com/xiebiao/easyshop/pkg/metrics"
	"github.com/xiebiao/easyshop/pkg/response"
	"github.com/xiebiao/easyshop/pkg/tracing"
)

// RequestIDHeader 请求ID的Header名，客户端传入时沿用
const RequestIDHeader = "X-Request-ID"

const tracerName = "easyshop/http"

// RequestLogger 请求日志、指标与链路追踪
// 每个请求生成request_id，请求级logger通过context传给下游（response.Error会用到）
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		ctx, span := tracing.StartSpan(c.Request.Context(), tracerName, c.Request.Method+" "+route)
		reqLog := log.With(
			zap.String("request_id", requestID),
			zap.String("trace_id", tracing.ExtractTraceID(ctx)),
		)
		c.Request = c.Request.WithContext(logger.WithContext(ctx, reqLog))

		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		span.End()

		metrics.ObserveHTTPRequest(c.Request.Method, route, strconv.Itoa(status), latency)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case status >= 500:
			reqLog.Error("request", fields...)
		case status >= 400:
			reqLog.Warn("request", fields...)
		default:
			reqLog.Info("request", fields...)
		}
	}
}

// Recovery panic转为500响应并记录日志
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.Writer.Header().Get(RequestIDHeader)),
		)
		response.Error(c, apperrors.ErrInternal)
		c.Abort()
	})
}
