package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	l, err := New(Options{Level: "warn", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.Same(t, l, zap.L(), "New应替换全局logger")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "verbose"})
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	l := zap.NewNop()

	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))

	// 没有注入时回退到全局logger
	assert.Same(t, zap.L(), FromContext(context.Background()))
}
