package server

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"this is a longer string", 10, "this is..."},
		{"ab", 1, "a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.maxLen))
	}
}

func TestLoggingMiddlewareLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	mw := LoggingMiddleware(logger)

	t.Run("success logs debug", func(t *testing.T) {
		buf.Reset()
		handler := mw(func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			return nil, nil
		})
		_, err := handler(context.Background(), "tools/call", nil)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "request completed")
		assert.Contains(t, buf.String(), "tools/call")
	})

	t.Run("error logs error", func(t *testing.T) {
		buf.Reset()
		handler := mw(func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			return nil, fmt.Errorf("boom")
		})
		_, err := handler(context.Background(), "tools/call", nil)
		require.Error(t, err)
		assert.Contains(t, buf.String(), "request failed")
		assert.Contains(t, buf.String(), "boom")
	})

	t.Run("slow request logs warn", func(t *testing.T) {
		buf.Reset()
		handler := mw(func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			time.Sleep(slowRequestThreshold + 20*time.Millisecond)
			return nil, nil
		})
		_, err := handler(context.Background(), "tools/call", nil)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "slow request")
		assert.True(t, strings.Contains(buf.String(), "level=WARN"))
	})
}
