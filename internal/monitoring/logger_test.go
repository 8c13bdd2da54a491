package monitoring

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheLoggerHandlesShortKeys(t *testing.T) {
	logger := NewLogger()

	// Keys shorter than the truncation width must not slice out of range
	assert.NotPanics(t, func() {
		logger.CacheLogger("get", "abc", false, 0)
		logger.CacheLogger("get", "", false, 0)
		logger.CacheLogger("get", strings.Repeat("f", 32), true, 3)
	})
}

func TestLoggerHelpersDoNotPanic(t *testing.T) {
	logger := NewLogger()

	assert.NotPanics(t, func() {
		logger.RequestLogger("POST", "/evaluate", "127.0.0.1", "test-agent", 200, 5*time.Millisecond)
		logger.EvaluationLogger("id-1", "LOW", 6.6, true, false, time.Millisecond)
		logger.StartupLogger("data/model.json", 1, "data/diabetes.csv", 20)
		logger.PerformanceLogger("slow_request", 5100, "ms")
	})
}
