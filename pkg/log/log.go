// Package log 提供包级全局 logger。
// 库默认静默（zap.NewNop）；宿主应用可通过 SetLogger 注入自己的 logger。
package log

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// Logger 返回当前全局 logger。
func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger 替换全局 logger；传 nil 恢复为静默。
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}
