package rectpack

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler 丢弃所有日志记录。Enabled 返回 false，调用方不会格式化消息。
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger 设置 rectpack 使用的日志记录器，默认不输出任何日志。
// 传入 nil 恢复为静默。可以并发调用。
//
// 使用的日志级别：
//   - [slog.LevelDebug]: 每次打包尝试的结果
//   - [slog.LevelWarn]: 自动扩展到最大尺寸仍然失败
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger 返回当前的日志记录器。
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
