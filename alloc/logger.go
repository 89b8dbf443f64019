package alloc

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the alloc package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the alloc package's logger.
// This must be called before any tracker operations.
func SetLogger(l *zap.Logger) {
	logger = l
}

// debugf is a no-op debug helper. Enable by setting debug = true.
var debug = false

func debugf(format string, args ...any) {
	if debug {
		Logger().Sugar().Debugf(format, args...)
	}
}

// LogObserver logs every lifecycle event through a zap logger.
type LogObserver struct {
	log *zap.Logger
}

// NewLogObserver creates an observer logging to l. A nil l falls back to the
// package logger.
func NewLogObserver(l *zap.Logger) *LogObserver {
	if l == nil {
		l = Logger()
	}
	return &LogObserver{log: l}
}

var _ Observer = (*LogObserver)(nil)

// OnResourceEvent logs the event at info level.
func (o *LogObserver) OnResourceEvent(e Event) {
	o.log.Info("resource "+e.Type.String(),
		zap.Uint64("seq", e.Seq),
		zap.Int("value", e.Value))
}
