package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-console/internal/usecase"
)

// LogNotifier writes notifications to the logger.
type LogNotifier struct {
	Logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{Logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, msg usecase.Notification) {
	fields := []zap.Field{
		zap.String("title", msg.Title),
		zap.String("description", msg.Description),
	}
	if msg.Variant == usecase.VariantDestructive {
		n.Logger.Warn("Notification", fields...)
		return
	}
	n.Logger.Info("Notification", fields...)
}

// Multi delivers each notification to every notifier in order.
type Multi []usecase.Notifier

func (m Multi) Notify(ctx context.Context, msg usecase.Notification) {
	for _, n := range m {
		n.Notify(ctx, msg)
	}
}

// Recorder keeps notifications in memory. The api binary exposes the most recent
// ones; tests use it to assert on outcomes.
type Recorder struct {
	ch chan usecase.Notification
}

func NewRecorder(limit int) *Recorder {
	return &Recorder{ch: make(chan usecase.Notification, max(1, limit))}
}

// Notify drops the oldest entry once the buffer is full.
func (r *Recorder) Notify(_ context.Context, msg usecase.Notification) {
	for {
		select {
		case r.ch <- msg:
			return
		default:
			select {
			case <-r.ch:
			default:
			}
		}
	}
}

// Drain returns and removes every buffered notification.
func (r *Recorder) Drain() []usecase.Notification {
	var out []usecase.Notification
	for {
		select {
		case n := <-r.ch:
			out = append(out, n)
		default:
			return out
		}
	}
}
