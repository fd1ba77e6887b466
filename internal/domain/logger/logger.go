package logger

import (
	"log/slog"
	"time"
)

// StoreOp times one write against the reminder store and reports it when
// Done is called.
type StoreOp struct {
	Operation string
	Attrs     []any
	StartTime time.Time
}

func NewStoreOp(operation string, attrs ...any) *StoreOp {
	return &StoreOp{
		Operation: operation,
		Attrs:     attrs,
		StartTime: time.Now(),
	}
}

// Done logs failures at error level. Successful writes are debug noise
// unless they changed something.
func (op *StoreOp) Done(err error, rowsAffected int64) {
	attrs := append([]any{
		slog.String("type", "db"),
		slog.String("operation", op.Operation),
		slog.Duration("took", time.Since(op.StartTime)),
	}, op.Attrs...)

	switch {
	case err != nil:
		slog.Error("Store operation failed", append(attrs, slog.Any("error", err))...)
	case rowsAffected == 0:
		slog.Debug("Store operation changed nothing", attrs...)
	default:
		slog.Debug("Store operation executed", append(attrs, slog.Int64("affected_rows", rowsAffected))...)
	}
}
