package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand   LogType = "CMD"
	TypeComponent LogType = "CMP"
	TypeDB        LogType = "DB"
	TypeSystem    LogType = "SYS"
	TypeError     LogType = "ERR"
)

// Options configures CustomHandler.
type Options struct {
	Level     slog.Leveler
	AddSource bool
	NoColor   bool
	Writer    io.Writer
}

type CustomHandler struct {
	opts  Options
	mu    *sync.Mutex
	attrs []slog.Attr
	group string
}

func NewHandler(opts Options) *CustomHandler {
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	return &CustomHandler{
		opts: opts,
		mu:   &sync.Mutex{},
	}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		merged = append(merged, a)
	}
	return &CustomHandler{opts: h.opts, mu: h.mu, attrs: merged, group: h.group}
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &CustomHandler{opts: h.opts, mu: h.mu, attrs: h.attrs, group: group}
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(&r) {
		return nil
	}

	levelColor, levelText := levelStyle(r.Level)
	logType := getLogType(&r)

	message := r.Message
	if r.Level >= slog.LevelError {
		if loc := getErrorLocation(&r, h.opts.AddSource); loc != "" {
			message = fmt.Sprintf("%s (%s)", message, loc)
		}
	}

	var sb strings.Builder
	for _, a := range h.attrs {
		h.writeAttr(&sb, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		h.writeAttr(&sb, a)
		return true
	})

	line := fmt.Sprintf("[Relay] [%s] [%s] [%s] %s%s",
		r.Time.Format("15:04:05"),
		levelText,
		logType,
		message,
		sb.String(),
	)
	if !h.opts.NoColor {
		line = fmt.Sprintf("%s[Relay] [%s] [%s%s%s] [%s] %s%s%s",
			colorWhite,
			r.Time.Format("15:04:05"),
			levelColor,
			levelText,
			colorWhite,
			logType,
			message,
			sb.String(),
			colorReset,
		)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.opts.Writer, line)
	return err
}

func levelStyle(level slog.Level) (string, string) {
	switch {
	case level >= slog.LevelError:
		return colorRed, "ERROR"
	case level >= slog.LevelWarn:
		return colorYellow, "WARN"
	case level >= slog.LevelInfo:
		return colorGreen, "INFO"
	default:
		return colorPurple, "DEBUG"
	}
}

func (h *CustomHandler) writeAttr(sb *strings.Builder, a slog.Attr) {
	if isInternalAttr(a.Key) || a.Equal(slog.Attr{}) {
		return
	}
	if h.opts.NoColor {
		fmt.Fprintf(sb, " %s=%v", a.Key, a.Value.Resolve())
		return
	}
	fmt.Fprintf(sb, " %s%s=%v%s", colorCyan, a.Key, a.Value.Resolve(), colorReset)
}

// Gateway and rest internals from disgo that would drown out our own lines.
var skippedMessages = []string{
	"locking buckets",
	"unlocking buckets",
	"gateway event",
	"cleaning up bucket",
	"cleaned up rate limit buckets",
	"binary message received",
	"received gateway message",
	"opening gateway connection",
	"locking gateway rate limiter",
	"unlocking gateway rate limiter",
	"sending gateway command",
	"new request",
	"new response",
	"locking rest bucket",
	"unlocking rest bucket",
	"rate limit response headers",
	"sending heartbeat",
}

func shouldSkipLog(r *slog.Record) bool {
	msg := strings.ToLower(r.Message)
	for _, skip := range skippedMessages {
		if strings.Contains(msg, skip) {
			return true
		}
	}
	return false
}

func getLogType(r *slog.Record) LogType {
	logType := TypeSystem
	if r.Level >= slog.LevelError {
		logType = TypeError
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "type" {
			switch a.Value.String() {
			case "cmd":
				logType = TypeCommand
			case "component":
				logType = TypeComponent
			case "db":
				logType = TypeDB
			case "error":
				logType = TypeError
			}
			return false
		}
		return true
	})
	return logType
}

func isInternalAttr(key string) bool {
	return key == "type" || key == "error_location"
}

func getErrorLocation(r *slog.Record, addSource bool) string {
	var location string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "error_location" {
			location = a.Value.String()
			return false
		}
		return true
	})
	if location != "" || !addSource || r.PC == 0 {
		return location
	}

	frames := runtime.CallersFrames([]uintptr{r.PC})
	frame, _ := frames.Next()
	if frame.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
}
