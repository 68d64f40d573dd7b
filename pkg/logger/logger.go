package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config 日志配置
type Config struct {
	Level     string // debug | info | warn | error
	Format    string // console | json
	Output    string // stdout | stderr | 文件路径
	AddSource bool
}

// New 创建结构化日志
// 返回的close用于关闭日志文件（stdout/stderr时为空操作）
func New(cfg Config) (*slog.Logger, func() error, error) {
	// 1. 输出目标
	w, closeFn, err := openOutput(cfg.Output)
	if err != nil {
		return nil, nil, err
	}

	// 2. 日志级别
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}

	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.AddSource}

	// 3. 输出格式
	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		h = slog.NewJSONHandler(w, opts)
	case "console", "text":
		h = slog.NewTextHandler(w, opts)
	default:
		_ = closeFn()
		return nil, nil, fmt.Errorf("不支持的日志格式: %s", cfg.Format)
	}

	return slog.New(h), closeFn, nil
}

// ParseLevel 解析日志级别，空字符串为info
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("不支持的日志级别: %s", s)
	}
}

func openOutput(output string) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch output {
	case "", "stdout":
		return os.Stdout, noop, nil
	case "stderr":
		return os.Stderr, noop, nil
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("打开日志文件失败: %w", err)
	}
	return f, f.Close, nil
}
