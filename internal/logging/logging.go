package logging

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
)

// Level là mức log tối thiểu sẽ được ghi.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var minLevel atomic.Int32

func init() {
	minLevel.Store(int32(LevelInfo))
}

// ParseLevel đọc LOG_LEVEL (debug/info/warn/error). Giá trị lạ rơi về info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// SetLevel đặt mức log tối thiểu cho toàn process.
func SetLevel(l Level) {
	minLevel.Store(int32(l))
}

func enabled(l Level) bool {
	return int32(l) >= minLevel.Load()
}

func Debugf(format string, args ...any) {
	if enabled(LevelDebug) {
		log.Printf("[DEBUG] "+format, args...)
	}
}

func Infof(format string, args ...any) {
	if enabled(LevelInfo) {
		log.Printf("[INFO] "+format, args...)
	}
}

func Warnf(format string, args ...any) {
	if enabled(LevelWarn) {
		log.Printf("[WARN] "+format, args...)
	}
}

func Errorf(format string, args ...any) {
	if enabled(LevelError) {
		log.Printf("[ERROR] "+format, args...)
	}
}

// Tagged trả về một logger con thêm prefix subsystem, ví dụ [SWEEPER].
type Tagged struct {
	tag string
}

func WithTag(tag string) *Tagged {
	return &Tagged{tag: fmt.Sprintf("[%s] ", strings.ToUpper(tag))}
}

func (t *Tagged) Debugf(format string, args ...any) { Debugf(t.tag+format, args...) }
func (t *Tagged) Infof(format string, args ...any)  { Infof(t.tag+format, args...) }
func (t *Tagged) Warnf(format string, args ...any)  { Warnf(t.tag+format, args...) }
func (t *Tagged) Errorf(format string, args ...any) { Errorf(t.tag+format, args...) }
