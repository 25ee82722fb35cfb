package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level log
// lines. Failures are logged as warnings.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to logger, or to the default logger
// when it is nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetLayoutHooks(h)
	SetCacheHooks(h)
	SetSessionHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, words int) {
	h.Logger.Debug("layout start", "words", words)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, lines int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("layout failed", "duration", d, "err", err)
		return
	}
	h.Logger.Debug("layout complete", "lines", lines, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnSessionCreated(_ context.Context, id string, words int) {
	h.Logger.Info("session created", "id", id, "words", words)
}

func (h *LogHooks) OnSessionDeleted(_ context.Context, id string) {
	h.Logger.Info("session deleted", "id", id)
}

func (h *LogHooks) OnDrop(_ context.Context, id string, index int, destination string, position int) {
	h.Logger.Debug("drop", "session", id, "index", index, "to", destination, "position", position)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	lvl := log.DebugLevel
	if status >= 500 {
		lvl = log.WarnLevel
	}
	h.Logger.Log(lvl, "request", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ LayoutHooks  = (*LogHooks)(nil)
	_ CacheHooks   = (*LogHooks)(nil)
	_ SessionHooks = (*LogHooks)(nil)
	_ HTTPHooks    = (*LogHooks)(nil)
)
