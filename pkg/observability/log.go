package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// [PipelineHooks], [CacheHooks] and [HTTPHooks], so one value can be
// registered for all three.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger, prefixed "hook".
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("hook")}
}

func (h *LogHooks) OnParseComplete(_ context.Context, source string, rank int, d time.Duration, err error) {
	h.logger.Debug("parse", "source", source, "rank", rank, "duration", d, "err", err)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, mode string, predicted int) {
	h.logger.Debug("layout start", "mode", mode, "predicted", predicted)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, mode string, boxes int, d time.Duration, err error) {
	h.logger.Debug("layout complete", "mode", mode, "boxes", boxes, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
