package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline and cache events to a logger at debug level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger, or to log.Default() when nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnBuildStart(_ context.Context, nodes, edges int) {
	h.logger.Debug("build started", "nodes", nodes, "edges", edges)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("build failed", "err", err, "duration", d)
		return
	}
	h.logger.Debug("build finished", "nodes", nodes, "edges", edges, "duration", d)
}

func (h *LogHooks) OnEnumerateStart(_ context.Context, k int) {
	h.logger.Debug("enumeration started", "k", k)
}

func (h *LogHooks) OnEnumerateComplete(_ context.Context, paths int, status string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("enumeration failed", "err", err, "duration", d)
		return
	}
	h.logger.Debug("enumeration finished", "paths", paths, "status", status, "duration", d)
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

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
