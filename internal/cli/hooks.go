package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logPipelineHooks reports pipeline stages at debug level.
type logPipelineHooks struct{ logger *log.Logger }

func (h logPipelineHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("load started", "source", source)
}

func (h logPipelineHooks) OnLoadComplete(_ context.Context, source string, nodes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("load finished", "source", source, "nodes", nodes, "duration", d.Round(time.Millisecond))
}

func (h logPipelineHooks) OnLayoutStart(_ context.Context, nodes int) {
	h.logger.Debug("layout started", "nodes", nodes)
}

func (h logPipelineHooks) OnLayoutComplete(_ context.Context, d time.Duration, err error) {
	h.logger.Debug("layout finished", "duration", d.Round(time.Millisecond), "err", err)
}

func (h logPipelineHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h logPipelineHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render finished", "formats", formats, "duration", d.Round(time.Millisecond), "err", err)
}

// logCacheHooks reports cache traffic at debug level.
type logCacheHooks struct{ logger *log.Logger }

func (h logCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

// logInteractionHooks reports session traffic for "cactus serve".
type logInteractionHooks struct{ logger *log.Logger }

func (h logInteractionHooks) OnSessionEvent(_ context.Context, id, kind string) {
	h.logger.Debug("session event", "session", id, "type", kind)
}

func (h logInteractionHooks) OnFrame(_ context.Context, id string, nodes, edges int, d time.Duration) {
	h.logger.Debug("frame", "session", id, "nodes", nodes, "edges", edges, "duration", d.Round(time.Millisecond))
}
