package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/OpenLiberty/open-liberty-sub391/pkg/cache"
	fragio "github.com/OpenLiberty/open-liberty-sub391/pkg/io"
	"github.com/OpenLiberty/open-liberty-sub391/pkg/observability"
	"github.com/OpenLiberty/open-liberty-sub391/pkg/render/nodelink"
)

// RenderGraph renders the constraint graph of res in the given format and
// reports whether the artifact came from the cache.
//
// Results without a graph (original and absolute ordering, or relative
// ordering without any hints) render as an empty diagram.
func (r *Runner) RenderGraph(ctx context.Context, res *Result, format string, detailed bool) ([]byte, bool, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, false, err
	}

	key := r.Keyer.ArtifactKey(res.ResultHash, cache.ArtifactKeyOpts{Format: format, Detailed: detailed})
	if res.ResultHash != "" {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	hooks := observability.Ordering()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	data, err := Render(ctx, res, format, detailed)
	hooks.OnRenderComplete(ctx, format, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if res.ResultHash != "" {
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	r.Logger.Debug("rendered graph", "format", format, "bytes", len(data), "duration", time.Since(start))
	return data, false, nil
}

// Render renders the constraint graph of res without caching.
func Render(ctx context.Context, res *Result, format string, detailed bool) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(nodelink.ToDOT(res.Graph, nodelink.Options{Detailed: detailed})), nil
	case FormatSVG:
		svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(res.Graph, nodelink.Options{Detailed: detailed}))
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		return svg, nil
	case FormatJSON:
		var buf bytes.Buffer
		if err := fragio.WriteJSON(res.Graph, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, ValidateFormat(format)
}
