// Package pipeline runs fragment ordering for the CLI and the HTTP API.
//
// This package wraps the pure ordering engine with everything around it:
// reading and decoding the manifest, caching results by manifest content,
// computing each result at most once per process, emitting observability
// hooks and logging. Both entry points share a [Runner] so that they behave
// identically.
//
// # Usage
//
// Create a Runner and order a manifest:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Order(ctx, pipeline.Options{
//	    ManifestPath: "shop.toml",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, f := range result.Ordered {
//	    fmt.Println(f.Name)
//	}
//
// Render the constraint graph of a relative ordering:
//
//	svg, _, err := runner.RenderGraph(ctx, result, pipeline.FormatSVG, false)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/OpenLiberty/open-liberty-sub391/pkg/cache"
	"github.com/OpenLiberty/open-liberty-sub391/pkg/errors"
	"github.com/OpenLiberty/open-liberty-sub391/pkg/fragment"
	fragio "github.com/OpenLiberty/open-liberty-sub391/pkg/io"
)

// Compat overrides. CompatManifest keeps the setting of the manifest.
const (
	CompatManifest  = ""
	CompatLegacy    = "legacy"
	CompatCorrected = "corrected"
)

// Graph output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported graph output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// ValidCompat is the set of accepted compat overrides.
var ValidCompat = map[string]bool{
	CompatManifest:  true,
	CompatLegacy:    true,
	CompatCorrected: true,
}

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options configures one ordering run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Manifest is the manifest content. When empty, ManifestPath is read.
	Manifest []byte `json:"manifest,omitempty"`
	// ManifestPath is the manifest file used when Manifest is empty.
	ManifestPath string `json:"-"`
	// ManifestFormat is json, yaml or toml. It is detected from ManifestPath
	// when empty.
	ManifestFormat string `json:"manifest_format,omitempty"`

	// Compat overrides the manifest's legacy_compat setting.
	Compat string `json:"compat,omitempty"`

	// Refresh bypasses cached results and recomputes.
	Refresh bool `json:"refresh,omitempty"`

	// TTL of cached results. Defaults to cache.TTLOrder.
	TTL time.Duration `json:"-"`

	// Logger receives run logs. Defaults to a discarding logger.
	Logger *log.Logger `json:"-"`

	validated bool
	format    fragio.Format
}

// Result is the outcome of an ordering run.
type Result struct {
	RunID      string              `json:"run_id"`
	Module     string              `json:"module"`
	Mode       fragment.Mode       `json:"mode"`
	Ordered    []fragment.Fragment `json:"ordered"`
	Excluded   []fragment.Fragment `json:"excluded"`
	Graph      *fragment.Graph     `json:"graph,omitempty"`
	ResultHash string              `json:"result_hash"`
	Stats      Stats               `json:"stats"`
	CacheHit   bool                `json:"cache_hit"`
}

// Stats contains run statistics.
type Stats struct {
	Fragments int           `json:"fragments"`
	Excluded  int           `json:"excluded"`
	Nodes     int           `json:"nodes"`
	Edges     int           `json:"edges"`
	Duration  time.Duration `json:"duration_ns"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a graph output format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, svg, json)", format)
	}
	return nil
}

// ValidateCompat checks that a compat override is valid.
func ValidateCompat(compat string) error {
	if !ValidCompat[compat] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid compat: %q (must be legacy or corrected)", compat)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Manifest) == 0 && o.ManifestPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "manifest or manifest path is required")
	}

	var err error
	switch {
	case o.ManifestFormat != "":
		o.format, err = fragio.ParseFormat(o.ManifestFormat)
	case o.ManifestPath != "":
		o.format, err = fragio.DetectFormat(o.ManifestPath)
	default:
		o.format = fragio.FormatJSON
	}
	if err != nil {
		return err
	}
	o.ManifestFormat = string(o.format)

	if err := ValidateCompat(o.Compat); err != nil {
		return err
	}
	if o.TTL == 0 {
		o.TTL = cache.TTLOrder
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// OrderKeyOpts returns cache key options for the ordering result.
func (o *Options) OrderKeyOpts() cache.OrderKeyOpts {
	return cache.OrderKeyOpts{Format: o.ManifestFormat, Compat: o.Compat}
}

// apply copies the overrides of o onto the engine input.
func (o *Options) apply(in *fragment.Input) {
	switch o.Compat {
	case CompatLegacy:
		in.Compat = fragment.CompatLegacy
	case CompatCorrected:
		in.Compat = fragment.CompatCorrected
	}
}

func (r *Result) String() string {
	return fmt.Sprintf("%s: %s ordering of %d fragments (%d excluded)",
		r.Module, r.Mode, len(r.Ordered), len(r.Excluded))
}
