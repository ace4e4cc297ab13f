package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/varscout/varscout/internal/annotate"
	"github.com/varscout/varscout/internal/cache"
	"github.com/varscout/varscout/internal/classify"
	"github.com/varscout/varscout/internal/llm"
	"github.com/varscout/varscout/internal/model"
	"github.com/varscout/varscout/internal/resolve"
	"github.com/varscout/varscout/internal/upstream"
)

// Explorer orchestrates the complete exploration of one variant identifier:
// classify, resolve to genomic coordinates, aggregate annotation layers,
// and optionally summarize with an LLM.
type Explorer struct {
	resolver   *resolve.Resolver
	aggregator *annotate.Aggregator
	renderer   *Renderer
	summarizer *llm.Summarizer // Optional LLM summarizer (nil if disabled)
	config     *model.Config
}

// NewExplorer creates an explorer with the given configuration
func NewExplorer(cfg *model.Config) *Explorer {
	responses := cache.New(cache.Options{
		Enabled: cfg.Cache.Enabled,
		TTL:     cfg.Cache.TTL,
		Dir:     cfg.Cache.Dir,
	})

	client := upstream.NewClient(cfg, responses)
	if cfg.Output.Verbose {
		client.SetLogf(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		})
	}

	// Create LLM summarizer if configured
	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		llmConfig := llm.ConfigFromModel(cfg.LLM, cfg.HTTP)
		s, err := llm.NewSummarizer(llmConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	return &Explorer{
		resolver:   resolve.New(cfg, client),
		aggregator: annotate.New(cfg, client),
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		summarizer: summarizer,
		config:     cfg,
	}
}

// Explore runs the full pipeline for one raw identifier. A failed resolution
// still yields a report; the failure is recorded in Report.Error instead of
// being returned. The returned error covers only pipeline-internal problems.
func (e *Explorer) Explore(ctx context.Context, raw string) (*model.Report, error) {
	report := &model.Report{
		Input:      raw,
		ExploredAt: time.Now().UTC(),
		Assembly:   e.config.Assembly.Name,
	}

	// 1. Classify the notation
	report.Parsed = classify.Classify(raw)

	// 2. Resolve to genomic coordinates
	coords, err := e.resolver.Resolve(ctx, report.Parsed)
	if err != nil {
		report.Error = asResolutionError(err)
		return report, nil
	}
	report.Coordinates = coords

	// 3. Aggregate annotation layers (partial bundles are fine)
	report.Annotations = e.aggregator.Aggregate(ctx, coords)

	// 4. Generate LLM summary if enabled (AFTER aggregation, never affects it)
	if e.summarizer != nil && e.summarizer.IsEnabled() {
		llmSummary, err := e.summarizer.GenerateSummary(ctx, *report)
		if err != nil {
			// Don't fail the exploration, just warn
			fmt.Fprintf(os.Stderr, "Warning: LLM summary generation failed: %v\n", err)
		} else if llmSummary != nil {
			report.LLM = llmSummary
		}
	}

	return report, nil
}

// asResolutionError keeps structured failures intact and wraps anything
// else as an upstream availability problem
func asResolutionError(err error) *model.ResolutionError {
	var resErr *model.ResolutionError
	if errors.As(err, &resErr) {
		return resErr
	}
	return model.NewResolutionError(model.ErrUpstreamUnavailable, "%v", err)
}
