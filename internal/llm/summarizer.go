package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/varscout/varscout/internal/model"
)

// Summarizer generates optional LLM summaries of variant reports
// CRITICAL: Summary generation never affects resolution or annotation results
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a new summarizer with the given configuration
// Returns a disabled summarizer (nil provider) if no provider is configured
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}

	return &Summarizer{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled returns true if a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider name, or empty if disabled
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary produces an LLM summary of a report
// Failures degrade gracefully: the summary carries warnings instead of
// failing the exploration
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) (*model.LLMSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	if !s.provider.IsAvailable(ctx) {
		return &model.LLMSummary{
			Enabled:  false,
			Provider: s.provider.Name(),
			Warnings: []string{
				fmt.Sprintf("Provider '%s' is not available (check API key and connectivity)", s.provider.Name()),
			},
		}, nil
	}

	req := CompletionRequest{
		System:    systemPrompt,
		Prompt:    BuildPrompt(report),
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	}

	resp, err := s.provider.Complete(ctx, req)
	if err != nil {
		return &model.LLMSummary{
			Enabled:  true,
			Provider: s.provider.Name(),
			Model:    s.config.Model,
			Warnings: []string{
				fmt.Sprintf("Summary generation failed: %v", err),
			},
		}, nil
	}

	summary := &model.LLMSummary{
		Enabled:    true,
		Provider:   s.provider.Name(),
		Model:      resp.Model,
		SummaryMD:  resp.Text,
		TokensUsed: resp.TokensUsed,
		Warnings: []string{
			fmt.Sprintf("Tokens used: %d", resp.TokensUsed),
		},
	}

	return summary, nil
}

const systemPrompt = `You are a genomics annotation assistant. You summarize structured variant reports for a technical audience. You describe only what the report contains and never assert clinical conclusions.`

// BuildPrompt constructs the summary prompt from a report
// Only data already present in the report goes into the prompt
func BuildPrompt(report model.Report) string {
	var b strings.Builder

	b.WriteString("CRITICAL RULES:\n")
	b.WriteString("1. Describe ONLY the data in the report below\n")
	b.WriteString("2. DO NOT infer, speculate, or add clinical interpretation\n")
	b.WriteString("3. State explicitly when a section is absent or approximate\n")
	b.WriteString("4. Keep the summary under 200 words, plain Markdown\n\n")

	fmt.Fprintf(&b, "Input: %s\n", report.Input)
	fmt.Fprintf(&b, "Classified as: %s\n", report.Parsed.Kind)
	fmt.Fprintf(&b, "Assembly: %s\n", report.Assembly)

	if report.Coordinates != nil {
		c := report.Coordinates
		fmt.Fprintf(&b, "Location: chr%s:%d-%d (strand %d)\n", c.Chrom, c.Start, c.End, c.Strand)
		fmt.Fprintf(&b, "Resolved via: %s\n", c.Provenance)
		if c.Allele != "" {
			fmt.Fprintf(&b, "Allele: %s\n", c.Allele)
		}
		if c.Transcript != "" {
			fmt.Fprintf(&b, "Transcript: %s\n", c.Transcript)
		}
		if c.Approximate {
			b.WriteString("NOTE: coordinates are approximate gene-level bounds, not an exact position\n")
		}
	} else {
		b.WriteString("Location: not resolved\n")
	}

	if report.Error != nil {
		fmt.Fprintf(&b, "Resolution error: %s\n", report.Error.Error())
	}

	if report.Annotations != nil {
		b.WriteString("\nAnnotation layers:\n")
		for _, layer := range report.Annotations.Layers {
			fmt.Fprintf(&b, "- %s: %s", layer.Kind, layer.Status)
			if layer.Note != "" {
				fmt.Fprintf(&b, " (%s)", layer.Note)
			}
			b.WriteString("\n")
		}
	} else {
		b.WriteString("\nAnnotation layers: none fetched\n")
	}

	b.WriteString("\nSummarize the report above. Describe DATA PRESENCE, not clinical significance.\n")

	return b.String()
}

// RenderSeparateMarkdown renders an LLM summary as standalone Markdown,
// clearly separated from the factual report
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder

	b.WriteString("# LLM Summary\n\n")
	b.WriteString("> **GENERATED CONTENT**: This summary was produced by a language model.\n")
	b.WriteString("> Coordinates and annotations were determined independently and are not\n")
	b.WriteString("> affected by this text.\n\n")

	fmt.Fprintf(&b, "**Provider**: %s\n", summary.Provider)
	if summary.Model != "" {
		fmt.Fprintf(&b, "**Model**: %s\n", summary.Model)
	}
	b.WriteString("\n---\n\n")

	if summary.SummaryMD != "" {
		b.WriteString(summary.SummaryMD)
		b.WriteString("\n")
	} else {
		b.WriteString("*No summary generated.*\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, warning := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
	}

	return b.String()
}
