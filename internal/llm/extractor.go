package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/varscout/varscout/internal/classify"
	"github.com/varscout/varscout/internal/model"
)

// Extractor pulls candidate variant notations out of free text using an LLM.
// Every candidate is re-checked by the classifier before it is returned, so
// a hallucinated string that does not look like a variant notation is dropped.
type Extractor struct {
	provider Provider
	config   Config
}

// NewExtractor creates an extractor with the given configuration
// Extraction requires a provider; unlike summaries it cannot degrade to nothing
func NewExtractor(config Config) (*Extractor, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("notation extraction requires an LLM provider (set llm.provider)")
	}

	return &Extractor{
		provider: provider,
		config:   config,
	}, nil
}

// ProviderName returns the configured provider name
func (e *Extractor) ProviderName() string {
	return e.provider.Name()
}

const extractorSystemPrompt = `You extract genetic variant identifiers from text. You output only identifiers that appear verbatim in the input, one per line, with no commentary.`

// maxExtractInput caps how much text goes into one extraction prompt
const maxExtractInput = 16000

// ExtractNotations asks the provider for variant identifiers found in text
// and keeps only candidates the classifier recognizes
func (e *Extractor) ExtractNotations(ctx context.Context, text string) ([]string, error) {
	if !e.provider.IsAvailable(ctx) {
		return nil, fmt.Errorf("provider '%s' is not available", e.provider.Name())
	}

	if len(text) > maxExtractInput {
		text = text[:maxExtractInput]
	}

	req := CompletionRequest{
		System:    extractorSystemPrompt,
		Prompt:    buildExtractionPrompt(text),
		Model:     e.config.Model,
		MaxTokens: e.config.MaxTokens,
	}

	resp, err := e.provider.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	return filterCandidates(resp.Text), nil
}

func buildExtractionPrompt(text string) string {
	var b strings.Builder

	b.WriteString("Find every genetic variant identifier in the text below. Look for:\n")
	b.WriteString("- dbSNP rsIDs (rs429358)\n")
	b.WriteString("- HGVS notations with an accession (NM_000546.6:c.743G>A, NC_000017.11:g.7674220C>T)\n")
	b.WriteString("- gene symbol plus cDNA change (TP53 c.743G>A, BRAF:c.1799T>A)\n\n")
	b.WriteString("Output one identifier per line, exactly as written in the text.\n")
	b.WriteString("If there are none, output NONE.\n\n")
	b.WriteString("TEXT:\n")
	b.WriteString(text)

	return b.String()
}

// filterCandidates keeps lines the classifier accepts, deduplicated in order
func filterCandidates(raw string) []string {
	var out []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(raw, "\n") {
		candidate := strings.TrimSpace(line)
		candidate = strings.TrimPrefix(candidate, "- ")
		candidate = strings.Trim(candidate, "`*")
		if candidate == "" || candidate == "NONE" {
			continue
		}

		parsed := classify.Classify(candidate)
		if parsed.Kind == model.KindUnrecognized {
			continue
		}
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		out = append(out, candidate)
	}

	return out
}
