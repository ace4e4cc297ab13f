package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/varscout/varscout/internal/llm"
	"github.com/varscout/varscout/internal/model"
)

// Renderer writes reports as JSON and Markdown
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Variant Report: %s\n\n", report.Input)
	fmt.Fprintf(&b, "Explored: %s  \n", report.ExploredAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Assembly: %s\n\n", report.Assembly)

	fmt.Fprintf(&b, "## Classification\n\n")
	fmt.Fprintf(&b, "- Kind: `%s`\n", report.Parsed.Kind)
	if report.Parsed.Gene != "" {
		fmt.Fprintf(&b, "- Gene: %s\n", report.Parsed.Gene)
	}
	if report.Parsed.RsID != "" {
		fmt.Fprintf(&b, "- rsID: %s\n", report.Parsed.RsID)
	}
	b.WriteString("\n")

	if report.Error != nil {
		fmt.Fprintf(&b, "## Resolution Failed\n\n")
		fmt.Fprintf(&b, "- Kind: `%s`\n", report.Error.Kind)
		fmt.Fprintf(&b, "- Detail: %s\n", report.Error.Detail)
		if len(report.Error.Attempts) > 0 {
			b.WriteString("\nStrategies tried:\n\n")
			for _, attempt := range report.Error.Attempts {
				fmt.Fprintf(&b, "- `%s`: %s\n", attempt.Strategy, attempt.Reason)
			}
		}
		b.WriteString("\n")
	}

	if c := report.Coordinates; c != nil {
		fmt.Fprintf(&b, "## Coordinates\n\n")
		fmt.Fprintf(&b, "- Location: chr%s:%d-%d (strand %+d)\n", c.Chrom, c.Start, c.End, c.Strand)
		if c.Allele != "" {
			fmt.Fprintf(&b, "- Allele: %s\n", c.Allele)
		}
		if c.Transcript != "" {
			fmt.Fprintf(&b, "- Transcript: %s\n", c.Transcript)
		}
		fmt.Fprintf(&b, "- Provenance: `%s`\n", c.Provenance)
		if c.Approximate {
			b.WriteString("- **Approximate**: gene-level bounds, not an exact position\n")
		}
		b.WriteString("\n")
	}

	if a := report.Annotations; a != nil {
		fmt.Fprintf(&b, "## Annotation Layers\n\n")
		fmt.Fprintf(&b, "Query window: %s:%d-%d\n\n", a.Chrom, a.Start, a.End)
		b.WriteString("| Layer | Status | Note |\n")
		b.WriteString("|-------|--------|------|\n")
		for _, layer := range a.Layers {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", layer.Kind, layer.Status, layer.Note)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("Generated by varscout. Coordinates and annotations come from\n")
		b.WriteString("public genomics services; verify against primary sources before use.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderLLMMarkdown writes a pre-rendered LLM summary to its own file
func (r *Renderer) RenderLLMMarkdown(markdown string, path string) error {
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderSummary prints a one-screen summary to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Printf("\n%s\n", report.Input)

	if report.Error != nil {
		fmt.Printf("  resolution failed: %s\n", report.Error.Error())
		return
	}

	if c := report.Coordinates; c != nil {
		marker := ""
		if c.Approximate {
			marker = " (approximate)"
		}
		fmt.Printf("  chr%s:%d-%d via %s%s\n", c.Chrom, c.Start, c.End, c.Provenance, marker)
	}

	if a := report.Annotations; a != nil {
		ok := 0
		for _, layer := range a.Layers {
			if layer.Status == model.LayerOK {
				ok++
			}
		}
		fmt.Printf("  annotation layers: %d/%d with data\n", ok, len(a.Layers))
	}

	if report.LLM != nil && report.LLM.Enabled {
		fmt.Printf("  LLM summary: %s/%s\n", report.LLM.Provider, report.LLM.Model)
	}
}

// RenderReport renders the report to the requested outputs
func (e *Explorer) RenderReport(report *model.Report, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := e.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := e.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("Wrote Markdown: %s\n", mdPath)
		}
	}

	// LLM summary goes to a separate file, never mixed into the report
	if report.LLM != nil && report.LLM.Enabled && mdPath != "" {
		llmMdPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		llmMarkdown := llm.RenderSeparateMarkdown(report.LLM)
		if err := e.renderer.RenderLLMMarkdown(llmMarkdown, llmMdPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to write LLM summary: %v\n", err)
		} else if verbose {
			fmt.Printf("Wrote LLM Summary: %s\n", llmMdPath)
		}
	}

	e.renderer.RenderSummary(report)

	return nil
}
