package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/varscout/varscout/internal/extract"
	"github.com/varscout/varscout/internal/llm"
	"github.com/varscout/varscout/internal/model"
	"github.com/varscout/varscout/internal/pipeline"
	"github.com/varscout/varscout/internal/worker"
)

var (
	extractTimeout time.Duration
	extractLLM     bool
	exploreFound   bool
	extractOutDir  string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <url-or-file>",
	Short: "Find variant notations in a web page or text file",
	Long: `Extract pulls candidate variant identifiers out of free text. The source
is either a URL (fetched over HTTP, honoring robots.txt) or a local file.

A regex scan always runs; with --llm an LLM pass runs as well and its
candidates are merged in. Every candidate is validated by the notation
classifier before it is reported, so LLM output cannot invent identifiers
that do not look like variants.

Example:
  varscout extract https://en.wikipedia.org/wiki/APOE
  varscout extract paper.txt --llm --llm-provider anthropic
  varscout extract paper.txt --explore --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 2*time.Minute, "overall extraction timeout")
	extractCmd.Flags().BoolVar(&extractLLM, "llm", false, "also run LLM-based extraction")
	extractCmd.Flags().BoolVar(&exploreFound, "explore", false, "explore every extracted identifier")
	extractCmd.Flags().StringVar(&extractOutDir, "output-dir", "./varscout-reports", "output directory when --explore is set")
}

func runExtract(cmd *cobra.Command, args []string) error {
	source := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	// extract shares the LLM flags with explore
	llmEnabled = extractLLM

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	text, err := loadSourceText(ctx, cfg, source)
	if err != nil {
		return err
	}

	// Regex scan always runs
	notations := extract.ScanText(text)

	// Optional LLM pass, merged after the scan
	if extractLLM {
		extractor, err := llm.NewExtractor(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
		if err != nil {
			return err
		}

		llmNotations, err := extractor.ExtractNotations(ctx, text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: LLM extraction failed: %v\n", err)
		} else {
			notations = mergeNotations(notations, llmNotations)
		}
	}

	if len(notations) == 0 {
		fmt.Println("No variant notations found.")
		return nil
	}

	fmt.Printf("Found %d variant notation(s):\n", len(notations))
	for _, n := range notations {
		fmt.Printf("  %s\n", n)
	}

	if !exploreFound {
		return nil
	}

	// Hand the findings straight to the batch machinery
	if err := os.MkdirAll(extractOutDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	explorer := pipeline.NewExplorer(cfg)
	processor := worker.NewBatchProcessor(explorer, cfg.Concurrency.BatchWorkers)
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	results := processor.ProcessInputs(ctx, notations)
	for _, result := range results {
		if result.Error != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", result.Input, result.Error)
			continue
		}
		slug := sanitizeFilename(result.Input)
		if err := renderer.RenderJSON(result.Report, extractOutDir+"/"+slug+".json"); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", result.Input, err)
		}
	}
	fmt.Printf("Explored %d notation(s), reports in %s\n", len(results), extractOutDir)

	return nil
}

// loadSourceText reads the extraction source: a fetched page for URLs,
// file contents otherwise. HTML is reduced to visible text either way.
func loadSourceText(ctx context.Context, cfg *model.Config, source string) (string, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		fetcher := extract.NewFetcher(cfg.HTTP)
		result, err := fetcher.Fetch(ctx, source)
		if err != nil {
			return "", fmt.Errorf("fetch source: %w", err)
		}
		return extract.VisibleText(result.HTML)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}

	content := string(data)
	if strings.Contains(content, "<html") || strings.Contains(content, "<body") {
		return extract.VisibleText(content)
	}
	return content, nil
}

// mergeNotations appends new candidates while preserving scan order
func mergeNotations(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	for _, n := range base {
		seen[n] = true
	}
	for _, n := range extra {
		if !seen[n] {
			seen[n] = true
			base = append(base, n)
		}
	}
	return base
}
