package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/varscout/varscout/internal/pipeline"
	"github.com/varscout/varscout/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// noCache, noFooter and the LLM flags are defined in explore.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Explore multiple variant identifiers from a file in parallel",
	Long: `Batch reads variant identifiers from a file (one per line, # starts a
comment) and explores them concurrently with a configurable worker count.
Each identifier gets its own JSON and Markdown report in the output
directory; a failed resolution is recorded in the report rather than
aborting the batch.

Example:
  varscout batch variants.txt
  varscout batch variants.txt --concurrency 8 --output-dir ./reports
  varscout batch variants.txt --no-cache --timeout 10m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./varscout-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.HTTP.Timeout = 30 * time.Second
	cfg.Concurrency.BatchWorkers = concurrency

	fmt.Fprintf(os.Stderr, "Batch input:  %s\n", file)
	fmt.Fprintf(os.Stderr, "Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "Timeout:      %v\n", batchTimeout)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintln(os.Stderr)

	// Create output directory
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	explorer := pipeline.NewExplorer(cfg)
	processor := worker.NewBatchProcessor(explorer, concurrency)

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", result.Input, result.Error)
			continue
		}

		successCount++

		slug := sanitizeFilename(result.Input)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: failed to write JSON: %v\n", result.Input, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: failed to write Markdown: %v\n", result.Input, err)
			continue
		}

		if result.Report.Error != nil {
			fmt.Fprintf(os.Stderr, "OK   %s (unresolved: %s)\n", result.Input, result.Report.Error.Kind)
		} else if c := result.Report.Coordinates; c != nil {
			fmt.Fprintf(os.Stderr, "OK   %s -> chr%s:%d-%d\n", result.Input, c.Chrom, c.Start, c.End)
		}
	}

	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "Batch complete: %d total, %d ok, %d failed, reports in %s\n",
		len(results), successCount, failureCount, outputDir)

	return nil
}

// sanitizeFilename turns a variant identifier into a safe filename
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}

	return s
}
