package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/varscout/varscout/internal/model"
	"github.com/varscout/varscout/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	noFooter    bool
	insecureTLS bool
	httpProxy   string
	httpsProxy  string
	assembly    string
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// exploreCmd represents the explore command
var exploreCmd = &cobra.Command{
	Use:   "explore <variant>",
	Short: "Resolve one variant identifier and aggregate annotations",
	Long: `Explore takes a single variant identifier in any supported notation:
- genomic HGVS        NC_000017.11:g.7674220C>T
- transcript cDNA     NM_000546.6:c.743G>A
- gene + cDNA change  TP53 c.743G>A
- dbSNP rsID          rs429358

and resolves it to genomic coordinates through an ordered strategy chain,
then fetches the gene model, conservation, known-variant and
clinical-significance layers for the resolved region.

Example:
  varscout explore rs429358
  varscout explore "TP53 c.743G>A" --json report.json --md report.md
  varscout explore NM_000546.6:c.743G>A --llm --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runExplore,
}

func init() {
	rootCmd.AddCommand(exploreCmd)

	// Output flags
	exploreCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	exploreCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	// HTTP flags
	exploreCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall exploration timeout")
	exploreCmd.Flags().StringVar(&userAgent, "ua", "varscout/0.2 (+https://github.com/varscout/varscout)", "HTTP User-Agent")
	exploreCmd.Flags().Int64Var(&maxBytes, "max-bytes", 4_000_000, "max response bytes to read")
	exploreCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable response cache (force fresh lookups)")
	exploreCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	exploreCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification")
	exploreCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	exploreCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// Assembly flag
	exploreCmd.Flags().StringVar(&assembly, "assembly", "", "reference assembly (default GRCh38)")

	// LLM flags
	exploreCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summary generation")
	exploreCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	exploreCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default if empty)")
}

func runExplore(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Exploring: %s\n", input)
		fmt.Fprintf(os.Stderr, "Assembly: %s\n", cfg.Assembly.Name)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	explorer := pipeline.NewExplorer(cfg)

	report, err := explorer.Explore(ctx, input)
	if err != nil {
		return fmt.Errorf("explore failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Classified as: %s\n", report.Parsed.Kind)
		if report.Coordinates != nil {
			fmt.Fprintf(os.Stderr, "Resolved via: %s\n", report.Coordinates.Provenance)
		}
		if report.LLM != nil && report.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "Generated LLM summary using %s/%s\n", report.LLM.Provider, report.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := explorer.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// buildConfig assembles configuration from defaults and shared flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if assembly != "" {
		cfg.Assembly.Name = assembly
	}

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		// Get API key from environment
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			baseURL := os.Getenv("OLLAMA_BASE_URL")
			if baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}
