package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/outbreakwatch/episcan/internal/logging"
	"github.com/outbreakwatch/episcan/internal/model"
	"github.com/outbreakwatch/episcan/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	outJSON       string
	dryRun        bool
	timeout       time.Duration
	sourceTimeout time.Duration
	userAgent     string
	noCache       bool
	maxArticles   int
	batchSize     int
	classifyModel string
	triggerURL    string
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one ingestion cycle over all configured sources",
	Long: `Ingest fetches every configured source, deduplicates and filters
the articles, classifies the survivors against the disease vocabulary,
and stores new outbreak signals.

Source failures are isolated: one feed being down never aborts the run.
Classification batches are sent sequentially, and a malformed batch
response discards only that batch.

Example:
  episcan ingest
  episcan ingest --dry-run
  episcan ingest --json run.json --max-articles 30
  episcan ingest --timeout 10m --batch-size 5`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	// Output flags
	ingestCmd.Flags().StringVar(&outJSON, "json", "", "write run summary JSON to path")
	ingestCmd.Flags().BoolVar(&dryRun, "dry-run", false, "classify but skip storage and trigger")

	// HTTP flags
	ingestCmd.Flags().DurationVar(&timeout, "timeout", 15*time.Minute, "overall run timeout")
	ingestCmd.Flags().DurationVar(&sourceTimeout, "source-timeout", 0, "per-source fetch budget (0 = config default)")
	ingestCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	ingestCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable feed response cache (force fresh fetch)")

	// Classification flags
	ingestCmd.Flags().IntVar(&maxArticles, "max-articles", 0, "per-run article cap (0 = config default)")
	ingestCmd.Flags().IntVar(&batchSize, "batch-size", 0, "articles per classification batch (0 = config default)")
	ingestCmd.Flags().StringVar(&classifyModel, "model", "", "classification model override")

	// Notify flags
	ingestCmd.Flags().StringVar(&triggerURL, "trigger-url", "", "downstream refresh webhook override")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Flag overrides
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if sourceTimeout > 0 {
		cfg.Concurrency.SourceTimeout = sourceTimeout
	}
	if maxArticles > 0 {
		cfg.Classify.MaxArticles = maxArticles
	}
	if batchSize > 0 {
		cfg.Classify.BatchSize = batchSize
	}
	if classifyModel != "" {
		cfg.Classify.Model = classifyModel
	}
	if triggerURL != "" {
		cfg.Notify.URL = triggerURL
	}
	if outJSON != "" {
		cfg.Output.JSONPath = outJSON
	}
	cfg.Output.Verbose = verbose
	if verbose && cfg.Output.LogLevel == "" {
		cfg.Output.LogLevel = "debug"
	}

	// API keys come from the environment, never the config file
	cfg.Classify.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Store.APIKey = os.Getenv("EPISCAN_STORE_API_KEY")
	cfg.Sources.MediaAPI.APIKey = os.Getenv("EPISCAN_MEDIA_API_KEY")

	log := logging.New(cfg.Output.LogLevel)

	p, err := pipeline.New(cfg, log, dryRun)
	if err != nil {
		return err
	}
	defer p.Close()

	summary, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	pipeline.RenderSummary(os.Stderr, summary)

	if cfg.Output.JSONPath != "" {
		if err := pipeline.WriteJSON(cfg.Output.JSONPath, summary); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Summary written to %s\n", cfg.Output.JSONPath)
		}
	}

	return nil
}

// loadConfig layers the config file (if any) over built-in defaults.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}

	return cfg, nil
}
