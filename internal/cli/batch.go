package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"disputewise/internal/analyze"
	"disputewise/internal/worker"
)

var (
	batchConcurrency int
	batchOutputDir   string
	batchTimeout     time.Duration
	batchProvider    string
	batchModel       string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple disputes from a file in parallel",
	Long: `Batch processes multiple disputes concurrently:
- Read dispute records from a JSON array file
- Analyze disputes in parallel with configurable worker count
- Write one result file per dispute

Example:
  disputewise batch disputes.json
  disputewise batch disputes.json --concurrency 10 --output-dir ./results
  disputewise batch disputes.json --provider ollama --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers from config)")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "./disputewise-results", "output directory for results")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchProvider, "provider", "", "oracle provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&batchModel, "model", "", "oracle model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if batchProvider != "" {
		cfg.Oracle.Provider = batchProvider
	}
	if batchModel != "" {
		cfg.Oracle.Model = batchModel
	}
	if cfg.Oracle.Provider == "" {
		return fmt.Errorf("no oracle provider configured (use --provider or set oracle.provider in config)")
	}
	if err := applyOracleEnv(cfg); err != nil {
		return err
	}

	workers := resolveWorkers(batchConcurrency, cfg.Concurrency.Workers)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Disputewise Batch Analysis\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", batchOutputDir)
	fmt.Fprintf(os.Stderr, "  Oracle:       %s/%s\n", cfg.Oracle.Provider, cfg.Oracle.Model)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(batchOutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	o, err := buildOracle(cfg)
	if err != nil {
		return fmt.Errorf("configure oracle: %w", err)
	}

	processor := worker.NewBatchProcessor(analyze.New(o), workers)

	fmt.Fprintf(os.Stderr, "⚙️  Reading disputes from file...\n")
	outcomes, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Processed %d disputes\n", len(outcomes))
	fmt.Fprintf(os.Stderr, "\n")

	successCount := 0
	failureCount := 0

	for _, outcome := range outcomes {
		id := outcome.Dispute.DisputeID
		if id == "" {
			id = "dispute"
		}

		if outcome.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", id, outcome.Error)
			continue
		}

		out, err := json.MarshalIndent(outcome.Result, "", "  ")
		if err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: encode result: %v\n", id, err)
			continue
		}

		resultPath := filepath.Join(batchOutputDir, sanitizeFilename(id)+".json")
		if err := os.WriteFile(resultPath, out, 0644); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: write result: %v\n", id, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (risk: %.1f/100, priority: %d)\n", id, outcome.Result.RiskScore, outcome.Result.Priority)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d disputes\n", len(outcomes))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", batchOutputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// resolveWorkers picks the worker count: the flag wins when set,
// then concurrency.workers from config, then the CPU count.
func resolveWorkers(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	if configValue > 0 {
		return configValue
	}
	return runtime.NumCPU()
}

var filenameSanitizer = strings.NewReplacer(
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

// sanitizeFilename sanitizes a string for use as a filename
func sanitizeFilename(s string) string {
	s = filenameSanitizer.Replace(s)
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
