package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"disputewise/internal/analyze"
	"disputewise/internal/model"
)

var (
	analyzeProvider string
	analyzeModel    string
	analyzeTimeout  time.Duration
	analyzeOutJSON  string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a single dispute from a JSON file",
	Long: `Analyze reads one dispute record from a JSON file, scores it,
obtains an AI judgment, and prints the full analysis result.

The input file holds a single dispute object:
  {
    "dispute_id": "d-1001",
    "transaction_amount": 7500,
    "category": "Unauthorized Transaction",
    "previous_disputes_count": 3,
    "customer_account_age_days": 20,
    "has_supporting_documents": false
  }

Example:
  disputewise analyze dispute.json --provider openai
  disputewise analyze dispute.json --provider ollama --json result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeProvider, "provider", "", "oracle provider (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "oracle model name")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&analyzeOutJSON, "json", "", "write result JSON to this path instead of stdout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if analyzeProvider != "" {
		cfg.Oracle.Provider = analyzeProvider
	}
	if analyzeModel != "" {
		cfg.Oracle.Model = analyzeModel
	}
	if cfg.Oracle.Provider == "" {
		return fmt.Errorf("no oracle provider configured (use --provider or set oracle.provider in config)")
	}
	if err := applyOracleEnv(cfg); err != nil {
		return err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read dispute file: %w", err)
	}
	var dispute model.DisputeData
	if err := json.Unmarshal(data, &dispute); err != nil {
		return fmt.Errorf("parse dispute file: %w", err)
	}

	o, err := buildOracle(cfg)
	if err != nil {
		return fmt.Errorf("configure oracle: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", dispute.DisputeID)
		fmt.Fprintf(os.Stderr, "Provider:  %s\n", cfg.Oracle.Provider)
		fmt.Fprintln(os.Stderr)
	}

	result, err := analyze.New(o).Analyze(ctx, dispute)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if analyzeOutJSON != "" {
		if err := os.WriteFile(analyzeOutJSON, out, 0644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", analyzeOutJSON)
		}
		return nil
	}

	fmt.Println(string(out))
	return nil
}
