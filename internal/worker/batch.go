package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"disputewise/internal/model"
)

// DisputeAnalyzer is the subset of the analyzer the batch runner needs.
type DisputeAnalyzer interface {
	Analyze(ctx context.Context, dispute model.DisputeData) (*model.AnalysisResult, error)
}

// AnalysisJob analyzes a single dispute record
type AnalysisJob struct {
	Dispute  model.DisputeData
	Analyzer DisputeAnalyzer
}

// Execute runs the analysis job
func (j *AnalysisJob) Execute(ctx context.Context) Result {
	result, err := j.Analyzer.Analyze(ctx, j.Dispute)
	return &AnalysisOutcome{
		Dispute: j.Dispute,
		Result:  result,
		Error:   err,
	}
}

// AnalysisOutcome pairs a dispute with its analysis result or error
type AnalysisOutcome struct {
	Dispute model.DisputeData
	Result  *model.AnalysisResult
	Error   error
}

// GetError returns the error from the outcome
func (o *AnalysisOutcome) GetError() error {
	return o.Error
}

// BatchProcessor analyzes multiple disputes concurrently. Oracle-side
// throttling is handled by the provider's rate limiter, so worker count
// only bounds in-process concurrency.
type BatchProcessor struct {
	analyzer    DisputeAnalyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer DisputeAnalyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// Process analyzes the given disputes concurrently. Cancelling ctx
// stops the run; disputes not yet picked up are skipped and in-flight
// oracle calls see the cancellation.
func (b *BatchProcessor) Process(ctx context.Context, disputes []model.DisputeData) []*AnalysisOutcome {
	if len(disputes) == 0 {
		return []*AnalysisOutcome{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, d := range disputes {
		pool.Submit(&AnalysisJob{
			Dispute:  d,
			Analyzer: b.analyzer,
		})
	}

	results := pool.Wait()

	outcomes := make([]*AnalysisOutcome, len(results))
	for i, r := range results {
		outcomes[i] = r.(*AnalysisOutcome)
	}
	return outcomes
}

// ProcessFile reads dispute records from a JSON file and analyzes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AnalysisOutcome, error) {
	disputes, err := ReadDisputesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read disputes: %w", err)
	}
	return b.Process(ctx, disputes), nil
}

// ReadDisputesFromFile reads a JSON array of dispute records
func ReadDisputesFromFile(filePath string) ([]model.DisputeData, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	var disputes []model.DisputeData
	if err := json.Unmarshal(data, &disputes); err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}
	return disputes, nil
}
