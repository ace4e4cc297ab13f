package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/varscout/varscout/internal/model"
)

// Explorer defines the interface for exploring one variant identifier
type Explorer interface {
	Explore(ctx context.Context, raw string) (*model.Report, error)
}

// ExploreJob is one variant identifier queued for exploration
type ExploreJob struct {
	Input    string
	Explorer Explorer
}

// Execute runs the exploration
func (j *ExploreJob) Execute(ctx context.Context) Result {
	report, err := j.Explorer.Explore(ctx, j.Input)
	if err != nil {
		return &ExploreResult{
			Input:  j.Input,
			Report: nil,
			Error:  err,
		}
	}
	return &ExploreResult{
		Input:  j.Input,
		Report: report,
		Error:  nil,
	}
}

// ExploreResult is the outcome of one exploration job. A report with a
// populated Error field still counts as success here; Error covers only
// pipeline-internal failures.
type ExploreResult struct {
	Input  string
	Report *model.Report
	Error  error
}

// GetError returns the error from the exploration result
func (r *ExploreResult) GetError() error {
	return r.Error
}

// BatchProcessor explores multiple variant identifiers concurrently
type BatchProcessor struct {
	explorer    Explorer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(explorer Explorer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		explorer:    explorer,
		concurrency: concurrency,
	}
}

// ProcessInputs explores multiple identifiers concurrently
func (b *BatchProcessor) ProcessInputs(ctx context.Context, inputs []string) []*ExploreResult {
	if len(inputs) == 0 {
		return []*ExploreResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, input := range inputs {
		job := &ExploreJob{
			Input:    input,
			Explorer: b.explorer,
		}
		pool.Submit(job)
	}

	results := pool.Wait()

	exploreResults := make([]*ExploreResult, len(results))
	for i, result := range results {
		exploreResults[i] = result.(*ExploreResult)
	}

	return exploreResults
}

// ProcessFile reads identifiers from a file and explores them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ExploreResult, error) {
	inputs, err := ReadInputsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read identifiers: %w", err)
	}

	return b.ProcessInputs(ctx, inputs), nil
}

// ReadInputsFromFile reads variant identifiers from a file (one per line)
func ReadInputsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var inputs []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Deduplicate identifiers
		if !seen[line] {
			seen[line] = true
			inputs = append(inputs, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return inputs, nil
}
