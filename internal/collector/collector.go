package collector

import (
	"context"
	"fmt"

	"SessionAtlas/internal/pipeline"
)

// Collector orchestrates bar fetching and table derivation.
type Collector struct {
	Source Source
	Runner *pipeline.Runner
}

// NewCollector creates a new Collector.
func NewCollector(source Source, runner *pipeline.Runner) *Collector {
	return &Collector{Source: source, Runner: runner}
}

// Collect fetches bars from the source and derives every table from them.
func (c *Collector) Collect(ctx context.Context) (*pipeline.Result, error) {
	bars, err := c.Source.FetchBars(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch bars from %s: %w", c.Source.Name(), err)
	}
	return c.Runner.Run(bars), nil
}
