package recorder

import "SessionAtlas/internal/pipeline"

// Recorder persists the tables of each pipeline run for later analysis.
type Recorder interface {
	RecordRun(res *pipeline.Result) error
	Close() error
}
