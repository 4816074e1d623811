package recorder

import "SessionAtlas/internal/pipeline"

// NoopRecorder is a no-op implementation used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *pipeline.Result) error { return nil }
func (n *NoopRecorder) Close() error                        { return nil }
