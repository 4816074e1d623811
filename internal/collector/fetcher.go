package collector

import (
	"context"
	"errors"

	"SessionAtlas/internal/model"
)

// Source delivers a normalized bar sequence.
type Source interface {
	FetchBars(ctx context.Context) ([]model.Bar, error)
	Name() string
}

// ErrNoBars is returned by remote sources that answered without any bar.
var ErrNoBars = errors.New("no bars returned")

// barTimeLayout is the timestamp format remote sources normalize to.
const barTimeLayout = "2006-01-02T15:04:05"

// StaticSource serves a fixed bar sequence, for dry runs and tests.
type StaticSource struct {
	Bars []model.Bar
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) FetchBars(ctx context.Context) ([]model.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Bars, nil
}
