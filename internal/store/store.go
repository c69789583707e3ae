// Package store persists an audit log of resolution runs. The
// pipeline works without it (driver "none"); when present it records
// what was asked, what route the run ended on, and the full result.
package store

import (
	"context"

	"github.com/leadscope-jp/shop-resolver/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Route  model.Route     `json:"route,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the run-log persistence interface.
type Store interface {
	CreateRun(ctx context.Context, query model.ShopQuery) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, result *model.ResolutionResult) error
	FailRun(ctx context.Context, runID string, runErr error) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
