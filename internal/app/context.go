package app

import (
	"context"

	"github.com/qurandl/qurandl/internal/domain"
	"github.com/qurandl/qurandl/internal/infra/config"
	"github.com/qurandl/qurandl/internal/infra/logger"
)

// Catalogue lets commands resolve reciters without importing the catalogue
// package directly.
type Catalogue interface {
	Reciters(ctx context.Context, forceRefresh bool) ([]domain.Reciter, error)
	ResolveByName(ctx context.Context, name string) (domain.Reciter, error)
}

// Engine runs a resolved download request end to end.
type Engine interface {
	Run(ctx context.Context, rec domain.Reciter, surahs []int, outputRoot string) (domain.DownloadSummary, error)
}

// PresetStore persists named download recipes and finished run summaries.
type PresetStore interface {
	SavePreset(p domain.Preset) error
	GetPreset(name string) (domain.Preset, error)
	ListPresets() ([]domain.Preset, error)
	DeletePreset(name string) error
	RecordRun(summary domain.DownloadSummary) error
	RecentRuns(limit int) ([]domain.DownloadSummary, error)
}

// Context holds the shared environment for one qurandl invocation.
type Context struct {
	Config *config.Config
	Logger *logger.Logger

	Catalogue Catalogue
	Engine    Engine
	Store     PresetStore
}

// NewContext initializes the base environment.
func NewContext(cfg *config.Config, log *logger.Logger) *Context {
	return &Context{
		Config: cfg,
		Logger: log,
	}
}
