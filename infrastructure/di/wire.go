//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"mediagraph/application/ports"
	"mediagraph/application/services"
	"mediagraph/application/workflows"
	"mediagraph/application/workspace"
	"mediagraph/infrastructure/config"
	"mediagraph/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *observability.Collector
	Workspace  *workspace.Workspace
	Selection  *services.SelectionShareStore
	Paste      *services.PasteIngestor
	Workflows  *workflows.Orchestrator
	AssetStore ports.AssetStore
	Downloads  ports.DownloadCoordinator
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideMetrics,
	ProvideWorkspace,
	ProvideAssetStore,
	ProvideImageMeter,
	ProvideGeminiClient,
	ProvideImageGenerator,
	ProvideImageEditor,
	ProvideUpscaler,
	ProvideDownloadCoordinator,
	ProvideSelectionStore,
	ProvidePasteIngestor,
	ProvideGenerateWorkflow,
	ProvideEditWorkflow,
	ProvideUpscaleWorkflow,
	ProvideOrchestrator,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
