package di

import (
	"context"

	"go.uber.org/zap"

	"mediagraph/application/ports"
	"mediagraph/application/services"
	"mediagraph/application/workflows"
	"mediagraph/application/workspace"
	"mediagraph/domain/canvas"
	domconfig "mediagraph/domain/config"
	"mediagraph/infrastructure/config"
	"mediagraph/infrastructure/download"
	"mediagraph/infrastructure/genai"
	"mediagraph/infrastructure/media"
	"mediagraph/infrastructure/storage/r2"
	"mediagraph/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideDomainConfig creates the domain policy configuration
func ProvideDomainConfig() *domconfig.DomainConfig {
	return domconfig.DefaultDomainConfig()
}

// ProvideMetrics creates the metrics collector. A nil collector disables
// recording without branching at call sites.
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector("mediagraph")
}

// ProvideWorkspace creates the canvas workspace with a default viewport
func ProvideWorkspace(
	cfg *config.Config,
	domainCfg *domconfig.DomainConfig,
	logger *zap.Logger,
	metrics *observability.Collector,
) *workspace.Workspace {
	viewport := canvas.DefaultViewport(cfg.ScreenWidth, cfg.ScreenHeight)
	return workspace.New(domainCfg, viewport, logger, metrics)
}

// ProvideAssetStore creates the R2-backed asset store
func ProvideAssetStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.AssetStore, error) {
	return r2.New(ctx, r2.Options{
		Endpoint:        cfg.R2Endpoint,
		Bucket:          cfg.R2Bucket,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}, logger)
}

// ProvideImageMeter creates the image dimension prober
func ProvideImageMeter() ports.ImageMeter {
	return media.NewMeter()
}

// ProvideGeminiClient creates the shared Gemini client
func ProvideGeminiClient(cfg *config.Config, store ports.AssetStore, logger *zap.Logger) *genai.GeminiClient {
	return genai.NewGeminiClient(genai.GeminiOptions{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		ImageModel: cfg.GeminiImageModel,
		TextModel:  cfg.GeminiTextModel,
	}, store, logger)
}

// ProvideImageGenerator wraps the Gemini client in a circuit breaker
func ProvideImageGenerator(client *genai.GeminiClient, logger *zap.Logger) ports.ImageGenerator {
	return genai.NewBreakerGenerator(client, logger)
}

// ProvideImageEditor wraps the Gemini client in a circuit breaker
func ProvideImageEditor(client *genai.GeminiClient, logger *zap.Logger) ports.ImageEditor {
	return genai.NewBreakerEditor(client, logger)
}

// ProvideUpscaler creates the fal.ai upscaler behind a circuit breaker
func ProvideUpscaler(cfg *config.Config, store ports.AssetStore, logger *zap.Logger) ports.Upscaler {
	client := genai.NewFalClient(genai.FalOptions{
		APIKey:  cfg.FalAPIKey,
		BaseURL: cfg.FalBaseURL,
	}, store, logger)
	return genai.NewBreakerUpscaler(client, logger)
}

// ProvideDownloadCoordinator creates the asset download packager
func ProvideDownloadCoordinator(logger *zap.Logger) ports.DownloadCoordinator {
	return download.NewPackager(logger)
}

// ProvideSelectionStore creates the selection share store
func ProvideSelectionStore(ws *workspace.Workspace) *services.SelectionShareStore {
	return services.NewSelectionShareStore(ws)
}

// ProvidePasteIngestor creates the clipboard paste ingestor
func ProvidePasteIngestor(
	ws *workspace.Workspace,
	store ports.AssetStore,
	meter ports.ImageMeter,
	logger *zap.Logger,
	metrics *observability.Collector,
) *services.PasteIngestor {
	return services.NewPasteIngestor(ws, store, meter, logger, metrics)
}

// ProvideGenerateWorkflow creates the image generation workflow
func ProvideGenerateWorkflow(
	ws *workspace.Workspace,
	generator ports.ImageGenerator,
	meter ports.ImageMeter,
	logger *zap.Logger,
	metrics *observability.Collector,
) *workflows.GenerateWorkflow {
	return workflows.NewGenerateWorkflow(ws, generator, meter, logger, metrics)
}

// ProvideEditWorkflow creates the image editing workflow
func ProvideEditWorkflow(
	ws *workspace.Workspace,
	editor ports.ImageEditor,
	meter ports.ImageMeter,
	domainCfg *domconfig.DomainConfig,
	logger *zap.Logger,
	metrics *observability.Collector,
) *workflows.EditWorkflow {
	return workflows.NewEditWorkflow(ws, editor, meter, domainCfg, logger, metrics)
}

// ProvideUpscaleWorkflow creates the image upscaling workflow
func ProvideUpscaleWorkflow(
	ws *workspace.Workspace,
	upscaler ports.Upscaler,
	domainCfg *domconfig.DomainConfig,
	logger *zap.Logger,
	metrics *observability.Collector,
) *workflows.UpscaleWorkflow {
	return workflows.NewUpscaleWorkflow(ws, upscaler, domainCfg, logger, metrics)
}

// ProvideOrchestrator bundles the asset workflows
func ProvideOrchestrator(
	generate *workflows.GenerateWorkflow,
	edit *workflows.EditWorkflow,
	upscale *workflows.UpscaleWorkflow,
) *workflows.Orchestrator {
	return workflows.NewOrchestrator(generate, edit, upscale)
}
