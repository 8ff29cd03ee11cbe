package workflows

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"mediagraph/application/ports"
	"mediagraph/application/workspace"
	domconfig "mediagraph/domain/config"
	"mediagraph/domain/core/valueobjects"
	"mediagraph/pkg/errors"
	"mediagraph/pkg/observability"
)

// UpscaleStaging holds an upscale result awaiting Accept or Discard.
type UpscaleStaging struct {
	SourceID string  `json:"sourceId"`
	Scale    float64 `json:"scale"`
	Model    string  `json:"model"`
	URL      string  `json:"url"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
}

// UpscaleWorkflow increases the resolution of exactly one image node. The
// result always lands as a new node sized to its output dimensions; when
// the service does not report them, they are extrapolated from the source
// node's size and the requested scale.
type UpscaleWorkflow struct {
	*machine

	ws       *workspace.Workspace
	upscaler ports.Upscaler
	cfg      *domconfig.DomainConfig
	logger   *zap.Logger
	metrics  *observability.Collector

	stagingMu sync.Mutex
	staging   *UpscaleStaging
}

func NewUpscaleWorkflow(ws *workspace.Workspace, upscaler ports.Upscaler, cfg *domconfig.DomainConfig, logger *zap.Logger, metrics *observability.Collector) *UpscaleWorkflow {
	return &UpscaleWorkflow{
		machine:  newMachine(),
		ws:       ws,
		upscaler: upscaler,
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
	}
}

// Models lists the upscaling models the service accepts.
func (w *UpscaleWorkflow) Models() []string {
	return append([]string(nil), w.cfg.UpscaleModels...)
}

// Scales lists the accepted scale factors.
func (w *UpscaleWorkflow) Scales() []float64 {
	return append([]float64(nil), w.cfg.UpscaleScales...)
}

// Submit validates the request, calls the upscaling service on the source
// node's asset and stages the result.
func (w *UpscaleWorkflow) Submit(ctx context.Context, sourceID string, scale float64, model string) error {
	if !w.cfg.ValidScale(scale) {
		return errors.NewValidationError(fmt.Sprintf("unsupported scale %g", scale))
	}
	if !w.cfg.ValidUpscaleModel(model) {
		return errors.NewValidationError(fmt.Sprintf("unsupported model %q", model))
	}

	view, err := w.ws.Node(sourceID)
	if err != nil {
		return err
	}
	if view.Kind != valueobjects.KindImage || view.AssetURL == "" {
		return errors.NewValidationError("source node is not an image with an asset")
	}

	if err := w.begin(); err != nil {
		return err
	}

	w.logger.Info("upscale submitted",
		zap.String("sourceID", sourceID),
		zap.Float64("scale", scale),
		zap.String("model", model),
	)
	result, err := w.upscaler.Upscale(ctx, view.AssetURL, scale, model)
	if err != nil {
		w.fail(err)
		w.metrics.RecordWorkflow("upscale", "failed")
		return err
	}

	w.stagingMu.Lock()
	w.staging = &UpscaleStaging{
		SourceID: sourceID,
		Scale:    scale,
		Model:    model,
		URL:      result.URL,
		Width:    result.Width,
		Height:   result.Height,
	}
	w.stagingMu.Unlock()

	w.succeed()
	w.metrics.RecordWorkflow("upscale", "succeeded")
	return nil
}

// Staging returns the pending result, or nil when nothing is staged.
func (w *UpscaleWorkflow) Staging() *UpscaleStaging {
	w.stagingMu.Lock()
	defer w.stagingMu.Unlock()
	if w.staging == nil {
		return nil
	}
	copied := *w.staging
	return &copied
}

// Accept adds the staged upscale as a new centered node and resets the
// workflow.
func (w *UpscaleWorkflow) Accept(ctx context.Context) (string, error) {
	// A dismissed dialog must not consume the staged result; it stays
	// available for a later Accept.
	if err := ctx.Err(); err != nil {
		return "", err
	}

	w.stagingMu.Lock()
	staged := w.staging
	w.staging = nil
	w.stagingMu.Unlock()

	if staged == nil {
		return "", errors.NewConflictError("no upscaled image to accept")
	}

	size := valueobjects.Dimensions{
		Width:  float64(staged.Width),
		Height: float64(staged.Height),
	}
	if !size.Positive() {
		// Service omitted output dimensions; project the source node's
		// on-canvas size by the requested scale instead.
		source, err := w.ws.Node(staged.SourceID)
		if err != nil {
			return "", err
		}
		size = source.Size.Scale(staged.Scale)
	}

	spec := workspace.NodeSpec{
		Kind: valueobjects.KindImage,
		Asset: valueobjects.AssetDescriptor{
			URL:      staged.URL,
			FileName: fmt.Sprintf("upscaled-%d.png", time.Now().UnixMilli()),
		},
		Label: "Upscaled Image",
		Size:  &size,
	}

	nodeID, err := w.ws.AddNodeCentered(spec)
	if err != nil {
		return "", err
	}

	w.reset()
	w.logger.Info("upscale accepted", zap.String("nodeID", nodeID))
	return nodeID, nil
}

// Discard drops the staged result without touching the graph.
func (w *UpscaleWorkflow) Discard() {
	w.stagingMu.Lock()
	w.staging = nil
	w.stagingMu.Unlock()
	w.reset()
}

// Regenerate re-runs the staged request against the same source node.
func (w *UpscaleWorkflow) Regenerate(ctx context.Context) error {
	w.stagingMu.Lock()
	staged := w.staging
	w.stagingMu.Unlock()

	if staged == nil {
		return errors.NewConflictError("nothing to regenerate")
	}
	return w.Submit(ctx, staged.SourceID, staged.Scale, staged.Model)
}
