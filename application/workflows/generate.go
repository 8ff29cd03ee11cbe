package workflows

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"mediagraph/application/ports"
	"mediagraph/application/workspace"
	"mediagraph/domain/canvas"
	"mediagraph/domain/core/valueobjects"
	"mediagraph/pkg/errors"
	"mediagraph/pkg/observability"
)

// GenerateStaging holds a generation result awaiting Accept or Discard.
type GenerateStaging struct {
	Prompt string `json:"prompt"`
	URL    string `json:"url"`
}

// GenerateWorkflow turns a text prompt into an image node. The graph is
// untouched until Accept; Discard and Regenerate leave it untouched too.
type GenerateWorkflow struct {
	*machine

	ws        *workspace.Workspace
	generator ports.ImageGenerator
	meter     ports.ImageMeter
	logger    *zap.Logger
	metrics   *observability.Collector

	stagingMu sync.Mutex
	staging   *GenerateStaging
}

func NewGenerateWorkflow(ws *workspace.Workspace, generator ports.ImageGenerator, meter ports.ImageMeter, logger *zap.Logger, metrics *observability.Collector) *GenerateWorkflow {
	return &GenerateWorkflow{
		machine:   newMachine(),
		ws:        ws,
		generator: generator,
		meter:     meter,
		logger:    logger,
		metrics:   metrics,
	}
}

// Submit validates the prompt, calls the generation service and stages the
// result. It blocks for the duration of the call.
func (w *GenerateWorkflow) Submit(ctx context.Context, prompt string) error {
	if prompt == "" {
		return errors.NewValidationError("prompt is required")
	}
	if err := w.begin(); err != nil {
		return err
	}

	w.logger.Info("generation submitted", zap.Int("promptLen", len(prompt)))
	result, err := w.generator.Generate(ctx, prompt)
	if err != nil {
		w.fail(err)
		w.metrics.RecordWorkflow("generate", "failed")
		return err
	}

	w.stagingMu.Lock()
	w.staging = &GenerateStaging{Prompt: prompt, URL: result.URL}
	w.stagingMu.Unlock()

	w.succeed()
	w.metrics.RecordWorkflow("generate", "succeeded")
	return nil
}

// Staging returns the pending result, or nil when nothing is staged.
func (w *GenerateWorkflow) Staging() *GenerateStaging {
	w.stagingMu.Lock()
	defer w.stagingMu.Unlock()
	if w.staging == nil {
		return nil
	}
	copied := *w.staging
	return &copied
}

// Accept adds the staged image to the canvas as a new centered node and
// resets the workflow. It applies the graph mutation exactly once.
func (w *GenerateWorkflow) Accept(ctx context.Context) (string, error) {
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
		return "", errors.NewConflictError("no generated image to accept")
	}

	asset := valueobjects.AssetDescriptor{
		URL:      staged.URL,
		FileName: fmt.Sprintf("generated-%d.png", time.Now().UnixMilli()),
	}
	profile := canvas.ProfileGenerated

	spec := workspace.NodeSpec{
		Kind:             valueobjects.KindImage,
		Asset:            asset,
		Label:            generatedLabel("Generated", staged.Prompt),
		ProvenancePrompt: staged.Prompt,
		Profile:          &profile,
	}

	if dims, err := w.meter.MeasureURL(ctx, staged.URL); err == nil {
		spec.Asset.Width = dims.Width
		spec.Asset.Height = dims.Height
	} else {
		// Unmeasurable results still land on the canvas at a fixed size.
		w.logger.Debug("generated image measurement failed", zap.Error(err))
		size := valueobjects.Dimensions{Width: 200, Height: 150}
		spec.Size = &size
	}

	nodeID, err := w.ws.AddNodeCentered(spec)
	if err != nil {
		return "", err
	}

	w.reset()
	w.logger.Info("generated image accepted", zap.String("nodeID", nodeID))
	return nodeID, nil
}

// Discard drops the staged result without touching the graph.
func (w *GenerateWorkflow) Discard() {
	w.stagingMu.Lock()
	w.staging = nil
	w.stagingMu.Unlock()
	w.reset()
}

// Regenerate re-submits the prompt of the staged result, replacing it.
func (w *GenerateWorkflow) Regenerate(ctx context.Context) error {
	w.stagingMu.Lock()
	staged := w.staging
	w.stagingMu.Unlock()

	if staged == nil {
		return errors.NewConflictError("nothing to regenerate")
	}
	return w.Submit(ctx, staged.Prompt)
}

// Suggest returns refined prompt variants for the given draft prompt.
func (w *GenerateWorkflow) Suggest(ctx context.Context, prompt string) ([]string, error) {
	if prompt == "" {
		return nil, errors.NewValidationError("prompt is required")
	}
	return w.generator.Suggest(ctx, prompt)
}

// generatedLabel builds a node label from the first 30 runes of a prompt.
func generatedLabel(verb, prompt string) string {
	runes := []rune(prompt)
	if len(runes) > 30 {
		return fmt.Sprintf("%s: %s...", verb, string(runes[:30]))
	}
	return fmt.Sprintf("%s: %s", verb, prompt)
}
