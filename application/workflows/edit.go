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
	domconfig "mediagraph/domain/config"
	"mediagraph/domain/core/entities"
	"mediagraph/domain/core/valueobjects"
	"mediagraph/pkg/errors"
	"mediagraph/pkg/observability"
)

// EditStaging holds an edit result awaiting Accept or Discard. SourceIDs
// keep submission order; the first one is the replacement target.
type EditStaging struct {
	Instruction string   `json:"instruction"`
	SourceIDs   []string `json:"sourceIds"`
	URL         string   `json:"url"`
}

// EditWorkflow edits or combines up to MaxEditSources existing image nodes
// according to an instruction. The result can either replace the first
// source node in place or land as a new node.
type EditWorkflow struct {
	*machine

	ws      *workspace.Workspace
	editor  ports.ImageEditor
	meter   ports.ImageMeter
	cfg     *domconfig.DomainConfig
	logger  *zap.Logger
	metrics *observability.Collector

	stagingMu sync.Mutex
	staging   *EditStaging
}

func NewEditWorkflow(ws *workspace.Workspace, editor ports.ImageEditor, meter ports.ImageMeter, cfg *domconfig.DomainConfig, logger *zap.Logger, metrics *observability.Collector) *EditWorkflow {
	return &EditWorkflow{
		machine: newMachine(),
		ws:      ws,
		editor:  editor,
		meter:   meter,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// Submit resolves the source nodes, sends their asset URLs in order to the
// editing service and stages the result. Sources beyond the configured
// maximum are dropped silently, keeping the leading ones.
func (w *EditWorkflow) Submit(ctx context.Context, sourceIDs []string, instruction string) error {
	if instruction == "" {
		return errors.NewValidationError("instruction is required")
	}
	if len(sourceIDs) == 0 {
		return errors.NewValidationError("at least one source image is required")
	}
	if len(sourceIDs) > w.cfg.MaxEditSources {
		sourceIDs = sourceIDs[:w.cfg.MaxEditSources]
	}

	urls := make([]string, 0, len(sourceIDs))
	kept := make([]string, 0, len(sourceIDs))
	for _, id := range sourceIDs {
		view, err := w.ws.Node(id)
		if err != nil {
			return err
		}
		if view.Kind != valueobjects.KindImage || view.AssetURL == "" {
			return errors.NewValidationError(fmt.Sprintf("node %s is not an image with an asset", id))
		}
		urls = append(urls, view.AssetURL)
		kept = append(kept, id)
	}

	if err := w.begin(); err != nil {
		return err
	}

	w.logger.Info("edit submitted", zap.Int("sources", len(urls)))
	result, err := w.editor.Edit(ctx, urls, instruction)
	if err != nil {
		w.fail(err)
		w.metrics.RecordWorkflow("edit", "failed")
		return err
	}

	w.stagingMu.Lock()
	w.staging = &EditStaging{Instruction: instruction, SourceIDs: kept, URL: result.URL}
	w.stagingMu.Unlock()

	w.succeed()
	w.metrics.RecordWorkflow("edit", "succeeded")
	return nil
}

// Staging returns the pending result, or nil when nothing is staged.
func (w *EditWorkflow) Staging() *EditStaging {
	w.stagingMu.Lock()
	defer w.stagingMu.Unlock()
	if w.staging == nil {
		return nil
	}
	copied := *w.staging
	copied.SourceIDs = append([]string(nil), w.staging.SourceIDs...)
	return &copied
}

// Accept applies the staged edit. With replace, the first source node
// swaps its asset in place, keeping its position and size; otherwise the
// result becomes a new centered node.
func (w *EditWorkflow) Accept(ctx context.Context, replace bool) (string, error) {
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
		return "", errors.NewConflictError("no edited image to accept")
	}

	fileName := fmt.Sprintf("edited-%d.png", time.Now().UnixMilli())
	label := generatedLabel("Edited", staged.Instruction)

	if replace {
		targetID := staged.SourceIDs[0]
		update := entities.NodeUpdate{
			AssetURL:         &staged.URL,
			Label:            &label,
			FileName:         &fileName,
			ProvenancePrompt: &staged.Instruction,
		}
		if err := w.ws.UpdateNode(targetID, update); err != nil {
			return "", err
		}
		w.reset()
		w.logger.Info("edit accepted in place", zap.String("nodeID", targetID))
		return targetID, nil
	}

	asset := valueobjects.AssetDescriptor{URL: staged.URL, FileName: fileName}
	profile := canvas.ProfileGenerated

	spec := workspace.NodeSpec{
		Kind:             valueobjects.KindImage,
		Asset:            asset,
		Label:            label,
		ProvenancePrompt: staged.Instruction,
		Profile:          &profile,
	}

	if dims, err := w.meter.MeasureURL(ctx, staged.URL); err == nil {
		spec.Asset.Width = dims.Width
		spec.Asset.Height = dims.Height
	} else {
		w.logger.Debug("edited image measurement failed", zap.Error(err))
		size := valueobjects.Dimensions{Width: 200, Height: 150}
		spec.Size = &size
	}

	nodeID, err := w.ws.AddNodeCentered(spec)
	if err != nil {
		return "", err
	}

	w.reset()
	w.logger.Info("edit accepted as new node", zap.String("nodeID", nodeID))
	return nodeID, nil
}

// Discard drops the staged result without touching the graph.
func (w *EditWorkflow) Discard() {
	w.stagingMu.Lock()
	w.staging = nil
	w.stagingMu.Unlock()
	w.reset()
}

// Regenerate re-submits the staged instruction against the same sources.
func (w *EditWorkflow) Regenerate(ctx context.Context) error {
	w.stagingMu.Lock()
	staged := w.staging
	w.stagingMu.Unlock()

	if staged == nil {
		return errors.NewConflictError("nothing to regenerate")
	}
	return w.Submit(ctx, staged.SourceIDs, staged.Instruction)
}
