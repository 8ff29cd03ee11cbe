package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"mediagraph/application/ports"
	"mediagraph/application/workspace"
	"mediagraph/domain/canvas"
	"mediagraph/domain/core/valueobjects"
	"mediagraph/pkg/errors"
	"mediagraph/pkg/observability"
)

// ClipboardItem is one entry of a pasted clipboard payload.
type ClipboardItem struct {
	MediaType string
	Data      []byte
}

// PasteResult reports whether a paste was consumed and which node it
// produced.
type PasteResult struct {
	Handled bool
	NodeID  string
}

// PasteIngestor turns pasted image data into image nodes. One paste yields
// at most one node: the first image item wins and the rest of the payload
// is ignored.
type PasteIngestor struct {
	ws      *workspace.Workspace
	store   ports.AssetStore
	meter   ports.ImageMeter
	logger  *zap.Logger
	metrics *observability.Collector

	inflight atomic.Int32
}

func NewPasteIngestor(ws *workspace.Workspace, store ports.AssetStore, meter ports.ImageMeter, logger *zap.Logger, metrics *observability.Collector) *PasteIngestor {
	return &PasteIngestor{
		ws:      ws,
		store:   store,
		meter:   meter,
		logger:  logger,
		metrics: metrics,
	}
}

// Busy reports whether any paste upload is still in flight. Multiple pastes
// may overlap; the flag clears when the last one settles.
func (p *PasteIngestor) Busy() bool {
	return p.inflight.Load() > 0
}

// Ingest scans the clipboard payload for the first image item, uploads it
// and adds an image node centered in the viewport. A payload without any
// image item is not consumed (Handled false, no error), leaving it to the
// default paste behavior.
func (p *PasteIngestor) Ingest(ctx context.Context, items []ClipboardItem) (PasteResult, error) {
	var picked *ClipboardItem
	for i := range items {
		if strings.HasPrefix(items[i].MediaType, "image/") && len(items[i].Data) > 0 {
			picked = &items[i]
			break
		}
	}
	if picked == nil {
		return PasteResult{Handled: false}, nil
	}

	p.inflight.Add(1)
	defer p.inflight.Add(-1)

	name := fmt.Sprintf("pasted-image-%d.png", time.Now().UnixMilli())
	uploaded, err := p.store.Upload(ctx, picked.Data, name, picked.MediaType, "canvas")
	if err != nil {
		p.metrics.RecordPaste("failed")
		p.logger.Warn("paste upload failed", zap.Error(err))
		return PasteResult{Handled: true}, errors.Wrap(err, "paste upload failed")
	}

	asset := valueobjects.AssetDescriptor{URL: uploaded.URL, FileName: name}
	profile := canvas.ProfileManual

	// Undecodable bytes still become a node; they just get the default
	// image footprint instead of a fitted one.
	if dims, err := p.meter.MeasureBytes(picked.Data); err == nil {
		asset.Width = dims.Width
		asset.Height = dims.Height
	} else {
		p.logger.Debug("paste measurement failed, using default size", zap.Error(err))
	}

	if err := ctx.Err(); err != nil {
		p.metrics.RecordPaste("canceled")
		return PasteResult{Handled: true}, errors.Wrap(err, "paste canceled")
	}

	nodeID, err := p.ws.AddNodeCentered(workspace.NodeSpec{
		Kind:    valueobjects.KindImage,
		Asset:   asset,
		Profile: &profile,
	})
	if err != nil {
		p.metrics.RecordPaste("failed")
		return PasteResult{Handled: true}, err
	}

	p.metrics.RecordPaste("succeeded")
	p.logger.Info("pasted image added", zap.String("nodeID", nodeID), zap.String("url", uploaded.URL))
	return PasteResult{Handled: true, NodeID: nodeID}, nil
}
