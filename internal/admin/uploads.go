package admin

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/vistara-fest/backend/internal/models"
)

// Upload sends a file to the upload service. slot names the form field waiting for it and
// is marked uploading until the call returns.
func (p *Panel) Upload(ctx context.Context, slot, folder, filename string, r io.Reader) (models.MediaAsset, error) {
	p.setUploading(slot, true)
	defer p.setUploading(slot, false)

	asset, err := p.api.Upload(ctx, folder, filename, r)
	if err != nil {
		p.logger.Error("upload failed", zap.String("slot", slot), zap.String("folder", folder), zap.Error(err))
		p.ui.Alert("Upload failed. Please try again.")
		return models.MediaAsset{}, err
	}
	return asset, nil
}

func (p *Panel) setUploading(slot string, on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if on {
		p.uploading[slot] = true
		return
	}
	delete(p.uploading, slot)
}

// Uploading reports whether slot has an upload in flight.
func (p *Panel) Uploading(slot string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uploading[slot]
}

// CanSubmit is false while any upload is in flight.
func (p *Panel) CanSubmit() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.uploading) == 0
}
