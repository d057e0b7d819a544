package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/vistara-fest/backend/internal/models"
)

// Content fields editable with UpdateField.
const (
	FieldHeroTitle           = "heroTitle"
	FieldHeroSubtitle        = "heroSubtitle"
	FieldHeroBackgroundMedia = "heroBackgroundMedia"
	FieldMarqueeText         = "marqueeText"
	FieldEventDate           = "eventDate"
	FieldUPIID               = "upiId"
	FieldQRCodeURL           = "qrCodeUrl"
)

// SaveContent writes the whole content document. Media fields are normalized first. With
// notify set a confirmation is shown on success. A failure is reported but the local
// content is kept.
func (p *Panel) SaveContent(ctx context.Context, notify bool) error {
	p.state.Content = p.state.Content.Normalized()
	if err := p.api.SaveContent(ctx, p.state.Content); err != nil {
		p.logger.Error("save content failed", zap.Error(err))
		p.ui.Alert("Error saving content: " + errorMessage(err))
		return err
	}
	if notify {
		p.ui.Alert("Changes Saved to Database!")
	}
	return nil
}

// UpdateContent applies mutate to the content and saves it.
func (p *Panel) UpdateContent(ctx context.Context, mutate func(*models.Content), notify bool) error {
	mutate(&p.state.Content)
	return p.SaveContent(ctx, notify)
}

// UpdateField sets one text field, or the hero media from a URL, and saves silently.
func (p *Panel) UpdateField(ctx context.Context, field, value string) error {
	var set func(*models.Content)
	switch field {
	case FieldHeroTitle:
		set = func(c *models.Content) { c.HeroTitle = value }
	case FieldHeroSubtitle:
		set = func(c *models.Content) { c.HeroSubtitle = value }
	case FieldMarqueeText:
		set = func(c *models.Content) { c.MarqueeText = value }
	case FieldEventDate:
		set = func(c *models.Content) { c.EventDate = value }
	case FieldUPIID:
		set = func(c *models.Content) { c.UPIID = value }
	case FieldQRCodeURL:
		set = func(c *models.Content) { c.QRCodeURL = value }
	case FieldHeroBackgroundMedia:
		set = func(c *models.Content) {
			url := strings.TrimSpace(value)
			if url == "" {
				c.HeroBackgroundMedia = nil
				return
			}
			m := models.NewMediaAsset(url)
			c.HeroBackgroundMedia = &m
		}
	default:
		return fmt.Errorf("%w: unknown content field %q", ErrValidation, field)
	}
	return p.UpdateContent(ctx, set, false)
}

// UpdatePrice sets the price of tier from raw input and saves silently. Input that does not
// start with a number is stored as 0.
func (p *Panel) UpdatePrice(ctx context.Context, tier, raw string) error {
	price := parseLeadingInt(raw)
	if _, ok := p.state.Content.TicketPrices.Get(tier); !ok {
		return fmt.Errorf("%w: unknown ticket tier %q", ErrValidation, tier)
	}
	return p.UpdateContent(ctx, func(c *models.Content) {
		_ = c.TicketPrices.Set(tier, price)
	}, false)
}

// AddGalleryItem appends an image with the given URL and saves silently. Blank input is ignored.
func (p *Panel) AddGalleryItem(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	return p.UpdateContent(ctx, func(c *models.Content) {
		c.GalleryImages = append(c.GalleryImages, models.MediaAsset{URL: url, Type: models.MediaImage})
	}, false)
}

// DeleteGalleryItem removes the gallery entry at index after confirmation and saves silently.
func (p *Panel) DeleteGalleryItem(ctx context.Context, index int) error {
	if index < 0 || index >= len(p.state.Content.GalleryImages) {
		return fmt.Errorf("%w: no gallery item at %d", ErrValidation, index)
	}
	if !p.ui.Confirm("Delete this image permanently?") {
		return ErrCancelled
	}
	return p.UpdateContent(ctx, func(c *models.Content) {
		next := make([]models.MediaAsset, 0, len(c.GalleryImages)-1)
		next = append(next, c.GalleryImages[:index]...)
		c.GalleryImages = append(next, c.GalleryImages[index+1:]...)
	}, false)
}

// parseLeadingInt reads an optionally signed integer prefix, ignoring leading spaces.
// Anything unparsable yields 0.
func parseLeadingInt(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
