package models

import "fmt"

// TicketPrices holds the pass price per tier in whole rupees.
type TicketPrices struct {
	Diamond int `json:"diamond" bson:"diamond"`
	Gold    int `json:"gold" bson:"gold"`
	Silver  int `json:"silver" bson:"silver"`
}

// Set writes the price for tier.
func (p *TicketPrices) Set(tier string, price int) error {
	switch tier {
	case TierDiamond:
		p.Diamond = price
	case TierGold:
		p.Gold = price
	case TierSilver:
		p.Silver = price
	default:
		return fmt.Errorf("unknown ticket tier %q", tier)
	}
	return nil
}

// Get returns the price for tier.
func (p TicketPrices) Get(tier string) (int, bool) {
	switch tier {
	case TierDiamond:
		return p.Diamond, true
	case TierGold:
		return p.Gold, true
	case TierSilver:
		return p.Silver, true
	}
	return 0, false
}

// Content is the singleton site configuration: hero, marquee, prices, payment details and gallery.
type Content struct {
	HeroTitle           string       `json:"heroTitle" bson:"heroTitle"`
	HeroSubtitle        string       `json:"heroSubtitle" bson:"heroSubtitle"`
	HeroBackgroundMedia *MediaAsset  `json:"heroBackgroundMedia" bson:"heroBackgroundMedia"`
	MarqueeText         string       `json:"marqueeText" bson:"marqueeText"`
	EventDate           string       `json:"eventDate" bson:"eventDate"`
	TicketPrices        TicketPrices `json:"ticketPrices" bson:"ticketPrices"`
	UPIID               string       `json:"upiId" bson:"upiId"`
	QRCodeURL           string       `json:"qrCodeUrl" bson:"qrCodeUrl"`
	GalleryImages       []MediaAsset `json:"galleryImages" bson:"galleryImages"`
}

// Normalized returns a copy whose media fields are all object-form assets.
// Applying it to already normalized content changes nothing.
func (c Content) Normalized() Content {
	out := c
	out.GalleryImages = NormalizeMediaList(c.GalleryImages)
	out.HeroBackgroundMedia = NormalizeMediaPtr(c.HeroBackgroundMedia)
	return out
}

// Clone returns a deep copy of the content.
func (c Content) Clone() Content {
	out := c
	if c.HeroBackgroundMedia != nil {
		m := *c.HeroBackgroundMedia
		out.HeroBackgroundMedia = &m
	}
	if c.GalleryImages != nil {
		out.GalleryImages = append([]MediaAsset{}, c.GalleryImages...)
	}
	return out
}
