// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Image types accepted by the upload endpoint. Each type maps to a sizing
// profile in ImageVariants.
const (
	ImageTypeHero      = "hero"
	ImageTypeThumbnail = "thumbnail"
	ImageTypeFlyer     = "flyer"
)

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// ImageVariantConfig defines settings for generating image variants.
type ImageVariantConfig struct {
	Width   int
	Height  int
	Quality int
	Crop    bool // true = crop to exact size, false = fit within bounds
}

// ImageVariants defines the sizing profile per image type.
var ImageVariants = map[string]ImageVariantConfig{
	ImageTypeHero:      {Width: 1920, Height: 1080, Quality: 90, Crop: false},
	ImageTypeThumbnail: {Width: 400, Height: 300, Quality: 80, Crop: true},
	ImageTypeFlyer:     {Width: 1200, Height: 1600, Quality: 85, Crop: false},
}

// IsValidImageType reports whether t names a known image type.
func IsValidImageType(t string) bool {
	_, ok := ImageVariants[t]
	return ok
}

// IsSupportedMimeType reports whether the MIME type may be uploaded.
func IsSupportedMimeType(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	}
	return false
}
