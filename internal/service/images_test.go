// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/happenlist/happenlist/internal/config"
	"github.com/happenlist/happenlist/internal/model"
)

// A source URL already under our own upload prefix must come back
// unchanged without any download attempt. The service here has no
// database and no reachable network, so anything beyond the prefix check
// would fail loudly.
func TestRehostOwnURLReturnsUnchanged(t *testing.T) {
	cfg := &config.Config{
		SiteURL:    "https://happenlist.example",
		UploadsDir: t.TempDir(),
	}
	svc := NewImageService(nil, cfg)

	src := cfg.UploadBaseURL() + "flyers/banner.png"
	img, err := svc.Rehost(context.Background(), src, model.ImageTypeHero)
	if err != nil {
		t.Fatalf("Rehost(%q): %v", src, err)
	}
	if img.PublicURL != src {
		t.Errorf("public URL = %q, want %q unchanged", img.PublicURL, src)
	}
}

func TestRehostRejectsUnknownImageType(t *testing.T) {
	cfg := &config.Config{
		SiteURL:    "https://happenlist.example",
		UploadsDir: t.TempDir(),
	}
	svc := NewImageService(nil, cfg)

	if _, err := svc.Rehost(context.Background(), "https://happenlist.example/uploads/x.png", "poster"); err == nil {
		t.Error("unknown image type accepted")
	}
}
