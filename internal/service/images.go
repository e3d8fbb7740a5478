// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/happenlist/happenlist/internal/config"
	"github.com/happenlist/happenlist/internal/imaging"
	"github.com/happenlist/happenlist/internal/model"
	"github.com/happenlist/happenlist/internal/store"
	"github.com/happenlist/happenlist/internal/util"
)

// Upload limits.
const (
	// MaxImageBytes caps both direct uploads and re-host downloads.
	MaxImageBytes = 10 << 20 // 10 MiB

	rehostTimeout = 15 * time.Second
)

// ImageService stores uploaded flyers and re-hosts images referenced by
// URL. Remote fetches go through an SSRF-guarded client that refuses
// private address ranges even after redirects.
type ImageService struct {
	queries   *store.Queries
	processor *imaging.Processor
	cfg       *config.Config
	client    *http.Client
}

// NewImageService creates a new ImageService writing under the configured
// uploads directory.
func NewImageService(db *sql.DB, cfg *config.Config) *ImageService {
	transport := &http.Transport{
		DialContext: util.SSRFSafeDialContext(&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}),
		MaxIdleConns:        10,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &ImageService{
		queries:   store.New(db),
		processor: imaging.NewProcessor(cfg.UploadsDir),
		cfg:       cfg,
		client: &http.Client{
			Transport: transport,
			Timeout:   rehostTimeout,
		},
	}
}

// Upload processes a directly uploaded image: decode, strip metadata,
// generate variants, and record it. imageType picks the sizing profile.
func (s *ImageService) Upload(ctx context.Context, r io.Reader, filename, imageType string) (store.Image, error) {
	if !model.IsValidImageType(imageType) {
		return store.Image{}, fmt.Errorf("unknown image type %q", imageType)
	}
	return s.process(ctx, io.LimitReader(r, MaxImageBytes+1), filename, imageType, "")
}

// Rehost downloads a remote image and stores a local copy. URLs already
// under our own upload prefix are returned as-is; a source URL seen
// before returns the existing copy instead of downloading again.
func (s *ImageService) Rehost(ctx context.Context, sourceURL, imageType string) (store.Image, error) {
	if !model.IsValidImageType(imageType) {
		return store.Image{}, fmt.Errorf("unknown image type %q", imageType)
	}

	// Our own uploads never need re-hosting. When the URL resolves to a
	// tracked row we return that; otherwise the URL goes back unchanged,
	// never through a download.
	if strings.HasPrefix(sourceURL, s.cfg.UploadBaseURL()) {
		if img, err := s.lookupByPublicURL(ctx, sourceURL); err == nil {
			return img, nil
		}
		return store.Image{PublicURL: sourceURL, ImageType: imageType}, nil
	}

	if existing, err := s.queries.GetImageBySourceURL(ctx, sourceURL); err == nil {
		return existing, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return store.Image{}, fmt.Errorf("check existing image: %w", err)
	}

	if err := util.ValidateFetchURL(sourceURL); err != nil {
		return store.Image{}, fmt.Errorf("refusing to fetch %q: %w", sourceURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return store.Image{}, fmt.Errorf("build fetch request: %w", err)
	}
	req.Header.Set("User-Agent", "Happenlist-ImageBot/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return store.Image{}, fmt.Errorf("fetch image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return store.Image{}, fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, _ := mime.ParseMediaType(ct)
		if mediaType != "" && !model.IsSupportedMimeType(mediaType) {
			return store.Image{}, fmt.Errorf("unsupported content type %q", mediaType)
		}
	}

	filename := path.Base(req.URL.Path)
	if filename == "/" || filename == "." || filename == "" {
		filename = "image.jpg"
	}

	img, err := s.process(ctx, io.LimitReader(resp.Body, MaxImageBytes+1), filename, imageType, sourceURL)
	if err != nil {
		return store.Image{}, err
	}

	slog.Info("image re-hosted", "uuid", img.UUID, "source", sourceURL)
	return img, nil
}

// Get returns one stored image by UUID.
func (s *ImageService) Get(ctx context.Context, id string) (store.Image, error) {
	img, err := s.queries.GetImageByUUID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Image{}, ErrNotFound
		}
		return store.Image{}, fmt.Errorf("get image: %w", err)
	}
	return img, nil
}

// Delete removes the DB row and every file variant.
func (s *ImageService) Delete(ctx context.Context, id string) error {
	if err := s.queries.DeleteImage(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete image: %w", err)
	}
	if err := s.processor.DeleteImageFiles(id); err != nil {
		slog.Error("failed to delete image files", "uuid", id, "error", err)
	}
	return nil
}

// process runs the shared pipeline: decode/strip/save, build variants,
// record the row.
func (s *ImageService) process(ctx context.Context, r io.Reader, filename, imageType, sourceURL string) (store.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return store.Image{}, fmt.Errorf("read image: %w", err)
	}
	if len(data) > MaxImageBytes {
		return store.Image{}, fmt.Errorf("image exceeds %d byte limit", MaxImageBytes)
	}

	mimeType := s.processor.DetectMimeType(data)
	if !model.IsSupportedMimeType(mimeType) {
		return store.Image{}, fmt.Errorf("unsupported image format")
	}

	id := uuid.New().String()

	result, err := s.processor.ProcessImage(bytes.NewReader(data), id, filename)
	if err != nil {
		return store.Image{}, fmt.Errorf("process image: %w", err)
	}

	if _, err := s.processor.CreateAllVariants(result.FilePath, id, filename); err != nil {
		slog.Warn("variant generation incomplete", "uuid", id, "error", err)
	}

	img, err := s.queries.CreateImage(ctx, store.CreateImageParams{
		UUID:      id,
		Filename:  filename,
		ImageType: imageType,
		MimeType:  result.MimeType,
		Size:      result.Size,
		Width:     sql.NullInt32{Int32: int32(result.Width), Valid: true},
		Height:    sql.NullInt32{Int32: int32(result.Height), Valid: true},
		SourceURL: util.NullStringFromValue(sourceURL),
		PublicURL: s.cfg.UploadBaseURL() + path.Join("originals", id, filename),
	})
	if err != nil {
		// Roll the files back so orphans don't accumulate
		_ = s.processor.DeleteImageFiles(id)
		return store.Image{}, fmt.Errorf("record image: %w", err)
	}

	return img, nil
}

// lookupByPublicURL resolves one of our own upload URLs back to its row.
func (s *ImageService) lookupByPublicURL(ctx context.Context, publicURL string) (store.Image, error) {
	// Public URLs look like <base>/originals/<uuid>/<filename>
	rest := strings.TrimPrefix(publicURL, s.cfg.UploadBaseURL())
	parts := strings.Split(rest, "/")
	if len(parts) >= 2 && parts[0] == "originals" {
		if img, err := s.queries.GetImageByUUID(ctx, parts[1]); err == nil {
			return img, nil
		}
	}
	return store.Image{}, ErrNotFound
}
