// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/happenlist/happenlist/internal/model"
	"github.com/happenlist/happenlist/internal/service"
	"github.com/happenlist/happenlist/internal/store"
)

// ImageResponse represents a stored image in API responses.
type ImageResponse struct {
	UUID      string    `json:"uuid"`
	Filename  string    `json:"filename"`
	ImageType string    `json:"image_type"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	Width     *int32    `json:"width,omitempty"`
	Height    *int32    `json:"height,omitempty"`
	SourceURL string    `json:"source_url,omitempty"`
	PublicURL string    `json:"public_url"`
	CreatedAt time.Time `json:"created_at"`
}

func storeImageToResponse(img store.Image) ImageResponse {
	resp := ImageResponse{
		UUID:      img.UUID,
		Filename:  img.Filename,
		ImageType: img.ImageType,
		MimeType:  img.MimeType,
		Size:      img.Size,
		PublicURL: img.PublicURL,
		CreatedAt: img.CreatedAt,
	}
	if img.Width.Valid {
		resp.Width = &img.Width.Int32
	}
	if img.Height.Valid {
		resp.Height = &img.Height.Int32
	}
	if img.SourceURL.Valid {
		resp.SourceURL = img.SourceURL.String
	}
	return resp
}

// UploadImage handles POST /api/v1/images: a multipart upload with a "file"
// part and an optional "type" field (hero by default). The image is
// re-encoded server-side, which strips metadata.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(service.MaxImageBytes); err != nil {
		WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "Missing 'file' part", nil)
		return
	}
	defer func() { _ = file.Close() }()

	imageType := r.FormValue("type")
	if imageType == "" {
		imageType = model.ImageTypeHero
	}

	img, err := h.images.Upload(r.Context(), file, header.Filename, imageType)
	if err != nil {
		writeImageError(w, err)
		return
	}
	WriteCreated(w, storeImageToResponse(img))
}

// RehostImageRequest is the request body for importing an image: either a
// remote source URL to re-host, or an inline base64 payload.
type RehostImageRequest struct {
	SourceURL string `json:"source_url" validate:"required_without=Data,omitempty,url"`
	Data      string `json:"data" validate:"required_without=SourceURL,omitempty,base64"`
	Filename  string `json:"filename" validate:"omitempty,max=255"`
	Type      string `json:"type" validate:"omitempty"`
}

// RehostImage handles POST /api/v1/images/rehost and /api/v1/images/upload:
// fetches a remote image (or decodes an inline base64 payload) and stores a
// local copy. Already-rehosted source URLs return the existing record
// instead of downloading again.
func (h *Handler) RehostImage(w http.ResponseWriter, r *http.Request) {
	var req RehostImageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	imageType := req.Type
	if imageType == "" {
		imageType = model.ImageTypeHero
	}

	var (
		img store.Image
		err error
	)
	switch {
	case req.SourceURL != "":
		img, err = h.images.Rehost(r.Context(), req.SourceURL, imageType)
	default:
		var raw []byte
		raw, err = base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			WriteBadRequest(w, "Invalid base64 payload", nil)
			return
		}
		filename := req.Filename
		if filename == "" {
			filename = "inline-upload"
		}
		img, err = h.images.Upload(r.Context(), bytes.NewReader(raw), filename, imageType)
	}
	if err != nil {
		writeImageError(w, err)
		return
	}
	WriteSuccess(w, storeImageToResponse(img), nil)
}

// GetImage handles GET /api/v1/images/{uuid}.
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	img, err := h.images.Get(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		writeServiceError(w, err, "image")
		return
	}
	WriteSuccess(w, storeImageToResponse(img), nil)
}

// DeleteImage handles DELETE /api/v1/images/{uuid}: removes the record and
// all stored variants.
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if err := h.images.Delete(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		writeServiceError(w, err, "image")
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// writeImageError maps image pipeline failures onto responses. Almost every
// failure here is caused by the input, so default to 422 rather than 500.
func writeImageError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrForbidden) {
		writeServiceError(w, err, "image")
		return
	}
	WriteError(w, http.StatusUnprocessableEntity, "image_rejected", err.Error(), nil)
}
