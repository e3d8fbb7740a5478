// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides shared HTTP handler helpers plus the non-JSON
// endpoints: health checks, sitemap.xml, and robots.txt.
package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Pagination bounds shared by every listing endpoint.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// ParseIDParam extracts and validates the {id} URL parameter.
func ParseIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// ParsePagination reads page and per_page from the query string, clamped
// to sane bounds.
func ParsePagination(r *http.Request) (page int, perPage int32) {
	page = 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	perPage = DefaultPerPage
	if raw := r.URL.Query().Get("per_page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			perPage = int32(n)
			if perPage > MaxPerPage {
				perPage = MaxPerPage
			}
		}
	}

	return page, perPage
}

// TotalPages computes the page count for a pagination meta block. An empty
// result set has zero pages, and the meta block omits the field.
func TotalPages(total int64, perPage int32) int {
	if perPage <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
