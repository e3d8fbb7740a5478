// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
)

const createVenue = `
INSERT INTO venues (name, slug, address, city, rating, review_count)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, name, slug, address, city, rating, review_count, created_at, updated_at
`

type CreateVenueParams struct {
	Name        string
	Slug        string
	Address     string
	City        string
	Rating      sql.NullFloat64
	ReviewCount int32
}

func (q *Queries) CreateVenue(ctx context.Context, arg CreateVenueParams) (Venue, error) {
	row := q.db.QueryRowContext(ctx, createVenue,
		arg.Name, arg.Slug, arg.Address, arg.City, arg.Rating, arg.ReviewCount)
	return scanVenue(row)
}

const getVenueByID = `
SELECT id, name, slug, address, city, rating, review_count, created_at, updated_at
FROM venues WHERE id = $1
`

func (q *Queries) GetVenueByID(ctx context.Context, id int64) (Venue, error) {
	return scanVenue(q.db.QueryRowContext(ctx, getVenueByID, id))
}

const getVenueBySlug = `
SELECT id, name, slug, address, city, rating, review_count, created_at, updated_at
FROM venues WHERE slug = $1
`

func (q *Queries) GetVenueBySlug(ctx context.Context, slug string) (Venue, error) {
	return scanVenue(q.db.QueryRowContext(ctx, getVenueBySlug, slug))
}

const searchVenuesTrigram = `
SELECT id, name, slug, address, city, rating, review_count, created_at, updated_at,
    similarity(name, $1) AS score
FROM venues
WHERE similarity(name, $1) > $2
ORDER BY score DESC, review_count DESC
LIMIT $3
`

type SearchVenuesTrigramParams struct {
	Query     string
	Threshold float64
	Limit     int32
}

// SearchVenuesTrigram relies on the pg_trgm extension. When similarity()
// does not exist Postgres reports SQLSTATE 42883; callers detect that and
// fall back to SearchVenuesILike.
func (q *Queries) SearchVenuesTrigram(ctx context.Context, arg SearchVenuesTrigramParams) ([]RankedVenue, error) {
	rows, err := q.db.QueryContext(ctx, searchVenuesTrigram, arg.Query, arg.Threshold, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRankedVenues(rows)
}

const searchVenuesILike = `
SELECT id, name, slug, address, city, rating, review_count, created_at, updated_at
FROM venues
WHERE name ILIKE '%' || $1 || '%' OR address ILIKE '%' || $1 || '%'
ORDER BY rating DESC NULLS LAST, review_count DESC
LIMIT $2
`

func (q *Queries) SearchVenuesILike(ctx context.Context, query string, limit int32) ([]Venue, error) {
	rows, err := q.db.QueryContext(ctx, searchVenuesILike, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVenues(rows)
}

const listPopularVenues = `
SELECT id, name, slug, address, city, rating, review_count, created_at, updated_at
FROM venues
WHERE rating IS NOT NULL
ORDER BY rating DESC, review_count DESC
LIMIT $1
`

func (q *Queries) ListPopularVenues(ctx context.Context, limit int32) ([]Venue, error) {
	rows, err := q.db.QueryContext(ctx, listPopularVenues, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVenues(rows)
}

const listVenues = `
SELECT id, name, slug, address, city, rating, review_count, created_at, updated_at
FROM venues
ORDER BY name
LIMIT $1 OFFSET $2
`

func (q *Queries) ListVenues(ctx context.Context, limit, offset int32) ([]Venue, error) {
	rows, err := q.db.QueryContext(ctx, listVenues, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVenues(rows)
}

const countVenues = `SELECT count(*) FROM venues`

func (q *Queries) CountVenues(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countVenues).Scan(&n)
	return n, err
}

const listVenuesForSitemap = `
SELECT slug, updated_at FROM venues ORDER BY name
`

type SitemapVenueRow struct {
	Slug      string
	UpdatedAt sql.NullTime
}

func (q *Queries) ListVenuesForSitemap(ctx context.Context) ([]SitemapVenueRow, error) {
	rows, err := q.db.QueryContext(ctx, listVenuesForSitemap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SitemapVenueRow
	for rows.Next() {
		var r SitemapVenueRow
		if err := rows.Scan(&r.Slug, &r.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

type venueScanner interface {
	Scan(dest ...interface{}) error
}

func scanVenue(row venueScanner) (Venue, error) {
	var v Venue
	err := row.Scan(&v.ID, &v.Name, &v.Slug, &v.Address, &v.City,
		&v.Rating, &v.ReviewCount, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func scanVenues(rows *sql.Rows) ([]Venue, error) {
	var items []Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

func scanRankedVenues(rows *sql.Rows) ([]RankedVenue, error) {
	var items []RankedVenue
	for rows.Next() {
		var v RankedVenue
		err := rows.Scan(&v.ID, &v.Name, &v.Slug, &v.Address, &v.City,
			&v.Rating, &v.ReviewCount, &v.CreatedAt, &v.UpdatedAt, &v.Score)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}
