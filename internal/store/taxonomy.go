// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

const listCategories = `
SELECT id, name, slug, created_at FROM categories ORDER BY name
`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const getCategoryByID = `
SELECT id, name, slug, created_at FROM categories WHERE id = $1
`

func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := q.db.QueryRowContext(ctx, getCategoryByID, id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	return c, err
}

const getCategoryBySlug = `
SELECT id, name, slug, created_at FROM categories WHERE slug = $1
`

func (q *Queries) GetCategoryBySlug(ctx context.Context, slug string) (Category, error) {
	var c Category
	err := q.db.QueryRowContext(ctx, getCategoryBySlug, slug).
		Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	return c, err
}

const createCategory = `
INSERT INTO categories (name, slug) VALUES ($1, $2)
ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
RETURNING id, name, slug, created_at
`

func (q *Queries) CreateCategory(ctx context.Context, name, slug string) (Category, error) {
	var c Category
	err := q.db.QueryRowContext(ctx, createCategory, name, slug).
		Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	return c, err
}

const listTags = `
SELECT id, name, slug FROM tags ORDER BY name
`

func (q *Queries) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := q.db.QueryContext(ctx, listTags)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTags(rows)
}

const getTagsByIDs = `
SELECT id, name, slug FROM tags WHERE id = ANY($1) ORDER BY name
`

func (q *Queries) GetTagsByIDs(ctx context.Context, ids []int64) ([]Tag, error) {
	rows, err := q.db.QueryContext(ctx, getTagsByIDs, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTags(rows)
}

const createTag = `
INSERT INTO tags (name, slug) VALUES ($1, $2)
ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
RETURNING id, name, slug
`

func (q *Queries) CreateTag(ctx context.Context, name, slug string) (Tag, error) {
	var t Tag
	err := q.db.QueryRowContext(ctx, createTag, name, slug).
		Scan(&t.ID, &t.Name, &t.Slug)
	return t, err
}

const createOrganizer = `
INSERT INTO organizers (name, slug, website, email)
VALUES ($1, $2, $3, $4)
RETURNING id, name, slug, website, email, created_at, updated_at
`

type CreateOrganizerParams struct {
	Name    string
	Slug    string
	Website string
	Email   string
}

func (q *Queries) CreateOrganizer(ctx context.Context, arg CreateOrganizerParams) (Organizer, error) {
	var o Organizer
	err := q.db.QueryRowContext(ctx, createOrganizer,
		arg.Name, arg.Slug, arg.Website, arg.Email).
		Scan(&o.ID, &o.Name, &o.Slug, &o.Website, &o.Email, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

const getOrganizerByID = `
SELECT id, name, slug, website, email, created_at, updated_at
FROM organizers WHERE id = $1
`

func (q *Queries) GetOrganizerByID(ctx context.Context, id int64) (Organizer, error) {
	var o Organizer
	err := q.db.QueryRowContext(ctx, getOrganizerByID, id).
		Scan(&o.ID, &o.Name, &o.Slug, &o.Website, &o.Email, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

const getOrganizerBySlug = `
SELECT id, name, slug, website, email, created_at, updated_at
FROM organizers WHERE slug = $1
`

func (q *Queries) GetOrganizerBySlug(ctx context.Context, slug string) (Organizer, error) {
	var o Organizer
	err := q.db.QueryRowContext(ctx, getOrganizerBySlug, slug).
		Scan(&o.ID, &o.Name, &o.Slug, &o.Website, &o.Email, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

const listOrganizers = `
SELECT id, name, slug, website, email, created_at, updated_at
FROM organizers ORDER BY name
LIMIT $1 OFFSET $2
`

func (q *Queries) ListOrganizers(ctx context.Context, limit, offset int32) ([]Organizer, error) {
	rows, err := q.db.QueryContext(ctx, listOrganizers, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Organizer
	for rows.Next() {
		var o Organizer
		err := rows.Scan(&o.ID, &o.Name, &o.Slug, &o.Website, &o.Email,
			&o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

const listOrganizersForSitemap = `
SELECT slug, updated_at FROM organizers ORDER BY name
`

type SitemapOrganizerRow struct {
	Slug      string
	UpdatedAt sql.NullTime
}

func (q *Queries) ListOrganizersForSitemap(ctx context.Context) ([]SitemapOrganizerRow, error) {
	rows, err := q.db.QueryContext(ctx, listOrganizersForSitemap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SitemapOrganizerRow
	for rows.Next() {
		var r SitemapOrganizerRow
		if err := rows.Scan(&r.Slug, &r.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

func scanTags(rows *sql.Rows) ([]Tag, error) {
	var items []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}
