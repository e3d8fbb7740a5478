// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
)

const createImage = `
INSERT INTO images (uuid, filename, image_type, mime_type, size, width, height, source_url, public_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, uuid, filename, image_type, mime_type, size, width, height, source_url, public_url, created_at
`

type CreateImageParams struct {
	UUID      string
	Filename  string
	ImageType string
	MimeType  string
	Size      int64
	Width     sql.NullInt32
	Height    sql.NullInt32
	SourceURL sql.NullString
	PublicURL string
}

func (q *Queries) CreateImage(ctx context.Context, arg CreateImageParams) (Image, error) {
	row := q.db.QueryRowContext(ctx, createImage,
		arg.UUID, arg.Filename, arg.ImageType, arg.MimeType, arg.Size,
		arg.Width, arg.Height, arg.SourceURL, arg.PublicURL)
	return scanImage(row)
}

const getImageByUUID = `
SELECT id, uuid, filename, image_type, mime_type, size, width, height, source_url, public_url, created_at
FROM images WHERE uuid = $1
`

func (q *Queries) GetImageByUUID(ctx context.Context, uuid string) (Image, error) {
	return scanImage(q.db.QueryRowContext(ctx, getImageByUUID, uuid))
}

const getImageBySourceURL = `
SELECT id, uuid, filename, image_type, mime_type, size, width, height, source_url, public_url, created_at
FROM images WHERE source_url = $1
ORDER BY created_at DESC
LIMIT 1
`

// GetImageBySourceURL lets re-hosting skip a fetch when the same remote
// URL was already ingested.
func (q *Queries) GetImageBySourceURL(ctx context.Context, sourceURL string) (Image, error) {
	return scanImage(q.db.QueryRowContext(ctx, getImageBySourceURL, sourceURL))
}

const deleteImage = `
DELETE FROM images WHERE uuid = $1
`

func (q *Queries) DeleteImage(ctx context.Context, uuid string) error {
	res, err := q.db.ExecContext(ctx, deleteImage, uuid)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

type imageScanner interface {
	Scan(dest ...interface{}) error
}

func scanImage(row imageScanner) (Image, error) {
	var im Image
	err := row.Scan(&im.ID, &im.UUID, &im.Filename, &im.ImageType,
		&im.MimeType, &im.Size, &im.Width, &im.Height, &im.SourceURL,
		&im.PublicURL, &im.CreatedAt)
	return im, err
}
