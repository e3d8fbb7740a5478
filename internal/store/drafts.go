// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"
)

const createDraft = `
INSERT INTO event_drafts (owner_email, draft_data, series_draft_data, current_step, completed_steps)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, owner_email, draft_data, series_draft_data, current_step, completed_steps, created_at, updated_at
`

type CreateDraftParams struct {
	OwnerEmail      string
	DraftData       json.RawMessage
	SeriesDraftData json.RawMessage
	CurrentStep     int32
	CompletedSteps  []int32
}

func (q *Queries) CreateDraft(ctx context.Context, arg CreateDraftParams) (EventDraft, error) {
	row := q.db.QueryRowContext(ctx, createDraft,
		arg.OwnerEmail, arg.DraftData, nullJSON(arg.SeriesDraftData),
		arg.CurrentStep, pq.Array(arg.CompletedSteps))
	return scanDraft(row)
}

const getDraft = `
SELECT id, owner_email, draft_data, series_draft_data, current_step, completed_steps, created_at, updated_at
FROM event_drafts
WHERE id = $1
`

func (q *Queries) GetDraft(ctx context.Context, id int64) (EventDraft, error) {
	return scanDraft(q.db.QueryRowContext(ctx, getDraft, id))
}

const listDraftsByOwner = `
SELECT id, owner_email, draft_data, series_draft_data, current_step, completed_steps, created_at, updated_at
FROM event_drafts
WHERE owner_email = $1
ORDER BY updated_at DESC
`

func (q *Queries) ListDraftsByOwner(ctx context.Context, ownerEmail string) ([]EventDraft, error) {
	rows, err := q.db.QueryContext(ctx, listDraftsByOwner, ownerEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []EventDraft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

const updateDraft = `
UPDATE event_drafts
SET draft_data = $2, series_draft_data = $3, current_step = $4,
    completed_steps = $5, updated_at = now()
WHERE id = $1
RETURNING id, owner_email, draft_data, series_draft_data, current_step, completed_steps, created_at, updated_at
`

type UpdateDraftParams struct {
	ID              int64
	DraftData       json.RawMessage
	SeriesDraftData json.RawMessage
	CurrentStep     int32
	CompletedSteps  []int32
}

func (q *Queries) UpdateDraft(ctx context.Context, arg UpdateDraftParams) (EventDraft, error) {
	row := q.db.QueryRowContext(ctx, updateDraft,
		arg.ID, arg.DraftData, nullJSON(arg.SeriesDraftData),
		arg.CurrentStep, pq.Array(arg.CompletedSteps))
	return scanDraft(row)
}

const deleteDraft = `
DELETE FROM event_drafts WHERE id = $1
`

func (q *Queries) DeleteDraft(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, deleteDraft, id)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

const deleteStaleDrafts = `
DELETE FROM event_drafts WHERE updated_at < now() - ($1 || ' days')::interval
`

func (q *Queries) DeleteStaleDrafts(ctx context.Context, retentionDays int) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteStaleDrafts, retentionDays)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type draftScanner interface {
	Scan(dest ...interface{}) error
}

func scanDraft(row draftScanner) (EventDraft, error) {
	var d EventDraft
	var series sql.NullString
	var steps pq.Int32Array
	err := row.Scan(&d.ID, &d.OwnerEmail, &d.DraftData, &series,
		&d.CurrentStep, &steps, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return d, err
	}
	if series.Valid {
		d.SeriesDraftData = json.RawMessage(series.String)
	}
	d.CompletedSteps = []int32(steps)
	return d, nil
}

func nullJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
