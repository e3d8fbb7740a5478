// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const insertAuditEntry = `
INSERT INTO audit_log (action, entity_type, entity_id, admin_email, notes, level, client, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, action, entity_type, entity_id, admin_email, notes, level, client, metadata, created_at
`

type InsertAuditEntryParams struct {
	Action     string
	EntityType string
	EntityID   sql.NullInt64
	AdminEmail string
	Notes      sql.NullString
	Level      string
	Client     string
	Metadata   json.RawMessage
}

func (q *Queries) InsertAuditEntry(ctx context.Context, arg InsertAuditEntryParams) (AuditLogEntry, error) {
	meta := arg.Metadata
	if len(meta) == 0 {
		meta = json.RawMessage(`{}`)
	}
	row := q.db.QueryRowContext(ctx, insertAuditEntry,
		arg.Action, arg.EntityType, arg.EntityID, arg.AdminEmail,
		arg.Notes, arg.Level, arg.Client, []byte(meta))
	return scanAuditEntry(row)
}

const listAuditEntries = `
SELECT id, action, entity_type, entity_id, admin_email, notes, level, client, metadata, created_at
FROM audit_log
WHERE ($1::text IS NULL OR entity_type = $1)
  AND ($2::bigint IS NULL OR entity_id = $2)
  AND ($3::text IS NULL OR admin_email = $3)
ORDER BY created_at DESC, id DESC
LIMIT $4 OFFSET $5
`

type ListAuditEntriesParams struct {
	EntityType sql.NullString
	EntityID   sql.NullInt64
	AdminEmail sql.NullString
	Limit      int32
	Offset     int32
}

func (q *Queries) ListAuditEntries(ctx context.Context, arg ListAuditEntriesParams) ([]AuditLogEntry, error) {
	rows, err := q.db.QueryContext(ctx, listAuditEntries,
		arg.EntityType, arg.EntityID, arg.AdminEmail, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AuditLogEntry
	for rows.Next() {
		e, err := scanAuditEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

const countAuditEntries = `
SELECT count(*)
FROM audit_log
WHERE ($1::text IS NULL OR entity_type = $1)
  AND ($2::bigint IS NULL OR entity_id = $2)
  AND ($3::text IS NULL OR admin_email = $3)
`

type CountAuditEntriesParams struct {
	EntityType sql.NullString
	EntityID   sql.NullInt64
	AdminEmail sql.NullString
}

func (q *Queries) CountAuditEntries(ctx context.Context, arg CountAuditEntriesParams) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countAuditEntries,
		arg.EntityType, arg.EntityID, arg.AdminEmail).Scan(&n)
	return n, err
}

const pruneAuditBefore = `
DELETE FROM audit_log WHERE created_at < $1
`

func (q *Queries) PruneAuditBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, pruneAuditBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type auditScanner interface {
	Scan(dest ...interface{}) error
}

func scanAuditEntry(row auditScanner) (AuditLogEntry, error) {
	var e AuditLogEntry
	var meta []byte
	err := row.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID,
		&e.AdminEmail, &e.Notes, &e.Level, &e.Client, &meta, &e.CreatedAt)
	if err != nil {
		return e, err
	}
	e.Metadata = json.RawMessage(meta)
	return e, nil
}
