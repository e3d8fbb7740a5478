// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const createEvent = `
INSERT INTO events (
    title, slug, description, status, source, category_id, venue_id,
    location_name, address, organizer_id, start_at, end_at, is_free,
    price_min, price_max, currency, ticket_url, hero_image_url, created_by
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
)
RETURNING id, title, slug, description, status, source, category_id, venue_id,
    location_name, address, organizer_id, start_at, end_at, is_free,
    price_min, price_max, currency, ticket_url, hero_image_url, created_by,
    reviewed_by, rejection_reason, change_request_message, prior_status,
    deleted_at, published_at, created_at, updated_at
`

type CreateEventParams struct {
	Title        string
	Slug         string
	Description  string
	Status       string
	Source       string
	CategoryID   sql.NullInt64
	VenueID      sql.NullInt64
	LocationName sql.NullString
	Address      sql.NullString
	OrganizerID  sql.NullInt64
	StartAt      time.Time
	EndAt        sql.NullTime
	IsFree       bool
	PriceMin     sql.NullFloat64
	PriceMax     sql.NullFloat64
	Currency     string
	TicketURL    string
	HeroImageURL string
	CreatedBy    string
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	row := q.db.QueryRowContext(ctx, createEvent,
		arg.Title, arg.Slug, arg.Description, arg.Status, arg.Source,
		arg.CategoryID, arg.VenueID, arg.LocationName, arg.Address,
		arg.OrganizerID, arg.StartAt, arg.EndAt, arg.IsFree,
		arg.PriceMin, arg.PriceMax, arg.Currency, arg.TicketURL,
		arg.HeroImageURL, arg.CreatedBy,
	)
	return scanEvent(row)
}

const getEventByID = `
SELECT id, title, slug, description, status, source, category_id, venue_id,
    location_name, address, organizer_id, start_at, end_at, is_free,
    price_min, price_max, currency, ticket_url, hero_image_url, created_by,
    reviewed_by, rejection_reason, change_request_message, prior_status,
    deleted_at, published_at, created_at, updated_at
FROM events
WHERE id = $1 AND deleted_at IS NULL
`

func (q *Queries) GetEventByID(ctx context.Context, id int64) (Event, error) {
	return scanEvent(q.db.QueryRowContext(ctx, getEventByID, id))
}

const getPublishedEventBySlug = `
SELECT id, title, slug, description, status, source, category_id, venue_id,
    location_name, address, organizer_id, start_at, end_at, is_free,
    price_min, price_max, currency, ticket_url, hero_image_url, created_by,
    reviewed_by, rejection_reason, change_request_message, prior_status,
    deleted_at, published_at, created_at, updated_at
FROM events
WHERE slug = $1 AND status = 'published' AND deleted_at IS NULL
ORDER BY start_at
LIMIT 1
`

func (q *Queries) GetPublishedEventBySlug(ctx context.Context, slug string) (Event, error) {
	return scanEvent(q.db.QueryRowContext(ctx, getPublishedEventBySlug, slug))
}

const listPublishedEvents = `
SELECT id, title, slug, description, status, source, category_id, venue_id,
    location_name, address, organizer_id, start_at, end_at, is_free,
    price_min, price_max, currency, ticket_url, hero_image_url, created_by,
    reviewed_by, rejection_reason, change_request_message, prior_status,
    deleted_at, published_at, created_at, updated_at
FROM events
WHERE status = 'published' AND deleted_at IS NULL
  AND ($1::bigint IS NULL OR category_id = $1)
  AND ($2::bigint IS NULL OR venue_id = $2)
  AND ($3::bigint IS NULL OR organizer_id = $3)
  AND ($4::timestamptz IS NULL OR start_at >= $4)
  AND ($5::timestamptz IS NULL OR start_at < $5)
  AND ($6::text IS NULL OR title ILIKE '%' || $6 || '%' OR description ILIKE '%' || $6 || '%')
ORDER BY start_at
LIMIT $7 OFFSET $8
`

type ListPublishedEventsParams struct {
	CategoryID  sql.NullInt64
	VenueID     sql.NullInt64
	OrganizerID sql.NullInt64
	From        sql.NullTime
	To          sql.NullTime
	Query       sql.NullString
	Limit       int32
	Offset      int32
}

func (q *Queries) ListPublishedEvents(ctx context.Context, arg ListPublishedEventsParams) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, listPublishedEvents,
		arg.CategoryID, arg.VenueID, arg.OrganizerID, arg.From, arg.To, arg.Query, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

const countPublishedEvents = `
SELECT count(*)
FROM events
WHERE status = 'published' AND deleted_at IS NULL
  AND ($1::bigint IS NULL OR category_id = $1)
  AND ($2::bigint IS NULL OR venue_id = $2)
  AND ($3::bigint IS NULL OR organizer_id = $3)
  AND ($4::timestamptz IS NULL OR start_at >= $4)
  AND ($5::timestamptz IS NULL OR start_at < $5)
  AND ($6::text IS NULL OR title ILIKE '%' || $6 || '%' OR description ILIKE '%' || $6 || '%')
`

type CountPublishedEventsParams struct {
	CategoryID  sql.NullInt64
	VenueID     sql.NullInt64
	OrganizerID sql.NullInt64
	From        sql.NullTime
	To          sql.NullTime
	Query       sql.NullString
}

func (q *Queries) CountPublishedEvents(ctx context.Context, arg CountPublishedEventsParams) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countPublishedEvents,
		arg.CategoryID, arg.VenueID, arg.OrganizerID, arg.From, arg.To, arg.Query).Scan(&n)
	return n, err
}

const listEventsByStatus = `
SELECT id, title, slug, description, status, source, category_id, venue_id,
    location_name, address, organizer_id, start_at, end_at, is_free,
    price_min, price_max, currency, ticket_url, hero_image_url, created_by,
    reviewed_by, rejection_reason, change_request_message, prior_status,
    deleted_at, published_at, created_at, updated_at
FROM events
WHERE status = $1 AND deleted_at IS NULL
ORDER BY created_at
LIMIT $2 OFFSET $3
`

type ListEventsByStatusParams struct {
	Status string
	Limit  int32
	Offset int32
}

func (q *Queries) ListEventsByStatus(ctx context.Context, arg ListEventsByStatusParams) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, listEventsByStatus, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

const countEventsByStatus = `
SELECT count(*) FROM events WHERE status = $1 AND deleted_at IS NULL
`

func (q *Queries) CountEventsByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countEventsByStatus, status).Scan(&n)
	return n, err
}

const listEventsByCreator = `
SELECT id, title, slug, description, status, source, category_id, venue_id,
    location_name, address, organizer_id, start_at, end_at, is_free,
    price_min, price_max, currency, ticket_url, hero_image_url, created_by,
    reviewed_by, rejection_reason, change_request_message, prior_status,
    deleted_at, published_at, created_at, updated_at
FROM events
WHERE created_by = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`

type ListEventsByCreatorParams struct {
	CreatedBy string
	Limit     int32
	Offset    int32
}

func (q *Queries) ListEventsByCreator(ctx context.Context, arg ListEventsByCreatorParams) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, listEventsByCreator, arg.CreatedBy, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

const updateEventStatus = `
UPDATE events
SET status = $2,
    reviewed_by = $3,
    rejection_reason = $4,
    change_request_message = $5,
    published_at = CASE WHEN $2 = 'published' AND published_at IS NULL THEN now() ELSE published_at END,
    updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING id, title, slug, description, status, source, category_id, venue_id,
    location_name, address, organizer_id, start_at, end_at, is_free,
    price_min, price_max, currency, ticket_url, hero_image_url, created_by,
    reviewed_by, rejection_reason, change_request_message, prior_status,
    deleted_at, published_at, created_at, updated_at
`

type UpdateEventStatusParams struct {
	ID                   int64
	Status               string
	ReviewedBy           sql.NullString
	RejectionReason      sql.NullString
	ChangeRequestMessage sql.NullString
}

func (q *Queries) UpdateEventStatus(ctx context.Context, arg UpdateEventStatusParams) (Event, error) {
	row := q.db.QueryRowContext(ctx, updateEventStatus,
		arg.ID, arg.Status, arg.ReviewedBy, arg.RejectionReason, arg.ChangeRequestMessage)
	return scanEvent(row)
}

const updateEvent = `
UPDATE events
SET title = $2, slug = $3, description = $4, category_id = $5, venue_id = $6,
    location_name = $7, address = $8, organizer_id = $9, start_at = $10,
    end_at = $11, is_free = $12, price_min = $13, price_max = $14,
    currency = $15, ticket_url = $16, hero_image_url = $17, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING id, title, slug, description, status, source, category_id, venue_id,
    location_name, address, organizer_id, start_at, end_at, is_free,
    price_min, price_max, currency, ticket_url, hero_image_url, created_by,
    reviewed_by, rejection_reason, change_request_message, prior_status,
    deleted_at, published_at, created_at, updated_at
`

type UpdateEventParams struct {
	ID           int64
	Title        string
	Slug         string
	Description  string
	CategoryID   sql.NullInt64
	VenueID      sql.NullInt64
	LocationName sql.NullString
	Address      sql.NullString
	OrganizerID  sql.NullInt64
	StartAt      time.Time
	EndAt        sql.NullTime
	IsFree       bool
	PriceMin     sql.NullFloat64
	PriceMax     sql.NullFloat64
	Currency     string
	TicketURL    string
	HeroImageURL string
}

func (q *Queries) UpdateEvent(ctx context.Context, arg UpdateEventParams) (Event, error) {
	row := q.db.QueryRowContext(ctx, updateEvent,
		arg.ID, arg.Title, arg.Slug, arg.Description, arg.CategoryID,
		arg.VenueID, arg.LocationName, arg.Address, arg.OrganizerID,
		arg.StartAt, arg.EndAt, arg.IsFree, arg.PriceMin, arg.PriceMax,
		arg.Currency, arg.TicketURL, arg.HeroImageURL)
	return scanEvent(row)
}

const softDeleteEvent = `
UPDATE events
SET prior_status = status, deleted_at = now(), updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
`

func (q *Queries) SoftDeleteEvent(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, softDeleteEvent, id)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

const restoreEvent = `
UPDATE events
SET status = COALESCE(prior_status, status), prior_status = NULL,
    deleted_at = NULL, updated_at = now()
WHERE id = $1 AND deleted_at IS NOT NULL
RETURNING id, title, slug, description, status, source, category_id, venue_id,
    location_name, address, organizer_id, start_at, end_at, is_free,
    price_min, price_max, currency, ticket_url, hero_image_url, created_by,
    reviewed_by, rejection_reason, change_request_message, prior_status,
    deleted_at, published_at, created_at, updated_at
`

func (q *Queries) RestoreEvent(ctx context.Context, id int64) (Event, error) {
	return scanEvent(q.db.QueryRowContext(ctx, restoreEvent, id))
}

const hardDeleteEvent = `
DELETE FROM events WHERE id = $1
`

func (q *Queries) HardDeleteEvent(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, hardDeleteEvent, id)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

const insertEventTag = `
INSERT INTO event_tags (event_id, tag_id) VALUES ($1, $2)
ON CONFLICT DO NOTHING
`

func (q *Queries) InsertEventTag(ctx context.Context, eventID, tagID int64) error {
	_, err := q.db.ExecContext(ctx, insertEventTag, eventID, tagID)
	return err
}

const deleteEventTags = `
DELETE FROM event_tags WHERE event_id = $1
`

func (q *Queries) DeleteEventTags(ctx context.Context, eventID int64) error {
	_, err := q.db.ExecContext(ctx, deleteEventTags, eventID)
	return err
}

const listEventTags = `
SELECT t.id, t.name, t.slug
FROM tags t
JOIN event_tags et ON et.tag_id = t.id
WHERE et.event_id = $1
ORDER BY t.name
`

func (q *Queries) ListEventTags(ctx context.Context, eventID int64) ([]Tag, error) {
	rows, err := q.db.QueryContext(ctx, listEventTags, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
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

const listPublishedEventsForSitemap = `
SELECT slug, start_at, updated_at
FROM events
WHERE status = 'published' AND deleted_at IS NULL
ORDER BY start_at
`

type SitemapEventRow struct {
	Slug      string
	StartAt   time.Time
	UpdatedAt time.Time
}

func (q *Queries) ListPublishedEventsForSitemap(ctx context.Context) ([]SitemapEventRow, error) {
	rows, err := q.db.QueryContext(ctx, listPublishedEventsForSitemap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SitemapEventRow
	for rows.Next() {
		var r SitemapEventRow
		if err := rows.Scan(&r.Slug, &r.StartAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const countEventSlugsOnDate = `
SELECT count(*) FROM events
WHERE slug LIKE $1 || '%' AND start_at::date = $2::date
`

// CountEventSlugsOnDate supports slug collision suffixing. Slugs embed the
// start date, so collisions only arise between same-titled events on the
// same day.
func (q *Queries) CountEventSlugsOnDate(ctx context.Context, slug string, date time.Time) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countEventSlugsOnDate, slug, date).Scan(&n)
	return n, err
}

type eventScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row eventScanner) (Event, error) {
	var e Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Slug, &e.Description, &e.Status, &e.Source,
		&e.CategoryID, &e.VenueID, &e.LocationName, &e.Address,
		&e.OrganizerID, &e.StartAt, &e.EndAt, &e.IsFree, &e.PriceMin,
		&e.PriceMax, &e.Currency, &e.TicketURL, &e.HeroImageURL,
		&e.CreatedBy, &e.ReviewedBy, &e.RejectionReason,
		&e.ChangeRequestMessage, &e.PriorStatus, &e.DeletedAt,
		&e.PublishedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var items []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
