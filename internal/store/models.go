// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         string
	FailedLogins int32
	LockedUntil  sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Category struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
}

type Tag struct {
	ID   int64
	Name string
	Slug string
}

type Venue struct {
	ID          int64
	Name        string
	Slug        string
	Address     string
	City        string
	Rating      sql.NullFloat64
	ReviewCount int32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RankedVenue is a venue row with a search relevance score attached.
type RankedVenue struct {
	Venue
	Score float64
}

type Organizer struct {
	ID        int64
	Name      string
	Slug      string
	Website   string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Event struct {
	ID                   int64
	Title                string
	Slug                 string
	Description          string
	Status               string
	Source               string
	CategoryID           sql.NullInt64
	VenueID              sql.NullInt64
	LocationName         sql.NullString
	Address              sql.NullString
	OrganizerID          sql.NullInt64
	StartAt              time.Time
	EndAt                sql.NullTime
	IsFree               bool
	PriceMin             sql.NullFloat64
	PriceMax             sql.NullFloat64
	Currency             string
	TicketURL            string
	HeroImageURL         string
	CreatedBy            string
	ReviewedBy           sql.NullString
	RejectionReason      sql.NullString
	ChangeRequestMessage sql.NullString
	PriorStatus          sql.NullString
	DeletedAt            sql.NullTime
	PublishedAt          sql.NullTime
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type EventDraft struct {
	ID              int64
	OwnerEmail      string
	DraftData       json.RawMessage
	SeriesDraftData json.RawMessage
	CurrentStep     int32
	CompletedSteps  []int32
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type AuditLogEntry struct {
	ID         int64
	Action     string
	EntityType string
	EntityID   sql.NullInt64
	AdminEmail string
	Notes      sql.NullString
	Level      string
	Client     string
	Metadata   json.RawMessage
	CreatedAt  time.Time
}

type Image struct {
	ID        int64
	UUID      string
	Filename  string
	ImageType string
	MimeType  string
	Size      int64
	Width     sql.NullInt32
	Height    sql.NullInt32
	SourceURL sql.NullString
	PublicURL string
	CreatedAt time.Time
}
