// Package events reads the event catalog from the platform. Read-only: events
// are created and edited by staff directly in the platform console.
package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tsunagu-circle/backend/internal/models"
	"github.com/tsunagu-circle/backend/internal/platform"
)

const table = "events"

var columns = []string{
	"id", "slug", "title_en", "title_ja", "description_en", "description_ja",
	"starts_at", "location", "cover_path", "capacity",
}

// Repository fetches event rows through the platform client and resolves
// cover-image URLs.
type Repository struct {
	client       *platform.Client
	storage      *platform.Storage
	coversBucket string
}

// NewRepository creates an event catalog repository.
func NewRepository(client *platform.Client, storage *platform.Storage, coversBucket string) *Repository {
	return &Repository{client: client, storage: storage, coversBucket: coversBucket}
}

// ListUpcoming returns events starting at or after now, soonest first.
func (r *Repository) ListUpcoming(ctx context.Context, limit int) ([]models.Event, error) {
	return r.list(ctx, platform.Filter{Column: "starts_at", Op: "gte", Value: time.Now()}, false, limit)
}

// ListPast returns events that already started, most recent first.
func (r *Repository) ListPast(ctx context.Context, limit int) ([]models.Event, error) {
	return r.list(ctx, platform.Filter{Column: "starts_at", Op: "lt", Value: time.Now()}, true, limit)
}

func (r *Repository) list(ctx context.Context, filter platform.Filter, desc bool, limit int) ([]models.Event, error) {
	rows, err := r.client.Select(ctx, table, columns,
		[]platform.Filter{filter},
		&platform.Order{Column: "starts_at", Desc: desc},
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var list []models.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		r.resolveCover(&ev)
		list = append(list, ev)
	}
	return list, rows.Err()
}

// GetBySlug returns the event addressed by slug, or models.ErrNotFound. A
// missing row and a failed query are distinct outcomes; callers must not
// conflate them.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	row, err := r.client.SelectOne(ctx, table, columns,
		[]platform.Filter{{Column: "slug", Op: "eq", Value: slug}})
	if err != nil {
		return nil, fmt.Errorf("get event by slug: %w", err)
	}
	ev, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get event by slug: %w", err)
	}
	r.resolveCover(&ev)
	return &ev, nil
}

// GetByID returns the event with the given internal id, or models.ErrNotFound.
// Used by staff views which address events by id rather than slug.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	row, err := r.client.SelectOne(ctx, table, columns,
		[]platform.Filter{{Column: "id", Op: "eq", Value: id}})
	if err != nil {
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	ev, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	r.resolveCover(&ev)
	return &ev, nil
}

func scanEvent(row pgx.Row) (models.Event, error) {
	var ev models.Event
	err := row.Scan(&ev.ID, &ev.Slug, &ev.TitleEN, &ev.TitleJA, &ev.DescriptionEN, &ev.DescriptionJA,
		&ev.StartsAt, &ev.Location, &ev.CoverPath, &ev.Capacity)
	return ev, err
}

func (r *Repository) resolveCover(ev *models.Event) {
	if ev.CoverPath != nil {
		ev.CoverURL = r.storage.PublicFileURL(r.coversBucket, *ev.CoverPath)
	}
}
