package registrations

import (
	"context"
	"fmt"

	"github.com/tsunagu-circle/backend/internal/models"
	"github.com/tsunagu-circle/backend/internal/platform"
)

const rosterTable = "event_registrations"

var rosterColumns = []string{
	"id", "event_id", "name", "phone", "hometown",
	"campus", "japanese_level", "japanese_motivation", "english_level", "created_at",
}

// Repository reads registration rows for staff views. This is the only place
// in the service that touches individual registration rows; it is reachable
// exclusively behind the session guard.
type Repository struct {
	client *platform.Client
}

// NewRepository creates a roster repository.
func NewRepository(client *platform.Client) *Repository {
	return &Repository{client: client}
}

// ListByEvent returns an event's registrations, newest first.
func (r *Repository) ListByEvent(ctx context.Context, eventID int64) ([]models.Registration, error) {
	rows, err := r.client.Select(ctx, rosterTable, rosterColumns,
		[]platform.Filter{{Column: "event_id", Op: "eq", Value: eventID}},
		&platform.Order{Column: "created_at", Desc: true},
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var list []models.Registration
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.Name, &reg.Phone, &reg.Hometown,
			&reg.Campus, &reg.JapaneseLevel, &reg.Motivation, &reg.EnglishLevel, &reg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		list = append(list, reg)
	}
	return list, rows.Err()
}
