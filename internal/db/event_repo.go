package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"eventpulse/internal/types"
)

// EventRepository provides data access for the events table. It implements
// types.EventRepository.
type EventRepository struct {
	db DBTX
}

// NewEventRepository creates a new EventRepository backed by the given
// database connection (pool or transaction).
func NewEventRepository(db DBTX) *EventRepository {
	return &EventRepository{db: db}
}

// eventColumns defines the standard set of columns selected for event queries.
const eventColumns = `e.id, e.name, e.region, e.category, e.date,
	e.target_registrations, e.current_registrations, e.revenue,
	e.status, e.owner, e.integrations,
	e.coord_lat, e.coord_lon,
	e.created_at, e.updated_at`

// scanEvent scans a single event row into a types.Event struct.
// The columns must match the order defined in eventColumns.
func scanEvent(row pgx.Row) (*types.Event, error) {
	var ev types.Event
	var owner *string

	err := row.Scan(
		&ev.ID,
		&ev.Name,
		&ev.Region,
		&ev.Category,
		&ev.Date,
		&ev.TargetRegistrations,
		&ev.CurrentRegistrations,
		&ev.Revenue,
		&ev.Status,
		&owner,
		&ev.Integrations,
		&ev.Coordinates.Lat,
		&ev.Coordinates.Lon,
		&ev.CreatedAt,
		&ev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if owner != nil {
		ev.Owner = *owner
	}

	return &ev, nil
}

// Create inserts a new event record. The caller must set the ID and required
// fields before calling; validation happens at the API boundary.
func (r *EventRepository) Create(ctx context.Context, ev *types.Event) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO events (
			id, name, region, category, date,
			target_registrations, current_registrations, revenue,
			status, owner, integrations,
			coord_lat, coord_lon,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11,
			$12, $13,
			COALESCE($14, NOW()), COALESCE($15, NOW())
		)`,
		ev.ID,
		ev.Name,
		ev.Region,
		ev.Category,
		ev.Date,
		ev.TargetRegistrations,
		ev.CurrentRegistrations,
		ev.Revenue,
		ev.Status,
		nilIfEmpty(ev.Owner),
		ev.Integrations,
		ev.Coordinates.Lat,
		ev.Coordinates.Lon,
		nilIfZeroTime(ev.CreatedAt),
		nilIfZeroTime(ev.UpdatedAt),
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to create event", err)
	}
	return nil
}

// GetByID retrieves an event by its ID. Returns ErrCodeNotFoundEvent if no
// row matches.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*types.Event, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+eventColumns+`
		 FROM events e
		 WHERE e.id = $1`,
		id,
	)

	ev, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundEvent, "event not found", nil)
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to retrieve event", err)
	}
	return ev, nil
}

// List returns the full event portfolio ordered by date ascending. The rule
// engine consumes the complete set on every refresh pass, so there is no
// pagination here.
func (r *EventRepository) List(ctx context.Context) ([]types.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+`
		 FROM events e
		 ORDER BY e.date ASC`,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list events", err)
	}
	defer rows.Close()

	var events []types.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan event row", err)
		}
		events = append(events, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate event rows", err)
	}

	return events, nil
}

// UpdateRegistrations sets the current registration count for an event.
// Returns ErrCodeNotFoundEvent if no row matches.
func (r *EventRepository) UpdateRegistrations(ctx context.Context, id string, current int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE events SET
			current_registrations = $1,
			updated_at = NOW()
		 WHERE id = $2`,
		current, id,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to update registrations", err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewAppError(types.ErrCodeNotFoundEvent, "event not found", nil)
	}
	return nil
}

// Delete removes an event. Returns ErrCodeNotFoundEvent if no row matches.
// Alerts derived from the event disappear on the next detection pass.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM events WHERE id = $1`,
		id,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to delete event", err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewAppError(types.ErrCodeNotFoundEvent, "event not found", nil)
	}
	return nil
}

// nilIfEmpty maps empty strings to NULL for nullable text columns.
func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nilIfZeroTime maps zero timestamps to NULL so the database default applies.
func nilIfZeroTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
