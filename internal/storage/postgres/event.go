package postgres

import (
	"context"
	"fmt"

	"github.com/rinesakuci/campus-hub/internal/models"
	"github.com/rinesakuci/campus-hub/internal/storage"
)

type EventRepository struct {
	db storage.DBTX
}

func NewEventRepository(db storage.DBTX) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) CreateEvent(ctx context.Context, event models.Event) (*models.Event, error) {
	query := `INSERT INTO events (title, description, date, location, course_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, description, date, location, course_id`
	var created models.Event
	err := r.db.QueryRowContext(ctx, query, event.Title, event.Description, event.Date, event.Location, event.CourseID).
		Scan(&created.ID, &created.Title, &created.Description, &created.Date, &created.Location, &created.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return &created, nil
}

func (r *EventRepository) ListEvents(ctx context.Context, courseID *int64) ([]models.Event, error) {
	query := `SELECT id, title, description, date, location, course_id FROM events`
	var args []any
	if courseID != nil {
		query += ` WHERE course_id = $1`
		args = append(args, *courseID)
	}
	query += ` ORDER BY date ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.CourseID); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
