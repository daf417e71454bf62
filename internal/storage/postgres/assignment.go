package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rinesakuci/campus-hub/internal/models"
	"github.com/rinesakuci/campus-hub/internal/storage"
)

type AssignmentRepository struct {
	db storage.DBTX
}

func NewAssignmentRepository(db storage.DBTX) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) CreateAssignment(ctx context.Context, assignment models.Assignment) (*models.Assignment, error) {
	query := `INSERT INTO assignments (title, description, due_at, course_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, description, due_at, course_id`
	var created models.Assignment
	err := r.db.QueryRowContext(ctx, query, assignment.Title, assignment.Description, assignment.DueAt, assignment.CourseID).
		Scan(&created.ID, &created.Title, &created.Description, &created.DueAt, &created.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}
	return &created, nil
}

func (r *AssignmentRepository) GetAssignmentByID(ctx context.Context, id int64) (*models.Assignment, error) {
	query := `SELECT id, title, description, due_at, course_id FROM assignments WHERE id = $1`
	var a models.Assignment
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.Title, &a.Description, &a.DueAt, &a.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return &a, nil
}

func (r *AssignmentRepository) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	return r.list(ctx, `SELECT id, title, description, due_at, course_id FROM assignments ORDER BY due_at ASC`)
}

func (r *AssignmentRepository) ListAssignmentsByCourse(ctx context.Context, courseID int64) ([]models.Assignment, error) {
	return r.list(ctx, `SELECT id, title, description, due_at, course_id FROM assignments WHERE course_id = $1 ORDER BY due_at ASC`, courseID)
}

func (r *AssignmentRepository) list(ctx context.Context, query string, args ...any) ([]models.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	assignments := []models.Assignment{}
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.DueAt, &a.CourseID); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
