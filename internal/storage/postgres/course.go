package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rinesakuci/campus-hub/internal/models"
	"github.com/rinesakuci/campus-hub/internal/storage"
)

type CourseRepository struct {
	db storage.DBTX
}

func NewCourseRepository(db storage.DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) CreateCourse(ctx context.Context, course models.Course) (*models.Course, error) {
	query := `INSERT INTO courses (name, code, description)
		VALUES ($1, $2, $3) RETURNING id, name, code, description`
	var created models.Course
	err := r.db.QueryRowContext(ctx, query, course.Name, course.Code, course.Description).
		Scan(&created.ID, &created.Name, &created.Code, &created.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	return &created, nil
}

func (r *CourseRepository) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `SELECT id, name, code, description FROM courses WHERE id = $1`
	var c models.Course
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Code, &c.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return &c, nil
}

func (r *CourseRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	query := `SELECT id, name, code, description FROM courses ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
