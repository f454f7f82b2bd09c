package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnhub/lms-backend/internal/model"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("repository: record not found")

// ClassRepository handles class catalog data access. Classes are stored as
// documents: scalar columns plus a jsonb lessons list that preserves order.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

// List retrieves all classes in store order.
func (r *ClassRepository) List(ctx context.Context) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, instructor, class_type, lessons, time_table, place, duration, students, color
		 FROM classes ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// GetByID retrieves a class by its ID.
func (r *ClassRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, instructor, class_type, lessons, time_table, place, duration, students, color
		 FROM classes WHERE id = $1`, id)
	c, err := scanClass(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new class, assigning its ID and defaults.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	c.ID = uuid.New()
	if c.Color == "" {
		c.Color = model.DefaultClassColor
	}
	if c.Lessons == nil {
		c.Lessons = []string{}
	}

	lessons, err := json.Marshal(c.Lessons)
	if err != nil {
		return fmt.Errorf("encode lessons: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO classes (id, name, instructor, class_type, lessons, time_table, place, duration, students, color)
		 VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8, $9, $10)`,
		c.ID, c.Name, c.Instructor, c.Type, lessons, c.TimeTable, c.Place, c.Duration, c.Students, c.Color)
	return err
}

// Update replaces every mutable field of an existing class. The ID is
// immutable; ErrNotFound is returned when it does not exist.
func (r *ClassRepository) Update(ctx context.Context, c *model.Class) error {
	if c.Color == "" {
		c.Color = model.DefaultClassColor
	}
	if c.Lessons == nil {
		c.Lessons = []string{}
	}

	lessons, err := json.Marshal(c.Lessons)
	if err != nil {
		return fmt.Errorf("encode lessons: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE classes
		 SET name = $1, instructor = $2, class_type = $3, lessons = $4::jsonb,
		     time_table = $5, place = $6, duration = $7, students = $8, color = $9,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $10`,
		c.Name, c.Instructor, c.Type, lessons, c.TimeTable, c.Place, c.Duration, c.Students, c.Color, c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a class permanently. ErrNotFound when the ID is unknown.
func (r *ClassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanClass(row pgx.Row) (model.Class, error) {
	var c model.Class
	var lessons []byte
	if err := row.Scan(&c.ID, &c.Name, &c.Instructor, &c.Type, &lessons,
		&c.TimeTable, &c.Place, &c.Duration, &c.Students, &c.Color); err != nil {
		return model.Class{}, err
	}
	if err := json.Unmarshal(lessons, &c.Lessons); err != nil {
		return model.Class{}, fmt.Errorf("decode lessons: %w", err)
	}
	if c.Lessons == nil {
		c.Lessons = []string{}
	}
	return c, nil
}
