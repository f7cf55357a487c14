package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/RinkiBai/portfolio-backend/internal/contact/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

// SubmissionRepository handles PostgreSQL operations for contact submissions.
// There is deliberately no update path.
type SubmissionRepository struct {
	db *sql.DB
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Migrate applies the schema. It is safe to run repeatedly.
func (r *SubmissionRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SubmissionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Create assigns an id, stores the submission and returns the stored record
// with the database creation timestamp.
func (r *SubmissionRepository) Create(ctx context.Context, f domain.Fields) (*domain.Submission, error) {
	const query = `
		INSERT INTO contact_submissions (id, name, email, message)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	for attempt := 0; attempt < 3; attempt++ {
		s := &domain.Submission{
			ID:      uuid.New().String(),
			Name:    f.Name,
			Email:   f.Email,
			Message: f.Message,
		}

		err := r.db.QueryRowContext(ctx, query, s.ID, s.Name, s.Email, s.Message).Scan(&s.CreatedAt)
		if err == nil {
			s.CreatedAt = s.CreatedAt.UTC()
			return s, nil
		}

		// id collision → new id
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			continue
		}
		return nil, fmt.Errorf("%w: insert submission: %v", domain.ErrPersistence, err)
	}

	return nil, fmt.Errorf("%w: failed to generate unique submission id", domain.ErrPersistence)
}

// List returns one page of submissions, newest first, and the total count.
func (r *SubmissionRepository) List(ctx context.Context, page, limit int) (*domain.Page, error) {
	page, limit = domain.NormalizePage(page, limit)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_submissions`).Scan(&total); err != nil {
		return nil, fmt.Errorf("%w: count submissions: %v", domain.ErrPersistence, err)
	}

	const query = `
		SELECT id, name, email, message, created_at
		FROM contact_submissions
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list submissions: %v", domain.ErrPersistence, err)
	}
	defer rows.Close()

	items := make([]domain.Submission, 0, limit)
	for rows.Next() {
		var s domain.Submission
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Message, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan submission: %v", domain.ErrPersistence, err)
		}
		s.CreatedAt = s.CreatedAt.UTC()
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list submissions: %v", domain.ErrPersistence, err)
	}

	return domain.NewPage(items, total, page, limit), nil
}

// DeleteByID removes one submission. It returns domain.ErrNotFound when no
// record matches, including ids that are not valid UUIDs.
func (r *SubmissionRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, domain.ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM contact_submissions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("%w: delete submission: %v", domain.ErrPersistence, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: delete submission: %v", domain.ErrPersistence, err)
	}
	if n == 0 {
		return false, domain.ErrNotFound
	}
	return true, nil
}
