package projects

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PGCatalog reads projects from the projects table.
type PGCatalog struct {
	db querier
}

func NewPGCatalog(db *pgxpool.Pool) *PGCatalog {
	return &PGCatalog{db: db}
}

func (r *PGCatalog) List(ctx context.Context) ([]Project, error) {
	const q = `
select id, title, description, image, coalesce(github_url, ''), coalesce(demo_url, ''), technologies
from projects
order by position asc, id asc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]Project, 0, 8)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Image, &p.GitHub, &p.Link, &p.Technologies); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		if p.Technologies == nil {
			p.Technologies = []string{}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
