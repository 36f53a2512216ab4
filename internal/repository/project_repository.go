package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/portfolio-cms/internal/domain"
)

type projectRepository struct {
	db dbtx
}

// NewProjectRepository instantiates the repository.
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepository{db: conn(pool)}
}

const projectColumns = `id, slug, title, summary, description, category, tech_stack, demo_url, repo_url,
        thumbnail_media_id, featured, published, sort_order, created_at, updated_at`

func (r *projectRepository) Create(ctx context.Context, p *domain.Project) error {
	const query = `
        INSERT INTO projects (slug, title, summary, description, category, tech_stack, demo_url, repo_url,
            thumbnail_media_id, featured, published, sort_order)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		p.Slug,
		p.Title,
		p.Summary,
		p.Description,
		p.Category,
		techStack(p.TechStack),
		p.DemoURL,
		p.RepoURL,
		p.ThumbnailMediaID,
		p.Featured,
		p.Published,
		p.SortOrder,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return mapPgError(err)
}

func (r *projectRepository) Update(ctx context.Context, p *domain.Project) error {
	const query = `
        UPDATE projects
        SET slug=$1, title=$2, summary=$3, description=$4, category=$5, tech_stack=$6, demo_url=$7,
            repo_url=$8, thumbnail_media_id=$9, featured=$10, published=$11, sort_order=$12, updated_at=NOW()
        WHERE id=$13
        RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		p.Slug,
		p.Title,
		p.Summary,
		p.Description,
		p.Category,
		techStack(p.TechStack),
		p.DemoURL,
		p.RepoURL,
		p.ThumbnailMediaID,
		p.Featured,
		p.Published,
		p.SortOrder,
		p.ID,
	).Scan(&p.UpdatedAt)
	return mapPgError(err)
}

func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	row := r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id=$1`, id)
	return scanProject(row)
}

func (r *projectRepository) GetBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	row := r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE slug=$1`, slug)
	return scanProject(row)
}

func (r *projectRepository) List(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	limit, offset := pageBounds(filter.Limit, filter.Offset)

	clauses := []string{"1=1"}
	args := []any{}
	if filter.PublishedOnly {
		clauses = append(clauses, "published = TRUE")
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		clauses = append(clauses, fmt.Sprintf("featured = $%d", len(args)))
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`SELECT %s FROM projects WHERE %s ORDER BY sort_order, id LIMIT $%d OFFSET $%d`,
		projectColumns, strings.Join(clauses, " AND "), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	if err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Title,
		&p.Summary,
		&p.Description,
		&p.Category,
		&p.TechStack,
		&p.DemoURL,
		&p.RepoURL,
		&p.ThumbnailMediaID,
		&p.Featured,
		&p.Published,
		&p.SortOrder,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &p, nil
}

func techStack(stack []string) []string {
	if stack == nil {
		return []string{}
	}
	return stack
}
