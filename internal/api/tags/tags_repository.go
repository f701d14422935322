package tags

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-juicebox-api/internal/api"
	"github.com/FACorreiaa/go-juicebox-api/internal/types"
)

var _ TagsRepo = (*PostgresTagsRepo)(nil)

// TagsRepo defines the contract for tag data persistence. The post write
// path maintains its own transaction-scoped tag upserts; this repo covers
// the standalone operations.
type TagsRepo interface {
	GetAllTags(ctx context.Context) ([]types.Tag, error)

	// CreateTags upserts the named tags and returns the full rows,
	// existing or new. Duplicate names in the input collapse to one tag.
	CreateTags(ctx context.Context, names []string) ([]types.Tag, error)
}

type PostgresTagsRepo struct {
	logger *slog.Logger
	pgpool api.PGXPool
}

func NewPostgresTagsRepo(pgpool api.PGXPool, logger *slog.Logger) *PostgresTagsRepo {
	return &PostgresTagsRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresTagsRepo) GetAllTags(ctx context.Context) ([]types.Tag, error) {
	rows, err := r.pgpool.Query(ctx, "SELECT id, name FROM tags ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("database error listing tags: %w", err)
	}
	defer rows.Close()

	tags := []types.Tag{}
	for rows.Next() {
		var tag types.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag rows: %w", err)
	}

	return tags, nil
}

func (r *PostgresTagsRepo) CreateTags(ctx context.Context, names []string) ([]types.Tag, error) {
	seen := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}
	if len(unique) == 0 {
		return []types.Tag{}, nil
	}

	_, err := r.pgpool.Exec(ctx, `
		INSERT INTO tags (name)
		SELECT unnest($1::text[])
		ON CONFLICT (name) DO NOTHING`,
		unique,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert tags: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, "SELECT id, name FROM tags WHERE name = ANY($1)", unique)
	if err != nil {
		return nil, fmt.Errorf("failed to select tags back: %w", err)
	}
	defer rows.Close()

	tags := []types.Tag{}
	for rows.Next() {
		var tag types.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag rows: %w", err)
	}

	return tags, nil
}
