package post

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-juicebox-api/internal/api"
	"github.com/FACorreiaa/go-juicebox-api/internal/types"
)

var _ PostRepo = (*PostgresPostRepo)(nil)

// hydrateConcurrency bounds the parallel per-post hydration fan-out so a
// large listing cannot exhaust the pool.
const hydrateConcurrency = 8

// PostRepo defines the contract for post data persistence. All read
// methods return fully hydrated posts (author projection and tag list
// attached); the raw author_id never leaves this package.
type PostRepo interface {
	// CreatePost inserts the post row, upserts the named tags and links
	// them, all inside one transaction.
	CreatePost(ctx context.Context, authorID uuid.UUID, params types.CreatePostParams) (*types.Post, error)

	// UpdatePost applies the non-nil scalar fields and, when Tags is
	// non-nil, replaces the post's entire tag set. Runs in a transaction.
	UpdatePost(ctx context.Context, postID uuid.UUID, params types.UpdatePostParams) (*types.Post, error)

	GetPostByID(ctx context.Context, postID uuid.UUID) (*types.Post, error)
	GetAllPosts(ctx context.Context) ([]types.Post, error)
	GetPostsByUser(ctx context.Context, authorID uuid.UUID) ([]types.Post, error)
	GetPostsByTagName(ctx context.Context, tagName string) ([]types.Post, error)
}

type PostgresPostRepo struct {
	logger *slog.Logger
	pgpool api.PGXPool
}

func NewPostgresPostRepo(pgpool api.PGXPool, logger *slog.Logger) *PostgresPostRepo {
	return &PostgresPostRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

// upsertTags inserts any missing tag names and returns the full tag rows
// for every name, existing or new. Safe under concurrent creation because
// the insert is ON CONFLICT DO NOTHING and the select runs afterwards.
func upsertTags(ctx context.Context, tx pgx.Tx, names []string) ([]types.Tag, error) {
	if len(names) == 0 {
		return []types.Tag{}, nil
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO tags (name)
		SELECT unnest($1::text[])
		ON CONFLICT (name) DO NOTHING`,
		names,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert tags: %w", err)
	}

	rows, err := tx.Query(ctx, "SELECT id, name FROM tags WHERE name = ANY($1)", names)
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

// linkTags associates the given tags with the post, ignoring links that
// already exist.
func linkTags(ctx context.Context, tx pgx.Tx, postID uuid.UUID, tags []types.Tag) error {
	for _, tag := range tags {
		_, err := tx.Exec(ctx, `
			INSERT INTO post_tags (post_id, tag_id)
			VALUES ($1, $2)
			ON CONFLICT (post_id, tag_id) DO NOTHING`,
			postID, tag.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to link tag %q: %w", tag.Name, err)
		}
	}
	return nil
}

func (r *PostgresPostRepo) CreatePost(ctx context.Context, authorID uuid.UUID, params types.CreatePostParams) (*types.Post, error) {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "CreatePost", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "posts"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreatePost"), slog.String("authorID", authorID.String()))

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var postID uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO posts (author_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id`,
		authorID, params.Title, params.Content,
	).Scan(&postID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to insert post", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating post: %w", err)
	}

	tags, err := upsertTags(ctx, tx, params.Tags)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := linkTags(ctx, tx, postID, tags); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit post creation: %w", err)
	}

	span.SetStatus(codes.Ok, "Post created")
	return r.GetPostByID(ctx, postID)
}

func (r *PostgresPostRepo) UpdatePost(ctx context.Context, postID uuid.UUID, params types.UpdatePostParams) (*types.Post, error) {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "UpdatePost", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "posts"),
		attribute.String("db.post.id", postID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdatePost"), slog.String("postID", postID.String()))

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var setClauses []string
	var args []interface{}
	argID := 1

	if params.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argID))
		args = append(args, *params.Title)
		argID++
	}
	if params.Content != nil {
		setClauses = append(setClauses, fmt.Sprintf("content = $%d", argID))
		args = append(args, *params.Content)
		argID++
	}
	if params.Active != nil {
		setClauses = append(setClauses, fmt.Sprintf("active = $%d", argID))
		args = append(args, *params.Active)
		argID++
	}

	if len(setClauses) > 0 {
		setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argID))
		args = append(args, time.Now())
		argID++

		args = append(args, postID)
		query := fmt.Sprintf("UPDATE posts SET %s WHERE id = $%d RETURNING id",
			strings.Join(setClauses, ", "), argID)

		var updatedID uuid.UUID
		if err := tx.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				span.SetStatus(codes.Error, "Post not found")
				return nil, fmt.Errorf("post not found for update: %w", api.ErrNotFound)
			}
			l.ErrorContext(ctx, "Failed to execute update query", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "DB UPDATE failed")
			return nil, fmt.Errorf("database error updating post: %w", err)
		}
	} else {
		// Tag-only (or empty) update: the UPDATE above never runs, so the
		// post's existence must be checked explicitly.
		var exists bool
		if err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)", postID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("database error checking post: %w", err)
		}
		if !exists {
			span.SetStatus(codes.Error, "Post not found")
			return nil, fmt.Errorf("post not found for update: %w", api.ErrNotFound)
		}
	}

	if params.Tags != nil {
		if err := r.replaceTags(ctx, tx, postID, *params.Tags); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit post update: %w", err)
	}

	span.SetStatus(codes.Ok, "Post updated")
	return r.GetPostByID(ctx, postID)
}

// replaceTags swaps the post's tag set for exactly the named tags. Links
// outside the new set are removed; links already present are kept, so
// replacing with the current set is a no-op.
func (r *PostgresPostRepo) replaceTags(ctx context.Context, tx pgx.Tx, postID uuid.UUID, names []string) error {
	tags, err := upsertTags(ctx, tx, names)
	if err != nil {
		return err
	}

	if len(tags) == 0 {
		if _, err := tx.Exec(ctx, "DELETE FROM post_tags WHERE post_id = $1", postID); err != nil {
			return fmt.Errorf("failed to clear post tags: %w", err)
		}
		return nil
	}

	keep := make([]uuid.UUID, 0, len(tags))
	for _, tag := range tags {
		keep = append(keep, tag.ID)
	}
	_, err = tx.Exec(ctx,
		"DELETE FROM post_tags WHERE post_id = $1 AND tag_id <> ALL($2)",
		postID, keep,
	)
	if err != nil {
		return fmt.Errorf("failed to prune post tags: %w", err)
	}

	return linkTags(ctx, tx, postID, tags)
}

func (r *PostgresPostRepo) GetPostByID(ctx context.Context, postID uuid.UUID) (*types.Post, error) {
	var (
		p        types.Post
		authorID uuid.UUID
	)
	err := r.pgpool.QueryRow(ctx, `
		SELECT id, author_id, title, content, active, created_at, updated_at
		FROM posts
		WHERE id = $1`,
		postID,
	).Scan(&p.ID, &authorID, &p.Title, &p.Content, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("post not found: %w", api.ErrNotFound)
		}
		return nil, fmt.Errorf("database error fetching post: %w", err)
	}

	// Author and tags are independent reads; hydrate them concurrently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := r.pgpool.QueryRow(gctx, `
			SELECT id, username, name, location, active
			FROM users
			WHERE id = $1`,
			authorID,
		).Scan(&p.Author.ID, &p.Author.Username, &p.Author.Name, &p.Author.Location, &p.Author.Active)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// The FK guarantees this cannot happen; treat it as corruption
				return fmt.Errorf("post %s has no author row: %w", postID, err)
			}
			return fmt.Errorf("database error fetching post author: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		rows, err := r.pgpool.Query(gctx, `
			SELECT t.id, t.name
			FROM tags t
			JOIN post_tags pt ON pt.tag_id = t.id
			WHERE pt.post_id = $1
			ORDER BY t.name`,
			postID,
		)
		if err != nil {
			return fmt.Errorf("database error fetching post tags: %w", err)
		}
		defer rows.Close()

		tags := []types.Tag{}
		for rows.Next() {
			var tag types.Tag
			if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
				return fmt.Errorf("failed to scan tag row: %w", err)
			}
			tags = append(tags, tag)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating tag rows: %w", err)
		}
		p.Tags = tags
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *PostgresPostRepo) GetAllPosts(ctx context.Context) ([]types.Post, error) {
	return r.hydrateMatching(ctx, "SELECT id FROM posts ORDER BY created_at DESC")
}

func (r *PostgresPostRepo) GetPostsByUser(ctx context.Context, authorID uuid.UUID) ([]types.Post, error) {
	return r.hydrateMatching(ctx,
		"SELECT id FROM posts WHERE author_id = $1 ORDER BY created_at DESC", authorID)
}

func (r *PostgresPostRepo) GetPostsByTagName(ctx context.Context, tagName string) ([]types.Post, error) {
	return r.hydrateMatching(ctx, `
		SELECT p.id
		FROM posts p
		JOIN post_tags pt ON pt.post_id = p.id
		JOIN tags t ON t.id = pt.tag_id
		WHERE t.name = $1
		ORDER BY p.created_at DESC`,
		tagName)
}

// hydrateMatching runs an id-projection query and hydrates every matching
// post concurrently, preserving the query's ordering. Any hydration
// failure fails the whole listing; a list with silently missing posts is
// worse than an error.
func (r *PostgresPostRepo) hydrateMatching(ctx context.Context, query string, args ...interface{}) ([]types.Post, error) {
	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("database error listing posts: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan post id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post ids: %w", err)
	}

	posts := make([]types.Post, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(hydrateConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			p, err := r.GetPostByID(gctx, id)
			if err != nil {
				return err
			}
			posts[i] = *p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return posts, nil
}
