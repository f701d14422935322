package post

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-juicebox-api/internal/api"
	"github.com/FACorreiaa/go-juicebox-api/internal/types"
)

func setupPostRepoTest(t *testing.T) (*PostgresPostRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	// Author and tag hydration run concurrently, so their query order is
	// not deterministic.
	mockPool.MatchExpectationsInOrder(false)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPostgresPostRepo(mockPool, logger), mockPool
}

// expectHydration queues the post row, author and tag queries GetPostByID
// issues for the given post.
func expectHydration(mockPool pgxmock.PgxPoolIface, postID, authorID uuid.UUID, tagNames ...string) {
	now := time.Now()
	mockPool.ExpectQuery("SELECT id, author_id, title, content, active, created_at, updated_at").
		WithArgs(postID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "author_id", "title", "content", "active", "created_at", "updated_at"}).
			AddRow(postID, authorID, "first post", "hello world", true, now, now))

	mockPool.ExpectQuery("SELECT id, username, name, location, active").
		WithArgs(authorID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "name", "location", "active"}).
			AddRow(authorID, "albert", "Al Bert", "Sidney, Australia", true))

	tagRows := pgxmock.NewRows([]string{"id", "name"})
	for _, name := range tagNames {
		tagRows.AddRow(uuid.New(), name)
	}
	mockPool.ExpectQuery("SELECT t.id, t.name").
		WithArgs(postID).
		WillReturnRows(tagRows)
}

func TestPostgresPostRepo_GetPostByID(t *testing.T) {
	ctx := context.Background()

	t.Run("hydrates author and tags", func(t *testing.T) {
		repo, mockPool := setupPostRepoTest(t)
		postID, authorID := uuid.New(), uuid.New()
		expectHydration(mockPool, postID, authorID, "#happy", "#catmandoeverything")

		p, err := repo.GetPostByID(ctx, postID)
		require.NoError(t, err)
		assert.Equal(t, postID, p.ID)
		assert.Equal(t, authorID, p.Author.ID)
		assert.Equal(t, "albert", p.Author.Username)
		assert.True(t, p.Author.Active)
		assert.Len(t, p.Tags, 2)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("missing post maps to not found", func(t *testing.T) {
		repo, mockPool := setupPostRepoTest(t)
		postID := uuid.New()

		mockPool.ExpectQuery("SELECT id, author_id, title, content, active, created_at, updated_at").
			WithArgs(postID).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetPostByID(ctx, postID)
		require.Error(t, err)
		assert.ErrorIs(t, err, api.ErrNotFound)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresPostRepo_CreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("untagged post commits and hydrates", func(t *testing.T) {
		repo, mockPool := setupPostRepoTest(t)
		postID, authorID := uuid.New(), uuid.New()

		mockPool.ExpectBegin()
		mockPool.ExpectQuery("INSERT INTO posts").
			WithArgs(authorID, "first post", "hello world").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(postID))
		mockPool.ExpectCommit()
		mockPool.ExpectRollback() // deferred rollback after commit is a no-op
		expectHydration(mockPool, postID, authorID)

		p, err := repo.CreatePost(ctx, authorID, types.CreatePostParams{
			Title:   "first post",
			Content: "hello world",
		})
		require.NoError(t, err)
		assert.Equal(t, postID, p.ID)
		assert.Empty(t, p.Tags)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("tagged post upserts and links inside the transaction", func(t *testing.T) {
		repo, mockPool := setupPostRepoTest(t)
		postID, authorID, tagID := uuid.New(), uuid.New(), uuid.New()
		tagNames := []string{"#happy"}

		mockPool.ExpectBegin()
		mockPool.ExpectQuery("INSERT INTO posts").
			WithArgs(authorID, "first post", "hello world").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(postID))
		mockPool.ExpectExec("INSERT INTO tags").
			WithArgs(tagNames).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectQuery("SELECT id, name FROM tags WHERE name").
			WithArgs(tagNames).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(tagID, "#happy"))
		mockPool.ExpectExec("INSERT INTO post_tags").
			WithArgs(postID, tagID).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCommit()
		mockPool.ExpectRollback()
		expectHydration(mockPool, postID, authorID, "#happy")

		p, err := repo.CreatePost(ctx, authorID, types.CreatePostParams{
			Title:   "first post",
			Content: "hello world",
			Tags:    tagNames,
		})
		require.NoError(t, err)
		assert.Len(t, p.Tags, 1)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresPostRepo_UpdatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("tag replace prunes stale links", func(t *testing.T) {
		repo, mockPool := setupPostRepoTest(t)
		postID, authorID, tagID := uuid.New(), uuid.New(), uuid.New()
		newTags := []string{"#redfish"}

		mockPool.ExpectBegin()
		mockPool.ExpectQuery("SELECT EXISTS").
			WithArgs(postID).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		mockPool.ExpectExec("INSERT INTO tags").
			WithArgs(newTags).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectQuery("SELECT id, name FROM tags WHERE name").
			WithArgs(newTags).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(tagID, "#redfish"))
		mockPool.ExpectExec("DELETE FROM post_tags").
			WithArgs(postID, []uuid.UUID{tagID}).
			WillReturnResult(pgxmock.NewResult("DELETE", 2))
		mockPool.ExpectExec("INSERT INTO post_tags").
			WithArgs(postID, tagID).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))
		mockPool.ExpectCommit()
		mockPool.ExpectRollback()
		expectHydration(mockPool, postID, authorID, "#redfish")

		p, err := repo.UpdatePost(ctx, postID, types.UpdatePostParams{Tags: &newTags})
		require.NoError(t, err)
		require.Len(t, p.Tags, 1)
		assert.Equal(t, "#redfish", p.Tags[0].Name)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("missing post maps to not found", func(t *testing.T) {
		repo, mockPool := setupPostRepoTest(t)
		postID := uuid.New()
		title := "retitled"

		mockPool.ExpectBegin()
		mockPool.ExpectQuery("UPDATE posts SET").
			WithArgs(title, pgxmock.AnyArg(), postID).
			WillReturnError(pgx.ErrNoRows)
		mockPool.ExpectRollback()

		_, err := repo.UpdatePost(ctx, postID, types.UpdatePostParams{Title: &title})
		require.Error(t, err)
		assert.ErrorIs(t, err, api.ErrNotFound)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}
