package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fizikblog/internal/cache"
	"fizikblog/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepositoryCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createTestUser(t, db, "authoruser", true)

	post := &models.Post{
		Title:    "Standing Waves",
		Slug:     "standing-waves",
		Content:  "Nodes and antinodes.",
		Category: "mechanics",
		UserID:   author.ID,
	}
	require.NoError(t, repo.Create(ctx, post))
	assert.NotZero(t, post.ID)

	byID, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "standing-waves", byID.Slug)

	bySlug, err := repo.GetBySlug(ctx, "standing-waves")
	require.NoError(t, err)
	assert.Equal(t, post.ID, bySlug.ID)

	_, err = repo.GetByID(ctx, 999)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	_, err = repo.GetBySlug(ctx, "no-such-slug")
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestPostRepositorySlugConflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createTestUser(t, db, "authoruser", true)

	createTestPost(t, db, author.ID, "Standing Waves", "standing-waves")

	dup := &models.Post{
		Title:   "Standing Waves Again",
		Slug:    "standing-waves",
		Content: "Second take.",
		UserID:  author.ID,
	}
	err := repo.Create(ctx, dup)
	assert.True(t, models.HasCode(err, models.CodeConflict))
}

func TestPostRepositoryListPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createTestUser(t, db, "authoruser", true)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 20; i++ {
		p := createTestPost(t, db, author.ID,
			fmt.Sprintf("Post %02d", i), fmt.Sprintf("post-%02d", i))
		setUpdatedAt(t, db, p.ID, base.Add(time.Duration(i)*time.Minute))
	}

	page, err := repo.List(ctx, models.PostFilter{Limit: 9, StartIndex: 0})
	require.NoError(t, err)
	assert.Len(t, page.Posts, 9)
	assert.EqualValues(t, 20, page.TotalPosts)
	assert.EqualValues(t, 20, page.LastMonthPosts)

	// Default ordering is most recently updated first.
	assert.Equal(t, "post-19", page.Posts[0].Slug)
	assert.Equal(t, "post-11", page.Posts[8].Slug)

	second, err := repo.List(ctx, models.PostFilter{Limit: 9, StartIndex: 9})
	require.NoError(t, err)
	assert.Len(t, second.Posts, 9)
	assert.Equal(t, "post-10", second.Posts[0].Slug)

	asc, err := repo.List(ctx, models.PostFilter{Limit: 3, SortAscending: true})
	require.NoError(t, err)
	require.Len(t, asc.Posts, 3)
	assert.Equal(t, "post-00", asc.Posts[0].Slug)
}

func TestPostRepositoryListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "aliceauthor", true)
	bob := createTestUser(t, db, "bobauthor00", true)

	mech := createTestPost(t, db, alice.ID, "Pendulum Basics", "pendulum-basics")
	require.NoError(t, db.Model(mech).UpdateColumn("category", "mechanics").Error)
	quantum := createTestPost(t, db, bob.ID, "Quantum Tunneling", "quantum-tunneling")
	require.NoError(t, db.Model(quantum).UpdateColumn("category", "quantum").Error)

	byUser, err := repo.List(ctx, models.PostFilter{UserID: alice.ID, Limit: 9})
	require.NoError(t, err)
	require.Len(t, byUser.Posts, 1)
	assert.Equal(t, "pendulum-basics", byUser.Posts[0].Slug)
	assert.EqualValues(t, 1, byUser.TotalPosts)

	byCategory, err := repo.List(ctx, models.PostFilter{Category: "quantum", Limit: 9})
	require.NoError(t, err)
	require.Len(t, byCategory.Posts, 1)
	assert.Equal(t, "quantum-tunneling", byCategory.Posts[0].Slug)

	bySlug, err := repo.List(ctx, models.PostFilter{Slug: "pendulum-basics", Limit: 9})
	require.NoError(t, err)
	require.Len(t, bySlug.Posts, 1)

	byID, err := repo.List(ctx, models.PostFilter{PostID: quantum.ID, Limit: 9})
	require.NoError(t, err)
	require.Len(t, byID.Posts, 1)
	assert.Equal(t, quantum.ID, byID.Posts[0].ID)

	// Search is case-insensitive over title and content.
	search, err := repo.List(ctx, models.PostFilter{SearchTerm: "TUNNELING", Limit: 9})
	require.NoError(t, err)
	require.Len(t, search.Posts, 1)
	assert.Equal(t, "quantum-tunneling", search.Posts[0].Slug)

	searchContent, err := repo.List(ctx, models.PostFilter{SearchTerm: "content for pendulum", Limit: 9})
	require.NoError(t, err)
	require.Len(t, searchContent.Posts, 1)

	none, err := repo.List(ctx, models.PostFilter{SearchTerm: "relativity", Limit: 9})
	require.NoError(t, err)
	assert.Empty(t, none.Posts)
	assert.EqualValues(t, 0, none.TotalPosts)
}

func TestPostRepositoryUpdateConflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createTestUser(t, db, "authoruser", true)

	createTestPost(t, db, author.ID, "Taken Title", "taken-title")
	post := createTestPost(t, db, author.ID, "Other Title", "other-title")

	post.Slug = "taken-title"
	err := repo.Update(ctx, post)
	assert.True(t, models.HasCode(err, models.CodeConflict))
}

func TestPostRepositoryUpdateInvalidatesOldSlug(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createTestUser(t, db, "authoruser", true)

	post := createTestPost(t, db, author.ID, "First Title", "first-title")

	// Warm the slug cache, then rename.
	warmed, err := repo.GetBySlug(ctx, "first-title")
	require.NoError(t, err)
	require.Equal(t, post.ID, warmed.ID)

	post.Title = "Second Title"
	post.Slug = "second-title"
	require.NoError(t, repo.Update(ctx, post))

	// The abandoned slug must not keep serving the pre-rename record.
	_, err = repo.GetBySlug(ctx, "first-title")
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	renamed, err := repo.GetBySlug(ctx, "second-title")
	require.NoError(t, err)
	assert.Equal(t, "Second Title", renamed.Title)
}

func TestPostRepositoryDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	commentRepo := NewCommentRepository(db)
	ctx := context.Background()
	author := createTestUser(t, db, "authoruser", true)
	reader := createTestUser(t, db, "readeruser", false)

	post := createTestPost(t, db, author.ID, "Doomed Post", "doomed-post")
	comment := createTestComment(t, db, post.ID, reader.ID, "Great read")
	require.NoError(t, commentRepo.ToggleLike(ctx, comment.ID, author.ID))

	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	// Comments and likes are gone with the post.
	comments, err := commentRepo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	var likeCount int64
	require.NoError(t, db.Model(&models.CommentLike{}).Count(&likeCount).Error)
	assert.EqualValues(t, 0, likeCount)

	// The freed slug is reusable.
	assert.NoError(t, repo.Create(ctx, &models.Post{
		Title:   "Doomed Post",
		Slug:    "doomed-post",
		Content: "Back again.",
		UserID:  author.ID,
	}))
}

func TestPostRepositoryDeleteMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	err := repo.Delete(context.Background(), 999)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
