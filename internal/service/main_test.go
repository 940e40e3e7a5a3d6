package service

import (
	"context"
	"sort"
	"time"

	"fizikblog/internal/models"
)

// In-memory repository stubs. Each mirrors the store contract closely enough
// for service-level behavior: uniqueness violations, not-found, ordering.

type stubUserRepo struct {
	nextID uint
	users  map[uint]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{nextID: 1, users: map[uint]*models.User{}}
}

func (r *stubUserRepo) add(username, email string, admin bool) *models.User {
	u := &models.User{
		ID:       r.nextID,
		Username: username,
		Email:    email,
		IsAdmin:  admin,
	}
	r.users[u.ID] = u
	r.nextID++
	return u
}

func (r *stubUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return models.NewDuplicateIdentityError("Username or email already taken")
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, models.NewNotFoundError("User", id)
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return models.NewNotFoundError("User", user.ID)
	}
	for _, u := range r.users {
		if u.ID != user.ID && (u.Username == user.Username || u.Email == user.Email) {
			return models.NewDuplicateIdentityError("Username or email already taken")
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uint) error {
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) List(_ context.Context, limit, offset int) ([]models.User, int64, int64, error) {
	ids := make([]uint, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	var page []models.User
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(page) == limit {
			break
		}
		page = append(page, *r.users[id])
	}
	total := int64(len(r.users))
	return page, total, total, nil
}

func (r *stubUserRepo) IsAdmin(_ context.Context, id uint) (bool, error) {
	u, ok := r.users[id]
	if !ok {
		return false, models.NewNotFoundError("User", id)
	}
	return u.IsAdmin, nil
}

type stubPostRepo struct {
	nextID uint
	posts  map[uint]*models.Post
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{nextID: 1, posts: map[uint]*models.Post{}}
}

func (r *stubPostRepo) add(userID uint, title, slug string) *models.Post {
	p := &models.Post{
		ID:     r.nextID,
		Title:  title,
		Slug:   slug,
		UserID: userID,
	}
	r.posts[p.ID] = p
	r.nextID++
	return p
}

func (r *stubPostRepo) Create(_ context.Context, post *models.Post) error {
	for _, p := range r.posts {
		if p.Slug == post.Slug || p.Title == post.Title {
			return models.NewConflictError("A post with this title already exists")
		}
	}
	post.ID = r.nextID
	r.nextID++
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	r.posts[post.ID] = post
	return nil
}

func (r *stubPostRepo) GetByID(_ context.Context, id uint) (*models.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, models.NewNotFoundError("Post", id)
	}
	cp := *p
	return &cp, nil
}

func (r *stubPostRepo) GetBySlug(_ context.Context, slug string) (*models.Post, error) {
	for _, p := range r.posts {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, models.NewNotFoundError("Post", slug)
}

func (r *stubPostRepo) List(_ context.Context, filter models.PostFilter) (*models.PostPage, error) {
	ids := make([]uint, 0, len(r.posts))
	for id := range r.posts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if filter.SortAscending {
			return ids[i] < ids[j]
		}
		return ids[i] > ids[j]
	})

	matches := []*models.Post{}
	for _, id := range ids {
		p := r.posts[id]
		if filter.UserID != 0 && p.UserID != filter.UserID {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Slug != "" && p.Slug != filter.Slug {
			continue
		}
		if filter.PostID != 0 && p.ID != filter.PostID {
			continue
		}
		cp := *p
		matches = append(matches, &cp)
	}

	total := int64(len(matches))
	start := filter.StartIndex
	if start > len(matches) {
		start = len(matches)
	}
	end := start + filter.Limit
	if end > len(matches) {
		end = len(matches)
	}
	return &models.PostPage{
		Posts:          matches[start:end],
		TotalPosts:     total,
		LastMonthPosts: total,
	}, nil
}

func (r *stubPostRepo) Update(_ context.Context, post *models.Post) error {
	if _, ok := r.posts[post.ID]; !ok {
		return models.NewNotFoundError("Post", post.ID)
	}
	for _, p := range r.posts {
		if p.ID != post.ID && p.Slug == post.Slug {
			return models.NewConflictError("A post with this title already exists")
		}
	}
	cp := *post
	cp.UpdatedAt = time.Now()
	r.posts[post.ID] = &cp
	return nil
}

func (r *stubPostRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.posts[id]; !ok {
		return models.NewNotFoundError("Post", id)
	}
	delete(r.posts, id)
	return nil
}

type stubCommentRepo struct {
	nextID   uint
	comments map[uint]*models.Comment
	likes    map[uint]map[uint]bool
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{
		nextID:   1,
		comments: map[uint]*models.Comment{},
		likes:    map[uint]map[uint]bool{},
	}
}

func (r *stubCommentRepo) add(postID, userID uint, content string) *models.Comment {
	c := &models.Comment{
		ID:      r.nextID,
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	r.comments[c.ID] = c
	r.nextID++
	return c
}

func (r *stubCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	comment.ID = r.nextID
	r.nextID++
	comment.Likes = []uint{}
	r.comments[comment.ID] = comment
	return nil
}

func (r *stubCommentRepo) GetByID(_ context.Context, id uint) (*models.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, models.NewNotFoundError("Comment", id)
	}
	cp := *c
	cp.Likes = []uint{}
	for userID := range r.likes[id] {
		cp.Likes = append(cp.Likes, userID)
	}
	sort.Slice(cp.Likes, func(i, j int) bool { return cp.Likes[i] < cp.Likes[j] })
	cp.NumberOfLikes = len(cp.Likes)
	return &cp, nil
}

func (r *stubCommentRepo) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	ids := make([]uint, 0, len(r.comments))
	for id, c := range r.comments {
		if c.PostID == postID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	out := []*models.Comment{}
	for _, id := range ids {
		c, _ := r.GetByID(ctx, id)
		out = append(out, c)
	}
	return out, nil
}

func (r *stubCommentRepo) ListAll(ctx context.Context, limit, offset int) (*models.CommentPage, error) {
	ids := make([]uint, 0, len(r.comments))
	for id := range r.comments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	out := []*models.Comment{}
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		c, _ := r.GetByID(ctx, id)
		out = append(out, c)
	}
	total := int64(len(r.comments))
	return &models.CommentPage{
		Comments:          out,
		TotalComments:     total,
		LastMonthComments: total,
	}, nil
}

func (r *stubCommentRepo) Update(_ context.Context, comment *models.Comment) error {
	c, ok := r.comments[comment.ID]
	if !ok {
		return models.NewNotFoundError("Comment", comment.ID)
	}
	c.Content = comment.Content
	return nil
}

func (r *stubCommentRepo) Delete(_ context.Context, id uint) error {
	delete(r.comments, id)
	delete(r.likes, id)
	return nil
}

func (r *stubCommentRepo) ToggleLike(_ context.Context, commentID, userID uint) error {
	if _, ok := r.comments[commentID]; !ok {
		return models.NewNotFoundError("Comment", commentID)
	}
	if r.likes[commentID] == nil {
		r.likes[commentID] = map[uint]bool{}
	}
	if r.likes[commentID][userID] {
		delete(r.likes[commentID], userID)
	} else {
		r.likes[commentID][userID] = true
	}
	return nil
}
