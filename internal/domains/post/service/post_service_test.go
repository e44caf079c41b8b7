package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/domains/post"
	"blog-backend/internal/shared/pagination"
)

// ========================================
// FAKE REPOSITORY
// ========================================

type memoryRepo struct {
	posts      []*post.Post
	categories map[string]bool
	tags       map[string]bool
	nextID     int64

	lastLimit, lastOffset int
	lastFilter            post.PostFilter
	updateCalls           int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		categories: map[string]bool{"go": true, "rust": true},
		tags:       map[string]bool{"tips": true, "news": true, "web": true},
	}
}

func (r *memoryRepo) List(_ context.Context, f post.PostFilter, limit, offset int) ([]post.Post, int, error) {
	r.lastFilter, r.lastLimit, r.lastOffset = f, limit, offset

	var matched []post.Post
	for _, p := range r.posts {
		if f.Category != "" && (p.CategoryID == nil || *p.CategoryID != f.Category) {
			continue
		}
		if f.Tag != "" && !contains(p.Tags, f.Tag) {
			continue
		}
		if q := strings.ToLower(f.Q); q != "" &&
			!strings.Contains(strings.ToLower(p.Title), q) && !strings.Contains(strings.ToLower(p.Text), q) {
			continue
		}
		matched = append(matched, *p)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	if offset >= total {
		return []post.Post{}, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

func (r *memoryRepo) FindBySlug(_ context.Context, slug string) (*post.Post, error) {
	for _, p := range r.posts {
		if p.Slug == slug {
			cp := *p
			cp.Tags = append([]string{}, p.Tags...)
			return &cp, nil
		}
	}
	return nil, post.ErrPostNotFound
}

func (r *memoryRepo) TitleTaken(_ context.Context, title string, exceptID int64) (bool, error) {
	for _, p := range r.posts {
		if p.Title == title && p.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) SlugTaken(_ context.Context, slug string) (bool, error) {
	for _, p := range r.posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) CategoryExists(_ context.Context, slug string) (bool, error) {
	return r.categories[slug], nil
}

func (r *memoryRepo) MissingTags(_ context.Context, tags []string) ([]string, error) {
	var missing []string
	for _, t := range tags {
		if !r.tags[t] {
			missing = append(missing, t)
		}
	}
	return missing, nil
}

func (r *memoryRepo) Create(_ context.Context, p *post.Post) error {
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	cp := *p
	r.posts = append(r.posts, &cp)
	return nil
}

func (r *memoryRepo) Update(_ context.Context, p *post.Post, replaceTags bool) error {
	r.updateCalls++
	for i, existing := range r.posts {
		if existing.ID == p.ID {
			cp := *p
			if !replaceTags {
				cp.Tags = existing.Tags
			}
			r.posts[i] = &cp
			return nil
		}
	}
	return post.ErrPostNotFound
}

func (r *memoryRepo) Delete(_ context.Context, id int64) error {
	for i, p := range r.posts {
		if p.ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return post.ErrPostNotFound
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func strPtr(s string) *string { return &s }

const (
	alice int64 = 1
	bob   int64 = 2
)

func createPost(t *testing.T, svc post.Service, author int64, req post.CreatePostRequest) *post.Post {
	t.Helper()
	p, err := svc.Create(context.Background(), author, req)
	require.NoError(t, err)
	return p
}

// ========================================
// CREATE
// ========================================

func TestCreate(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewPostService(repo)

	p := createPost(t, svc, alice, post.CreatePostRequest{
		Title:    "  Hello World ",
		Text:     "body",
		Category: strPtr("go"),
		Tags:     []string{"tips", "news", "tips"},
	})

	assert.Equal(t, "Hello World", p.Title)
	assert.Equal(t, "hello-world", p.Slug)
	assert.Equal(t, alice, p.AuthorID)
	assert.Equal(t, []string{"tips", "news"}, p.Tags)
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, "go", *p.CategoryID)
}

func TestCreateDuplicateTitle(t *testing.T) {
	svc := NewPostService(newMemoryRepo())
	createPost(t, svc, alice, post.CreatePostRequest{Title: "Hello World", Text: "one"})

	_, err := svc.Create(context.Background(), bob, post.CreatePostRequest{Title: "Hello World", Text: "two"})
	assert.ErrorIs(t, err, post.ErrDuplicateTitle)
}

func TestCreateDuplicateSlug(t *testing.T) {
	svc := NewPostService(newMemoryRepo())
	createPost(t, svc, alice, post.CreatePostRequest{Title: "Hello World", Text: "one"})

	_, err := svc.Create(context.Background(), bob, post.CreatePostRequest{Title: "Hello, World!", Text: "two"})
	assert.ErrorIs(t, err, post.ErrDuplicateSlug)
}

func TestCreateTransliteratesNonLatinTitle(t *testing.T) {
	svc := NewPostService(newMemoryRepo())

	p := createPost(t, svc, alice, post.CreatePostRequest{Title: "Привет мир", Text: "body"})
	assert.Equal(t, "privet-mir", p.Slug)

	p = createPost(t, svc, alice, post.CreatePostRequest{Title: "Straße", Text: "body"})
	assert.Equal(t, "strasse", p.Slug)
}

func TestCreateValidation(t *testing.T) {
	svc := NewPostService(newMemoryRepo())

	tests := []struct {
		name  string
		req   post.CreatePostRequest
		field string
	}{
		{"missing title", post.CreatePostRequest{Text: "x"}, "title"},
		{"title too long", post.CreatePostRequest{Title: strings.Repeat("a", 101), Text: "x"}, "title"},
		{"title without letters", post.CreatePostRequest{Title: "!!!", Text: "x"}, "title"},
		{"missing text", post.CreatePostRequest{Title: "ok"}, "text"},
		{"unknown category", post.CreatePostRequest{Title: "ok", Text: "x", Category: strPtr("cooking")}, "category"},
		{"unknown tag", post.CreatePostRequest{Title: "ok", Text: "x", Tags: []string{"tips", "ghost"}}, "tags"},
		{"empty tag", post.CreatePostRequest{Title: "ok", Text: "x", Tags: []string{" "}}, "tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), alice, tt.req)

			var verrs validation.Errors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs, tt.field)
		})
	}
}

// ========================================
// UPDATE
// ========================================

func TestUpdatePartial(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewPostService(repo)
	createPost(t, svc, alice, post.CreatePostRequest{
		Title: "Hello World", Text: "old body", Category: strPtr("go"), Tags: []string{"tips"},
	})

	updated, err := svc.Update(context.Background(), alice, "hello-world", post.UpdatePostRequest{
		Text: post.Some("new body"),
	})
	require.NoError(t, err)

	assert.Equal(t, "new body", updated.Text)
	assert.Equal(t, "Hello World", updated.Title)
	assert.Equal(t, "go", *updated.CategoryID)
	assert.Equal(t, []string{"tips"}, updated.Tags)

	stored, err := repo.FindBySlug(context.Background(), "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "new body", stored.Text)
	assert.Equal(t, []string{"tips"}, stored.Tags)
}

func TestUpdateTitleKeepsSlug(t *testing.T) {
	svc := NewPostService(newMemoryRepo())
	createPost(t, svc, alice, post.CreatePostRequest{Title: "Hello World", Text: "x"})
	createPost(t, svc, alice, post.CreatePostRequest{Title: "Second", Text: "x"})

	updated, err := svc.Update(context.Background(), alice, "hello-world", post.UpdatePostRequest{
		Title: post.Some("Hello Again"),
		Tags:  post.Some([]string{"web"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello Again", updated.Title)
	assert.Equal(t, "hello-world", updated.Slug)
	assert.Equal(t, []string{"web"}, updated.Tags)

	_, err = svc.Update(context.Background(), alice, "hello-world", post.UpdatePostRequest{Title: post.Some("Second")})
	assert.ErrorIs(t, err, post.ErrDuplicateTitle)

	_, err = svc.Update(context.Background(), alice, "hello-world", post.UpdatePostRequest{Title: post.Some("Hello Again")})
	assert.NoError(t, err)
}

func TestUpdateClearsCategory(t *testing.T) {
	svc := NewPostService(newMemoryRepo())
	createPost(t, svc, alice, post.CreatePostRequest{Title: "Hello", Text: "x", Category: strPtr("go")})

	updated, err := svc.Update(context.Background(), alice, "hello", post.UpdatePostRequest{Category: post.Some("")})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)
}

func TestUpdateGating(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewPostService(repo)
	createPost(t, svc, alice, post.CreatePostRequest{Title: "Hello World", Text: "original"})

	_, err := svc.Update(context.Background(), alice, "missing", post.UpdatePostRequest{Text: post.Some("x")})
	assert.ErrorIs(t, err, post.ErrPostNotFound)

	_, err = svc.Update(context.Background(), bob, "hello-world", post.UpdatePostRequest{Text: post.Some("hijacked")})
	assert.ErrorIs(t, err, post.ErrForbidden)

	stored, err := repo.FindBySlug(context.Background(), "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Text)
	assert.Zero(t, repo.updateCalls)
}

func TestUpdateUnknownCategory(t *testing.T) {
	svc := NewPostService(newMemoryRepo())
	createPost(t, svc, alice, post.CreatePostRequest{Title: "Hello", Text: "x"})

	_, err := svc.Update(context.Background(), alice, "hello", post.UpdatePostRequest{Category: post.Some("cooking")})

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "category")
}

// ========================================
// DELETE
// ========================================

func TestDelete(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewPostService(repo)
	createPost(t, svc, alice, post.CreatePostRequest{Title: "Hello", Text: "x"})

	assert.ErrorIs(t, svc.Delete(context.Background(), alice, "nope"), post.ErrPostNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), bob, "hello"), post.ErrForbidden)
	assert.Len(t, repo.posts, 1)

	require.NoError(t, svc.Delete(context.Background(), alice, "hello"))
	_, err := svc.Get(context.Background(), "hello")
	assert.ErrorIs(t, err, post.ErrPostNotFound)
}

// ========================================
// LIST
// ========================================

func TestListDefaultsAndMeta(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewPostService(repo)
	for _, title := range []string{"One", "Two", "Three"} {
		createPost(t, svc, alice, post.CreatePostRequest{Title: title, Text: "x"})
	}

	page, err := svc.List(context.Background(), post.ListPostsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastLimit)
	assert.Equal(t, 0, repo.lastOffset)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 1, page.Pages)
	assert.Equal(t, "Three", page.Items[0].Title)

	page, err = svc.List(context.Background(), post.ListPostsRequest{Params: pagination.Params{Page: 2, Size: 2}})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lastOffset)
	assert.Equal(t, 2, page.Pages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "One", page.Items[0].Title)
}

func TestListFilters(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewPostService(repo)
	createPost(t, svc, alice, post.CreatePostRequest{Title: "Goroutines", Text: "channels", Category: strPtr("go"), Tags: []string{"tips", "news"}})
	createPost(t, svc, alice, post.CreatePostRequest{Title: "Borrowing", Text: "GOLANG fans look away", Category: strPtr("rust"), Tags: []string{"tips"}})
	createPost(t, svc, alice, post.CreatePostRequest{Title: "Web frameworks", Text: "gin", Tags: []string{"web"}})

	titles := func(req post.ListPostsRequest) []string {
		page, err := svc.List(context.Background(), req)
		require.NoError(t, err)
		out := []string{}
		for _, p := range page.Items {
			out = append(out, p.Title)
		}
		return out
	}

	assert.Equal(t, []string{"Goroutines"}, titles(post.ListPostsRequest{Category: "go"}))
	assert.Equal(t, []string{}, titles(post.ListPostsRequest{Category: "python"}))
	assert.Equal(t, []string{"Borrowing", "Goroutines"}, titles(post.ListPostsRequest{Tag: "tips"}))
	assert.Equal(t, []string{"Borrowing", "Goroutines"}, titles(post.ListPostsRequest{Q: "go"}))
	assert.Equal(t, []string{"Borrowing"}, titles(post.ListPostsRequest{Tag: "tips", Q: "golang"}))
	assert.Equal(t, post.PostFilter{Tag: "tips", Q: "golang"}, repo.lastFilter)
}

func TestListRejectsOversizedPage(t *testing.T) {
	svc := NewPostService(newMemoryRepo())

	_, err := svc.List(context.Background(), post.ListPostsRequest{Params: pagination.Params{Page: 1, Size: 101}})
	var verrs validation.Errors
	assert.True(t, errors.As(err, &verrs))
}
