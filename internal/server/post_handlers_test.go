package server

import (
	"fmt"
	"net/http"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/service"
)

type postPageResponse struct {
	Posts []models.Post `json:"posts"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int64         `json:"total"`
	Pages int           `json:"pages"`
}

func TestCreatePost(t *testing.T) {
	t.Parallel()
	s, app := setupTestServer(t)
	author := createTestUser(t, s, "author", models.RoleUser)
	token := tokenFor(t, s, author)

	t.Run("created posts start pending", func(t *testing.T) {
		var post models.Post
		resp := doJSON(t, app, http.MethodPost, "/api/blogs", token, service.CreatePostInput{
			Title:   "My first post",
			Content: "This is long enough to be accepted.",
		}, &post)

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
		if post.Status != models.StatusPending {
			t.Errorf("expected pending, got %q", post.Status)
		}
		if post.PublishedAt != nil {
			t.Error("new post must not carry a publish time")
		}
		if post.UserID != author.ID {
			t.Errorf("expected author %d, got %d", author.ID, post.UserID)
		}
	})

	t.Run("validation errors are aggregated", func(t *testing.T) {
		var errResp models.ErrorResponse
		resp := doJSON(t, app, http.MethodPost, "/api/blogs", token, service.CreatePostInput{}, &errResp)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
		if errResp.Code != models.CodeValidation {
			t.Errorf("expected validation code, got %q", errResp.Code)
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/blogs", "", service.CreatePostInput{
			Title:   "Anonymous post",
			Content: "Should never be accepted at all.",
		}, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})
}

func TestGetPost_VisibilityThroughAPI(t *testing.T) {
	t.Parallel()
	s, app := setupTestServer(t)
	author := createTestUser(t, s, "writer", models.RoleUser)
	other := createTestUser(t, s, "reader", models.RoleUser)
	admin := createTestUser(t, s, "moderator", models.RoleAdmin)

	published := createTestPost(t, s, author, models.StatusPublished)
	pending := createTestPost(t, s, author, models.StatusPending)

	t.Run("published visible anonymously", func(t *testing.T) {
		var post models.Post
		resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/blogs/%d", published.ID), "", nil, &post)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if post.ID != published.ID {
			t.Errorf("expected post %d, got %d", published.ID, post.ID)
		}
	})

	t.Run("pending returns 404 to strangers and for missing IDs alike", func(t *testing.T) {
		strangerToken := tokenFor(t, s, other)

		hidden := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/blogs/%d", pending.ID), strangerToken, nil, nil)
		missing := doJSON(t, app, http.MethodGet, "/api/blogs/99999", strangerToken, nil, nil)

		if hidden.StatusCode != http.StatusNotFound {
			t.Errorf("pending post: expected 404, got %d", hidden.StatusCode)
		}
		if missing.StatusCode != http.StatusNotFound {
			t.Errorf("missing post: expected 404, got %d", missing.StatusCode)
		}
	})

	t.Run("author sees own pending post", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/blogs/%d", pending.ID), tokenFor(t, s, author), nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("admin sees any post", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/blogs/%d", pending.ID), tokenFor(t, s, admin), nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("invalid id is a 400", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/blogs/banana", "", nil, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestListPosts(t *testing.T) {
	t.Parallel()
	s, app := setupTestServer(t)
	author := createTestUser(t, s, "lister", models.RoleUser)

	for i := 0; i < 25; i++ {
		createTestPost(t, s, author, models.StatusPublished)
	}
	// Unpublished posts never appear in the listing.
	createTestPost(t, s, author, models.StatusPending)
	createTestPost(t, s, author, models.StatusRejected)
	createTestPost(t, s, author, models.StatusHidden)

	t.Run("default page", func(t *testing.T) {
		var page postPageResponse
		resp := doJSON(t, app, http.MethodGet, "/api/blogs", "", nil, &page)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if page.Total != 25 {
			t.Errorf("expected total 25, got %d", page.Total)
		}
		if page.Pages != 3 {
			t.Errorf("expected 3 pages, got %d", page.Pages)
		}
		if len(page.Posts) != 10 {
			t.Errorf("expected 10 posts, got %d", len(page.Posts))
		}
		for _, post := range page.Posts {
			if post.Status != models.StatusPublished {
				t.Errorf("unpublished post %d leaked into listing", post.ID)
			}
		}
	})

	t.Run("last page is partial", func(t *testing.T) {
		var page postPageResponse
		doJSON(t, app, http.MethodGet, "/api/blogs?page=3&limit=10", "", nil, &page)
		if len(page.Posts) != 5 {
			t.Errorf("expected 5 posts on last page, got %d", len(page.Posts))
		}
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		var page postPageResponse
		resp := doJSON(t, app, http.MethodGet, "/api/blogs?page=50", "", nil, &page)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if len(page.Posts) != 0 {
			t.Errorf("expected empty page, got %d posts", len(page.Posts))
		}
	})

	t.Run("invalid pagination falls back to defaults", func(t *testing.T) {
		var page postPageResponse
		doJSON(t, app, http.MethodGet, "/api/blogs?page=-2&limit=0", "", nil, &page)
		if page.Page != 1 || page.Limit != 10 {
			t.Errorf("expected page 1 limit 10, got page %d limit %d", page.Page, page.Limit)
		}
	})
}

func TestListPosts_PopularSort(t *testing.T) {
	t.Parallel()
	s, app := setupTestServer(t)
	author := createTestUser(t, s, "popular", models.RoleUser)

	var likers []*models.User
	for i := 0; i < 3; i++ {
		likers = append(likers, createTestUser(t, s, fmt.Sprintf("liker%d", i), models.RoleUser))
	}

	cold := createTestPost(t, s, author, models.StatusPublished)
	warm := createTestPost(t, s, author, models.StatusPublished)
	hot := createTestPost(t, s, author, models.StatusPublished)

	for _, liker := range likers {
		s.db.Create(&models.Like{UserID: liker.ID, PostID: hot.ID})
	}
	s.db.Create(&models.Like{UserID: likers[0].ID, PostID: warm.ID})

	var page postPageResponse
	resp := doJSON(t, app, http.MethodGet, "/api/blogs?sort=popular", "", nil, &page)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(page.Posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(page.Posts))
	}

	if page.Posts[0].ID != hot.ID {
		t.Errorf("expected most liked post first, got %d", page.Posts[0].ID)
	}
	if page.Posts[1].ID != warm.ID {
		t.Errorf("expected second most liked next, got %d", page.Posts[1].ID)
	}
	if page.Posts[2].ID != cold.ID {
		t.Errorf("expected unliked post last, got %d", page.Posts[2].ID)
	}
	if page.Posts[0].LikesCount != 3 {
		t.Errorf("expected 3 likes on top post, got %d", page.Posts[0].LikesCount)
	}
}

func TestToggleLike(t *testing.T) {
	t.Parallel()
	s, app := setupTestServer(t)
	author := createTestUser(t, s, "liked-author", models.RoleUser)
	liker := createTestUser(t, s, "the-liker", models.RoleUser)
	token := tokenFor(t, s, liker)

	published := createTestPost(t, s, author, models.StatusPublished)
	pending := createTestPost(t, s, author, models.StatusPending)

	t.Run("toggle on then off", func(t *testing.T) {
		path := fmt.Sprintf("/api/blogs/%d/like", published.ID)

		var result service.ToggleLikeResult
		resp := doJSON(t, app, http.MethodPost, path, token, nil, &result)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if !result.Liked || result.LikesCount != 1 {
			t.Errorf("expected liked with count 1, got liked=%v count=%d", result.Liked, result.LikesCount)
		}

		resp = doJSON(t, app, http.MethodPost, path, token, nil, &result)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if result.Liked || result.LikesCount != 0 {
			t.Errorf("expected unliked with count 0, got liked=%v count=%d", result.Liked, result.LikesCount)
		}
	})

	t.Run("liked flag appears in single post reads", func(t *testing.T) {
		path := fmt.Sprintf("/api/blogs/%d/like", published.ID)
		doJSON(t, app, http.MethodPost, path, token, nil, nil)

		var post models.Post
		doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/blogs/%d", published.ID), token, nil, &post)
		if !post.Liked {
			t.Error("expected liked flag for the liker")
		}

		var anonPost models.Post
		doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/blogs/%d", published.ID), "", nil, &anonPost)
		if anonPost.Liked {
			t.Error("anonymous reads must not carry a liked flag")
		}
		if anonPost.LikesCount != 1 {
			t.Errorf("expected likes count 1, got %d", anonPost.LikesCount)
		}
	})

	t.Run("pending post cannot be liked", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/blogs/%d/like", pending.ID), token, nil, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404 for stranger liking pending post, got %d", resp.StatusCode)
		}

		authorResp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/blogs/%d/like", pending.ID), tokenFor(t, s, author), nil, nil)
		if authorResp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400 for author liking own pending post, got %d", authorResp.StatusCode)
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/blogs/%d/like", published.ID), "", nil, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("missing post", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/blogs/99999/like", token, nil, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})
}
