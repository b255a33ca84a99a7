package server

import (
	"fmt"
	"net/http"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/service"
)

func TestApprovePost(t *testing.T) {
	t.Parallel()
	s, app := setupTestServer(t)
	author := createTestUser(t, s, "pending-author", models.RoleUser)
	admin := createTestUser(t, s, "approver", models.RoleAdmin)
	adminToken := tokenFor(t, s, admin)

	post := createTestPost(t, s, author, models.StatusPending)
	path := fmt.Sprintf("/api/admin/blogs/%d/approve", post.ID)

	t.Run("pending becomes published", func(t *testing.T) {
		var approved models.Post
		resp := doJSON(t, app, http.MethodPost, path, adminToken, nil, &approved)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if approved.Status != models.StatusPublished {
			t.Errorf("expected published, got %q", approved.Status)
		}
		if approved.PublishedAt == nil {
			t.Error("expected a publish timestamp")
		}

		// Now publicly visible.
		public := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/blogs/%d", post.ID), "", nil, nil)
		if public.StatusCode != http.StatusOK {
			t.Errorf("approved post should be public, got %d", public.StatusCode)
		}
	})

	t.Run("re-approving is a conflict", func(t *testing.T) {
		var errResp models.ErrorResponse
		resp := doJSON(t, app, http.MethodPost, path, adminToken, nil, &errResp)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
		if errResp.Code != models.CodeConflict {
			t.Errorf("expected conflict code, got %q", errResp.Code)
		}
	})

	t.Run("missing post", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/admin/blogs/99999/approve", adminToken, nil, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})
}

func TestRejectPost(t *testing.T) {
	t.Parallel()
	s, app := setupTestServer(t)
	author := createTestUser(t, s, "rejected-author", models.RoleUser)
	admin := createTestUser(t, s, "rejecter", models.RoleAdmin)
	adminToken := tokenFor(t, s, admin)

	t.Run("with reason", func(t *testing.T) {
		post := createTestPost(t, s, author, models.StatusPending)

		var rejected models.Post
		resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/admin/blogs/%d/reject", post.ID),
			adminToken, RejectRequest{Reason: "off topic"}, &rejected)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if rejected.Status != models.StatusRejected {
			t.Errorf("expected rejected, got %q", rejected.Status)
		}
		if rejected.RejectionReason != "off topic" {
			t.Errorf("expected reason preserved, got %q", rejected.RejectionReason)
		}
	})

	t.Run("without body", func(t *testing.T) {
		post := createTestPost(t, s, author, models.StatusPending)

		var rejected models.Post
		resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/admin/blogs/%d/reject", post.ID),
			adminToken, nil, &rejected)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if rejected.RejectionReason != "" {
			t.Errorf("expected empty reason, got %q", rejected.RejectionReason)
		}
	})

	t.Run("published post cannot be rejected", func(t *testing.T) {
		post := createTestPost(t, s, author, models.StatusPublished)

		resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/admin/blogs/%d/reject", post.ID),
			adminToken, nil, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestHidePost(t *testing.T) {
	t.Parallel()
	s, app := setupTestServer(t)
	author := createTestUser(t, s, "hidden-author", models.RoleUser)
	admin := createTestUser(t, s, "hider", models.RoleAdmin)
	adminToken := tokenFor(t, s, admin)

	t.Run("published becomes hidden and disappears from public view", func(t *testing.T) {
		post := createTestPost(t, s, author, models.StatusPublished)

		var hidden models.Post
		resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/admin/blogs/%d/hide", post.ID),
			adminToken, nil, &hidden)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if hidden.Status != models.StatusHidden {
			t.Errorf("expected hidden, got %q", hidden.Status)
		}
		if hidden.PublishedAt == nil {
			t.Error("hiding must not clear the publish timestamp")
		}

		public := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/blogs/%d", post.ID), "", nil, nil)
		if public.StatusCode != http.StatusNotFound {
			t.Errorf("hidden post should 404 publicly, got %d", public.StatusCode)
		}
	})

	t.Run("pending post cannot be hidden", func(t *testing.T) {
		post := createTestPost(t, s, author, models.StatusPending)

		resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/admin/blogs/%d/hide", post.ID),
			adminToken, nil, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestDeletePost(t *testing.T) {
	t.Parallel()
	s, app := setupTestServer(t)
	author := createTestUser(t, s, "deleted-author", models.RoleUser)
	admin := createTestUser(t, s, "deleter", models.RoleAdmin)
	adminToken := tokenFor(t, s, admin)

	for _, status := range models.AllStatuses {
		status := status
		t.Run("deletes "+status+" post", func(t *testing.T) {
			post := createTestPost(t, s, author, status)

			resp := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/admin/blogs/%d", post.ID),
				adminToken, nil, nil)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}

			var count int64
			s.db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count)
			if count != 0 {
				t.Error("post row still present after delete")
			}
		})
	}

	t.Run("delete removes like rows", func(t *testing.T) {
		post := createTestPost(t, s, author, models.StatusPublished)
		liker := createTestUser(t, s, "doomed-liker", models.RoleUser)
		s.db.Create(&models.Like{UserID: liker.ID, PostID: post.ID})

		doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/admin/blogs/%d", post.ID), adminToken, nil, nil)

		var likes int64
		s.db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likes)
		if likes != 0 {
			t.Errorf("expected like rows removed, found %d", likes)
		}
	})
}

func TestAdminListPosts(t *testing.T) {
	t.Parallel()
	s, app := setupTestServer(t)
	author := createTestUser(t, s, "queue-author", models.RoleUser)
	admin := createTestUser(t, s, "queue-admin", models.RoleAdmin)
	adminToken := tokenFor(t, s, admin)

	createTestPost(t, s, author, models.StatusPending)
	createTestPost(t, s, author, models.StatusPending)
	createTestPost(t, s, author, models.StatusPublished)
	createTestPost(t, s, author, models.StatusRejected)
	createTestPost(t, s, author, models.StatusHidden)

	t.Run("all statuses visible", func(t *testing.T) {
		var page postPageResponse
		resp := doJSON(t, app, http.MethodGet, "/api/admin/blogs", adminToken, nil, &page)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if page.Total != 5 {
			t.Errorf("expected 5 posts, got %d", page.Total)
		}
	})

	t.Run("status filter", func(t *testing.T) {
		var page postPageResponse
		doJSON(t, app, http.MethodGet, "/api/admin/blogs?status=rejected", adminToken, nil, &page)
		if page.Total != 1 {
			t.Errorf("expected 1 rejected post, got %d", page.Total)
		}
	})

	t.Run("unknown status filter is ignored", func(t *testing.T) {
		var page postPageResponse
		doJSON(t, app, http.MethodGet, "/api/admin/blogs?status=bogus", adminToken, nil, &page)
		if page.Total != 5 {
			t.Errorf("expected all 5 posts, got %d", page.Total)
		}
	})

	t.Run("pending queue", func(t *testing.T) {
		var page postPageResponse
		resp := doJSON(t, app, http.MethodGet, "/api/admin/blogs/pending", adminToken, nil, &page)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if page.Total != 2 {
			t.Errorf("expected 2 pending posts, got %d", page.Total)
		}
		for _, post := range page.Posts {
			if post.Status != models.StatusPending {
				t.Errorf("non-pending post %d in queue", post.ID)
			}
		}
	})
}

func TestAdminStats(t *testing.T) {
	t.Parallel()
	s, app := setupTestServer(t)
	author := createTestUser(t, s, "stats-author", models.RoleUser)
	admin := createTestUser(t, s, "stats-admin", models.RoleAdmin)
	liker := createTestUser(t, s, "stats-liker", models.RoleUser)

	createTestPost(t, s, author, models.StatusPending)
	published := createTestPost(t, s, author, models.StatusPublished)
	createTestPost(t, s, author, models.StatusRejected)
	s.db.Create(&models.Like{UserID: liker.ID, PostID: published.ID})

	var stats service.Stats
	resp := doJSON(t, app, http.MethodGet, "/api/admin/stats", tokenFor(t, s, admin), nil, &stats)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if stats.TotalPosts != 3 {
		t.Errorf("expected 3 posts, got %d", stats.TotalPosts)
	}
	if stats.TotalLikes != 1 {
		t.Errorf("expected 1 like, got %d", stats.TotalLikes)
	}
	if stats.TotalUsers != 3 {
		t.Errorf("expected 3 users, got %d", stats.TotalUsers)
	}
	if stats.PostsByStatus[models.StatusPending] != 1 {
		t.Errorf("expected 1 pending post, got %d", stats.PostsByStatus[models.StatusPending])
	}
	if stats.PostsByStatus[models.StatusHidden] != 0 {
		t.Errorf("expected 0 hidden posts, got %d", stats.PostsByStatus[models.StatusHidden])
	}
}
