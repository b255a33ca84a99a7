// Package service contains the business logic of the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

const (
	maxTitleLength   = 200
	minContentLength = 10

	defaultPageLimit = 10
	maxPageLimit     = 100
)

// PostService handles post business logic. The isAdmin callback answers
// whether a user ID belongs to an admin, so the service never touches auth
// state directly.
type PostService struct {
	postRepo repository.PostRepository
	isAdmin  func(ctx context.Context, userID uint) bool
}

// NewPostService creates a new post service
func NewPostService(postRepo repository.PostRepository, isAdmin func(ctx context.Context, userID uint) bool) *PostService {
	return &PostService{postRepo: postRepo, isAdmin: isAdmin}
}

// CreatePostInput carries the author-supplied fields for a new post.
type CreatePostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PostPage is one page of a post listing with pagination metadata.
type PostPage struct {
	Posts []*models.Post `json:"posts"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int64          `json:"total"`
	Pages int            `json:"pages"`
}

// CreatePost validates the input and stores a new post in pending status.
// All validation failures are reported together in one error.
func (s *PostService) CreatePost(ctx context.Context, authorID uint, input CreatePostInput) (*models.Post, error) {
	var violations []string

	// Limits are in characters, not bytes, so multibyte text measures the
	// same as ASCII.
	title := strings.TrimSpace(input.Title)
	if title == "" {
		violations = append(violations, "title is required")
	} else if utf8.RuneCountInString(title) > maxTitleLength {
		violations = append(violations, fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		violations = append(violations, "content is required")
	} else if utf8.RuneCountInString(content) < minContentLength {
		violations = append(violations, fmt.Sprintf("content must be at least %d characters", minContentLength))
	}

	if len(violations) > 0 {
		return nil, models.NewValidationError(strings.Join(violations, ", "))
	}

	post := &models.Post{
		Title:   title,
		Content: content,
		UserID:  authorID,
		Status:  models.StatusPending,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}

	observability.PostsCreatedTotal.Inc()
	return s.getOwned(ctx, post.ID, authorID)
}

// GetPost returns a post if the viewer may see it. Posts that are not
// published are visible only to their author and admins; everyone else gets
// the same not-found error as for a missing ID, so unpublished IDs cannot be
// probed.
func (s *PostService) GetPost(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}

	if post.Status != models.StatusPublished && !s.canViewUnpublished(ctx, post, viewerID) {
		return nil, models.NewNotFoundError("Post", id)
	}
	return post, nil
}

// ListPosts returns a page of published posts. Page numbers start at 1;
// out-of-range pages return an empty page with correct metadata rather than
// an error.
func (s *PostService) ListPosts(ctx context.Context, sort string, page, limit int, viewerID uint) (*PostPage, error) {
	page, limit = normalizePagination(page, limit)
	offset := (page - 1) * limit

	total, err := s.postRepo.CountPublished(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	result := &PostPage{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: totalPages(total, limit),
	}

	// The anonymous default front page is by far the hottest read, so it is
	// the only listing served through the cache.
	cacheable := viewerID == 0 && page == 1 && limit == defaultPageLimit &&
		(sort == "" || sort == repository.SortLatest)
	if cacheable {
		err = cache.Aside(ctx, cache.PublishedListKey(), &result.Posts, cache.ListTTL, func() error {
			var ferr error
			result.Posts, ferr = s.postRepo.ListPublished(ctx, sort, limit, offset, 0)
			return ferr
		})
	} else {
		result.Posts, err = s.postRepo.ListPublished(ctx, sort, limit, offset, viewerID)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if result.Posts == nil {
		result.Posts = []*models.Post{}
	}
	return result, nil
}

// ToggleLikeResult reports the post's like state after a toggle.
type ToggleLikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// ToggleLike flips the user's like on a published post. Toggling twice
// returns the post to its prior state.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID uint) (*ToggleLikeResult, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, models.NewInternalError(err)
	}
	if post.Status != models.StatusPublished {
		// Unpublished posts look missing to outsiders; the author and admins
		// get an explicit state error instead.
		if !s.canViewUnpublished(ctx, post, userID) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, models.NewConflictError(
			fmt.Sprintf("post is %s; only published posts can be liked", post.Status))
	}

	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if liked {
		err = s.postRepo.Unlike(ctx, userID, postID)
	} else {
		err = s.postRepo.Like(ctx, userID, postID)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	direction := "like"
	if liked {
		direction = "unlike"
	}
	observability.LikeTogglesTotal.WithLabelValues(direction).Inc()

	refreshed, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &ToggleLikeResult{Liked: refreshed.Liked, LikesCount: refreshed.LikesCount}, nil
}

func (s *PostService) canViewUnpublished(ctx context.Context, post *models.Post, viewerID uint) bool {
	if viewerID == 0 {
		return false
	}
	if post.UserID == viewerID {
		return true
	}
	return s.isAdmin != nil && s.isAdmin(ctx, viewerID)
}

// getOwned re-reads a post for its author, bypassing visibility checks.
func (s *PostService) getOwned(ctx context.Context, id, authorID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, authorID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// totalPages is ceil(total/limit); zero items means zero pages.
func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
