package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

// ModerationService handles admin review of posts. Callers are expected to
// have verified admin privileges already; this service only enforces the
// lifecycle rules.
type ModerationService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

// NewModerationService creates a new moderation service
func NewModerationService(postRepo repository.PostRepository, userRepo repository.UserRepository) *ModerationService {
	return &ModerationService{postRepo: postRepo, userRepo: userRepo}
}

// Approve publishes a pending post. PublishedAt is set here and never again;
// hiding a post later does not clear it.
func (s *ModerationService) Approve(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.StatusPending {
		return nil, transitionError(post.Status, models.StatusPending, "approved")
	}

	now := time.Now().UTC()
	post.Status = models.StatusPublished
	post.PublishedAt = &now
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}

	observability.ModerationActionsTotal.WithLabelValues("approve").Inc()
	return post, nil
}

// Reject marks a pending post rejected. The reason is optional and stored
// verbatim for the author to read.
func (s *ModerationService) Reject(ctx context.Context, postID uint, reason string) (*models.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.StatusPending {
		return nil, transitionError(post.Status, models.StatusPending, "rejected")
	}

	post.Status = models.StatusRejected
	post.RejectionReason = strings.TrimSpace(reason)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}

	observability.ModerationActionsTotal.WithLabelValues("reject").Inc()
	return post, nil
}

// Hide retracts a published post from public view. PublishedAt is preserved.
func (s *ModerationService) Hide(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.StatusPublished {
		return nil, transitionError(post.Status, models.StatusPublished, "hidden")
	}

	post.Status = models.StatusHidden
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}

	observability.ModerationActionsTotal.WithLabelValues("hide").Inc()
	return post, nil
}

// Delete permanently removes a post regardless of its status and returns the
// removed record so callers can echo a summary.
func (s *ModerationService) Delete(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return nil, models.NewInternalError(err)
	}

	observability.ModerationActionsTotal.WithLabelValues("delete").Inc()
	return post, nil
}

// ListPosts returns a page of posts of every status for review, newest first.
// An unrecognized status filter is ignored rather than rejected.
func (s *ModerationService) ListPosts(ctx context.Context, status string, page, limit int) (*PostPage, error) {
	if !models.ValidStatus(status) {
		status = ""
	}
	page, limit = normalizePagination(page, limit)
	offset := (page - 1) * limit

	total, err := s.postRepo.CountModeration(ctx, status)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	posts, err := s.postRepo.ListModeration(ctx, status, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	return &PostPage{
		Posts: posts,
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: totalPages(total, limit),
	}, nil
}

// Stats summarizes the moderation workload and overall activity.
type Stats struct {
	PostsByStatus map[string]int64 `json:"posts_by_status"`
	TotalPosts    int64            `json:"total_posts"`
	TotalLikes    int64            `json:"total_likes"`
	TotalUsers    int64            `json:"total_users"`
}

// GetStats returns aggregate counts for the admin dashboard.
func (s *ModerationService) GetStats(ctx context.Context) (*Stats, error) {
	byStatus, err := s.postRepo.CountByStatus(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var totalPosts int64
	for _, n := range byStatus {
		totalPosts += n
	}

	totalLikes, err := s.postRepo.CountLikes(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &Stats{
		PostsByStatus: byStatus,
		TotalPosts:    totalPosts,
		TotalLikes:    totalLikes,
		TotalUsers:    totalUsers,
	}, nil
}

func (s *ModerationService) getPost(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func transitionError(current, required, action string) *models.AppError {
	return models.NewConflictError(
		fmt.Sprintf("post is %s; only %s posts can be %s", current, required, action))
}
