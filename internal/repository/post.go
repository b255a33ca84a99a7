package repository

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sort modes for the public published listing. Anything unrecognized falls
// back to SortLatest.
const (
	SortLatest  = "latest"
	SortOldest  = "oldest"
	SortPopular = "popular"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error)
	ListPublished(ctx context.Context, sort string, limit, offset int, viewerID uint) ([]*models.Post, error)
	CountPublished(ctx context.Context) (int64, error)
	ListModeration(ctx context.Context, status string, limit, offset int) ([]*models.Post, error)
	CountModeration(ctx context.Context, status string) (int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountLikes(ctx context.Context) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidatePublishedList(ctx)
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	defer observability.TrackQuery("get_by_id", "posts")()
	var post models.Post

	var err error
	if viewerID == 0 {
		// Anonymous reads share one cache entry; viewer-specific fields are
		// always false/zero for them.
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
			return r.applyDerivedFields(r.db.WithContext(ctx), 0).
				Preload("User").
				First(&post, id).Error
		})
	} else {
		err = r.applyDerivedFields(r.db.WithContext(ctx), viewerID).
			Preload("User").
			First(&post, id).Error
	}

	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListPublished(ctx context.Context, sort string, limit, offset int, viewerID uint) ([]*models.Post, error) {
	defer observability.TrackQuery("list_published", "posts")()
	var posts []*models.Post
	base := r.applyDerivedFields(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("posts.status = ?", models.StatusPublished)
	err := r.applySort(base, sort).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("status = ?", models.StatusPublished).
		Count(&count).Error
	return count, err
}

// ListModeration returns posts of every status for admin review, newest
// submissions first. An empty status means no filter.
func (r *postRepository) ListModeration(ctx context.Context, status string, limit, offset int) ([]*models.Post, error) {
	defer observability.TrackQuery("list_moderation", "posts")()
	var posts []*models.Post
	q := r.applyDerivedFields(r.db.WithContext(ctx), 0).
		Preload("User")
	if status != "" {
		q = q.Where("posts.status = ?", status)
	}
	err := q.Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) CountModeration(ctx context.Context, status string) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&count).Error
	return count, err
}

// applySort appends the ORDER BY clause for the requested sort mode.
// likes_count is a SELECT alias from applyDerivedFields; both PostgreSQL and
// SQLite allow referencing it in ORDER BY within the same query level.
func (r *postRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case SortOldest:
		return db.Order("posts.published_at ASC")
	case SortPopular:
		return db.Order("likes_count DESC, posts.published_at DESC")
	default: // SortLatest and anything unrecognized
		return db.Order("posts.published_at DESC")
	}
}

// applyDerivedFields adds subqueries to fetch the like count and the viewer's
// liked flag in a single query.
func (r *postRepository) applyDerivedFields(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if viewerID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", viewerID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("update", "posts")()
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidatePublishedList(ctx)
	return nil
}

// Delete removes the post and its like rows permanently. Moderation deletes
// are final, so the soft-delete scope is bypassed.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()
	if err := r.db.WithContext(ctx).Unscoped().Delete(&models.Post{}, id).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidatePublishedList(ctx)
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	// ON CONFLICT DO NOTHING keeps concurrent double-likes from erroring;
	// the unique index guarantees the liker set stays a set.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Like{UserID: userID, PostID: postID}).Error
	if err == nil {
		cache.InvalidatePost(ctx, postID)
		cache.InvalidatePublishedList(ctx)
	}
	return err
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error
	if err == nil {
		cache.InvalidatePost(ctx, postID)
		cache.InvalidatePublishedList(ctx)
	}
	return err
}

// CountByStatus returns post counts keyed by moderation status. Statuses with
// no posts are present with a zero count.
func (r *postRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		counts[s] = 0
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (r *postRepository) CountLikes(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).Count(&count).Error
	return count, err
}
