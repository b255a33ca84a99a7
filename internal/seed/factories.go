package seed

import (
	"fmt"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rnd *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateAdmin persists an admin account with the given credentials.
func (f *Factory) CreateAdmin(email, password string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username: "admin",
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser constructs and persists a sample regular user. Optional
// override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hashed),
		Role:     models.RoleUser,
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a post for the user in the given
// moderation status, with a realistic created_at spread.
func (f *Factory) CreatePost(user *models.User, status string, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:   gofakeit.Sentence(5),
		Content: gofakeit.Paragraph(2, 4, 8, "\n"),
		UserID:  user.ID,
		Status:  status,
	}

	daysBack := f.rnd.Intn(90)
	hoursBack := f.rnd.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	switch status {
	case models.StatusPublished, models.StatusHidden:
		// Hidden posts were published once, so they keep a publish time.
		publishedAt := post.CreatedAt.Add(time.Duration(f.rnd.Intn(48)) * time.Hour)
		post.PublishedAt = &publishedAt
	case models.StatusRejected:
		post.RejectionReason = gofakeit.Sentence(8)
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// RandomStatus returns a moderation status weighted toward published so the
// public listing has enough content.
func (f *Factory) RandomStatus() string {
	switch f.rnd.Intn(10) {
	case 0, 1:
		return models.StatusPending
	case 2:
		return models.StatusRejected
	case 3:
		return models.StatusHidden
	default:
		return models.StatusPublished
	}
}

// RandomLikeCount returns how many likes a post should get, bounded by the
// number of available users.
func (f *Factory) RandomLikeCount(max, userCount int) int {
	if max > userCount {
		max = userCount
	}
	if max <= 0 {
		return 0
	}
	return f.rnd.Intn(max + 1)
}

// PickUsers returns n distinct users chosen at random.
func (f *Factory) PickUsers(users []*models.User, n int) []*models.User {
	if n >= len(users) {
		return users
	}
	picked := make([]*models.User, len(users))
	copy(picked, users)
	f.rnd.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:n]
}
