// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options controls how much demo data Run generates.
type Options struct {
	Users         int
	PostsPerUser  int
	MaxLikes      int
	AdminEmail    string
	AdminPassword string
}

// DefaultOptions returns a data set large enough to exercise pagination and
// the moderation queue.
func DefaultOptions() Options {
	return Options{
		Users:         12,
		PostsPerUser:  5,
		MaxLikes:      8,
		AdminEmail:    "admin@inkwell.dev",
		AdminPassword: "admin-password1",
	}
}

// Run populates the database with an admin, regular users, posts in every
// moderation status, and a spread of likes on the published ones.
func Run(db *gorm.DB, opts Options) error {
	f := NewFactory(db)

	admin, err := f.CreateAdmin(opts.AdminEmail, opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Printf("Seeded admin user %q (id=%d)", admin.Email, admin.ID)

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
	}

	var published []*models.Post
	for _, user := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			post, err := f.CreatePost(user, f.RandomStatus())
			if err != nil {
				return fmt.Errorf("seed post: %w", err)
			}
			if post.Status == models.StatusPublished {
				published = append(published, post)
			}
		}
	}

	likes := 0
	for _, post := range published {
		n := f.RandomLikeCount(opts.MaxLikes, len(users))
		for _, user := range f.PickUsers(users, n) {
			err := db.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Like{UserID: user.ID, PostID: post.ID}).Error
			if err != nil {
				return fmt.Errorf("seed like: %w", err)
			}
			likes++
		}
	}

	log.Printf("Seeded %d users, %d posts (%d published), %d likes",
		len(users)+1, len(users)*opts.PostsPerUser, len(published), likes)
	return nil
}
