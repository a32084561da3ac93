package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"yatube/internal/models"
)

type userInput struct {
	Username string `form:"username" validate:"notblank,max=150"`
}

// CreateUser registers a username. Account management itself is owned by
// the auth subsystem; the store only needs the row to hang content on.
func (s *Store) CreateUser(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if verr := models.Validate(userInput{Username: username}); !verr.Empty() {
		return nil, verr
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return nil, models.NewValidationError("username", "A user with that username already exists.")
	}

	user := models.User{Username: username, CreatedAt: s.clock.Now()}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, notFound(err, "user "+username)
	}
	return &user, nil
}

// DeleteUser removes a user together with their posts, the comments on
// those posts, their own comments and every follow touching them, in one
// transaction.
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, fmt.Sprintf("user %d", id))
		}

		ownPosts := tx.Model(&models.Post{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("post_id IN (?) OR author_id = ?", ownPosts, id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return fmt.Errorf("delete posts: %w", err)
		}
		if err := tx.Where("user_id = ? OR author_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return fmt.Errorf("delete follows: %w", err)
		}
		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}
