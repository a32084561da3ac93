package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yatube/internal/models"
)

type commentInput struct {
	Text string `form:"text" validate:"notblank"`
}

func (s *Store) CreateComment(ctx context.Context, postID, authorID uint, text string) (*models.Comment, error) {
	if verr := models.Validate(commentInput{Text: text}); !verr.Empty() {
		return nil, verr
	}

	comment := models.Comment{
		PostID:    postID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: s.clock.Now(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			return notFound(err, fmt.Sprintf("post %d", postID))
		}
		return tx.Omit(clause.Associations).Create(&comment).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &comment, nil
}

// Comments lists the comments of a post, oldest first.
func (s *Store) Comments(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
