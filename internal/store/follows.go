package store

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"yatube/internal/models"
)

// Follow subscribes userID to authorID. Repeating the call returns the
// existing relation. The insert relies on the unique (user_id, author_id)
// index so concurrent duplicates collapse into one row.
func (s *Store) Follow(ctx context.Context, userID, authorID uint) (*models.Follow, error) {
	if userID == authorID {
		return nil, models.NewValidationError("author", "Users cannot follow themselves.")
	}

	db := s.db.WithContext(ctx)
	follow := models.Follow{UserID: userID, AuthorID: authorID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
		DoNothing: true,
	}).Omit(clause.Associations).Create(&follow).Error
	if err != nil {
		return nil, fmt.Errorf("create follow: %w", err)
	}

	var stored models.Follow
	err = db.Preload("User").Preload("Author").
		Where("user_id = ? AND author_id = ?", userID, authorID).
		First(&stored).Error
	if err != nil {
		return nil, notFound(err, "follow")
	}
	return &stored, nil
}

// Unfollow removes the subscription of userID to the author with the given
// username, or returns models.ErrNotFound if there was none.
func (s *Store) Unfollow(ctx context.Context, userID uint, authorUsername string) error {
	db := s.db.WithContext(ctx)
	author := db.Model(&models.User{}).Select("id").Where("username = ?", authorUsername)
	res := db.Where("user_id = ? AND author_id IN (?)", userID, author).Delete(&models.Follow{})
	if res.Error != nil {
		return fmt.Errorf("delete follow: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("follow of %s: %w", authorUsername, models.ErrNotFound)
	}
	return nil
}

func (s *Store) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return count > 0, nil
}

// Followers counts subscribers of an author, shown on profiles.
func (s *Store) Followers(ctx context.Context, authorID uint) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).Where("author_id = ?", authorID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count followers: %w", err)
	}
	return int(count), nil
}
