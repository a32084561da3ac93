package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yatube/internal/models"
)

// PostInput carries the author-editable fields of a post.
type PostInput struct {
	Text    string `form:"text" validate:"notblank"`
	GroupID *uint  `form:"group"`
	// Image is a media reference. On update an empty value keeps the
	// current image.
	Image string
}

// PostFilter narrows a feed query. Zero value selects every post.
type PostFilter struct {
	GroupID *uint
	// AuthorID selects posts by one author.
	AuthorID *uint
	// FollowerID selects posts by authors that user follows.
	FollowerID *uint
}

func (s *Store) CreatePost(ctx context.Context, authorID uint, in PostInput) (*models.Post, error) {
	if verr := models.Validate(in); !verr.Empty() {
		return nil, verr
	}

	post := models.Post{
		Text:      in.Text,
		CreatedAt: s.clock.Now(),
		AuthorID:  authorID,
		GroupID:   in.GroupID,
		Image:     in.Image,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkGroup(tx, in.GroupID); err != nil {
			return err
		}
		var author models.User
		if err := tx.First(&author, authorID).Error; err != nil {
			return notFound(err, fmt.Sprintf("author %d", authorID))
		}
		return tx.Omit(clause.Associations).Create(&post).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.Post(ctx, post.ID)
}

// UpdatePost changes text, group and image of a post. Only the author may
// do so; any other actor gets models.ErrForbidden, whatever the input, and
// nothing changes.
func (s *Store) UpdatePost(ctx context.Context, postID, actorID uint, in PostInput) (*models.Post, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return notFound(err, fmt.Sprintf("post %d", postID))
		}
		if post.AuthorID != actorID {
			return fmt.Errorf("post %d: %w", postID, models.ErrForbidden)
		}
		if verr := models.Validate(in); !verr.Empty() {
			return verr
		}
		if err := checkGroup(tx, in.GroupID); err != nil {
			return err
		}

		updates := map[string]any{
			"text":     in.Text,
			"group_id": in.GroupID,
		}
		if in.Image != "" {
			updates["image"] = in.Image
		}
		return tx.Model(&post).Updates(updates).Error
	})
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return s.Post(ctx, postID)
}

func checkGroup(tx *gorm.DB, groupID *uint) error {
	if groupID == nil {
		return nil
	}
	var group models.Group
	err := tx.First(&group, *groupID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewValidationError("group", "Select a valid choice. That choice is not one of the available choices.")
	}
	return err
}

// Post loads one post with its author and group.
func (s *Store) Post(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Preload("Author").Preload("Group").First(&post, id).Error
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("post %d", id))
	}
	return &post, nil
}

func (s *Store) postQuery(ctx context.Context, f PostFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Post{})
	if f.GroupID != nil {
		q = q.Where("group_id = ?", *f.GroupID)
	}
	if f.AuthorID != nil {
		q = q.Where("author_id = ?", *f.AuthorID)
	}
	if f.FollowerID != nil {
		followed := s.db.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", *f.FollowerID)
		q = q.Where("author_id IN (?)", followed)
	}
	return q
}

func (s *Store) CountPosts(ctx context.Context, f PostFilter) (int, error) {
	var total int64
	if err := s.postQuery(ctx, f).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return int(total), nil
}

// ListPosts returns newest posts first; equal timestamps fall back to
// insertion order.
func (s *Store) ListPosts(ctx context.Context, f PostFilter, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := s.postQuery(ctx, f).
		Preload("Author").
		Preload("Group").
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}
