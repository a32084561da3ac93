package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"yatube/internal/models"
)

type GroupInput struct {
	Title       string `form:"title" validate:"notblank,max=200"`
	Slug        string `form:"slug" validate:"slug"`
	Description string `form:"description"`
}

// CreateGroup is the editorial entry point for new groups.
func (s *Store) CreateGroup(ctx context.Context, in GroupInput) (*models.Group, error) {
	in.Title = strings.TrimSpace(in.Title)
	if verr := models.Validate(in); !verr.Empty() {
		return nil, verr
	}

	group := models.Group{Title: in.Title, Slug: in.Slug}
	if d := strings.TrimSpace(in.Description); d != "" {
		group.Description = &d
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Group{}).Where("slug = ?", in.Slug).Count(&count).Error; err != nil {
			return fmt.Errorf("check slug: %w", err)
		}
		if count > 0 {
			return models.NewValidationError("slug", "Group with this slug already exists.")
		}
		return tx.Create(&group).Error
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *Store) GroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error
	if err != nil {
		return nil, notFound(err, "group "+slug)
	}
	return &group, nil
}

// Groups lists every group by title, for the post form.
func (s *Store) Groups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := s.db.WithContext(ctx).Order("title ASC, id ASC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// DeleteGroup removes a group. Posts in it survive with their group cleared.
func (s *Store) DeleteGroup(ctx context.Context, slug string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.Where("slug = ?", slug).First(&group).Error; err != nil {
			return notFound(err, "group "+slug)
		}
		err := tx.Model(&models.Post{}).Where("group_id = ?", group.ID).Update("group_id", nil).Error
		if err != nil {
			return fmt.Errorf("detach posts: %w", err)
		}
		if err := tx.Delete(&group).Error; err != nil {
			return fmt.Errorf("delete group: %w", err)
		}
		return nil
	})
}
