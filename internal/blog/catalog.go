package blog

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/sujalbistaa/blogicum/internal/models"
)

// CategoryInput carries category fields; nil means unchanged on update.
// On create a missing slug is derived from the title.
type CategoryInput struct {
	Title       *string
	Description *string
	Slug        *string
	IsPublished *bool
}

// LocationInput carries location fields; nil means unchanged on update.
type LocationInput struct {
	Name        *string
	IsPublished *bool
}

// ListCategories returns every category, published or not, by title.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("title ASC").Order("id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory stores a new category, published unless told otherwise.
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if in.Title == nil {
		return nil, invalid("title", "is required")
	}
	category := models.Category{IsPublished: true}
	if err := applyCategoryInput(&category, in); err != nil {
		return nil, err
	}
	if in.Slug == nil {
		category.Slug = Slugify(category.Title)
		if !validSlug(category.Slug) {
			return nil, invalid("slug", "cannot be derived from the title, set it explicitly")
		}
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, storeError(err, "create category %q", category.Slug)
	}
	return &category, nil
}

// UpdateCategory edits the category at slug. Unpublishing hides its
// posts from every public listing.
func (s *Service) UpdateCategory(ctx context.Context, slug string, in CategoryInput) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slug = ?", slug).Take(&category).Error; err != nil {
			return notFound(err, "category %q", slug)
		}
		if err := applyCategoryInput(&category, in); err != nil {
			return err
		}
		err := tx.Model(&models.Category{ID: category.ID}).Updates(map[string]any{
			"title":        category.Title,
			"description":  category.Description,
			"slug":         category.Slug,
			"is_published": category.IsPublished,
		}).Error
		if err != nil {
			return storeError(err, "update category %q", slug)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes the category and detaches its posts, which
// stay in place without a category.
func (s *Service) DeleteCategory(ctx context.Context, slug string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("slug = ?", slug).Take(&category).Error; err != nil {
			return notFound(err, "category %q", slug)
		}
		err := tx.Model(&models.Post{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error
		if err != nil {
			return fmt.Errorf("detach posts from category %q: %w", slug, err)
		}
		if err := tx.Delete(&category).Error; err != nil {
			return fmt.Errorf("delete category %q: %w", slug, err)
		}
		return nil
	})
}

// CreateLocation stores a new location, published unless told otherwise.
func (s *Service) CreateLocation(ctx context.Context, in LocationInput) (*models.Location, error) {
	if in.Name == nil {
		return nil, invalid("name", "is required")
	}
	location := models.Location{IsPublished: true}
	if err := applyLocationInput(&location, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&location).Error; err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return &location, nil
}

// UpdateLocation edits the location with id.
func (s *Service) UpdateLocation(ctx context.Context, id uint, in LocationInput) (*models.Location, error) {
	var location models.Location
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&location, id).Error; err != nil {
			return notFound(err, "location %d", id)
		}
		if err := applyLocationInput(&location, in); err != nil {
			return err
		}
		err := tx.Model(&models.Location{ID: location.ID}).Updates(map[string]any{
			"name":         location.Name,
			"is_published": location.IsPublished,
		}).Error
		if err != nil {
			return fmt.Errorf("update location %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &location, nil
}

// DeleteLocation removes the location and clears it from posts.
func (s *Service) DeleteLocation(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var location models.Location
		if err := tx.Take(&location, id).Error; err != nil {
			return notFound(err, "location %d", id)
		}
		err := tx.Model(&models.Post{}).
			Where("location_id = ?", id).
			Update("location_id", nil).Error
		if err != nil {
			return fmt.Errorf("detach posts from location %d: %w", id, err)
		}
		if err := tx.Delete(&location).Error; err != nil {
			return fmt.Errorf("delete location %d: %w", id, err)
		}
		return nil
	})
}

func applyCategoryInput(category *models.Category, in CategoryInput) error {
	if in.Title != nil {
		title, err := requiredTitle("title", *in.Title)
		if err != nil {
			return err
		}
		category.Title = title
	}
	if in.Description != nil {
		category.Description = strings.TrimSpace(*in.Description)
	}
	if in.Slug != nil {
		slug := strings.TrimSpace(*in.Slug)
		if !validSlug(slug) {
			return invalid("slug", "may only contain Latin letters, digits, hyphens and underscores")
		}
		category.Slug = slug
	}
	if in.IsPublished != nil {
		category.IsPublished = *in.IsPublished
	}
	return nil
}

func applyLocationInput(location *models.Location, in LocationInput) error {
	if in.Name != nil {
		name, err := requiredTitle("name", *in.Name)
		if err != nil {
			return err
		}
		location.Name = name
	}
	if in.IsPublished != nil {
		location.IsPublished = *in.IsPublished
	}
	return nil
}

func requiredTitle(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid(field, "must not be empty")
	}
	if utf8.RuneCountInString(value) > models.MaxTitleLength {
		return "", invalid(field, fmt.Sprintf("must be at most %d characters", models.MaxTitleLength))
	}
	return value, nil
}
