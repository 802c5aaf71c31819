package blog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sujalbistaa/blogicum/internal/models"
)

// OptionalID is a nullable foreign key in a partial update. Set is
// false when the field was absent; ID is nil when it was null.
type OptionalID struct {
	Set bool
	ID  *uint
}

// SomeID returns an OptionalID that sets the reference to id.
func SomeID(id uint) OptionalID {
	return OptionalID{Set: true, ID: &id}
}

// ClearID returns an OptionalID that clears the reference.
func ClearID() OptionalID {
	return OptionalID{Set: true}
}

// UnmarshalJSON is only called for fields present in the payload.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.ID = nil
		return nil
	}
	var id uint
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.ID = &id
	return nil
}

// PostInput carries the author-editable fields of a post. Nil fields
// are left untouched on update and defaulted on create.
type PostInput struct {
	Title       *string
	Text        *string
	Image       *string
	PubDate     *time.Time
	IsPublished *bool
	CategoryID  OptionalID
	LocationID  OptionalID
}

// PostDetail is a single post with its comments, oldest first.
type PostDetail struct {
	Post     models.Post
	Comments []models.Comment
}

// GetPost returns the post if viewer may see it. Comments are limited to
// published ones plus the viewer's own.
func (s *Service) GetPost(ctx context.Context, viewer Viewer, id uint) (*PostDetail, error) {
	db := s.db.WithContext(ctx)

	var post models.Post
	err := postsWithRelations(db).
		Where(VisibleTo(viewer, s.clock())).
		Where("posts.id = ?", id).
		Take(&post).Error
	if err != nil {
		return nil, notFound(err, "post %d", id)
	}

	comments, err := s.postComments(db, viewer, id)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments}, nil
}

func (s *Service) postComments(db *gorm.DB, viewer Viewer, postID uint) ([]models.Comment, error) {
	shown := clause.Expression(clause.Eq{Column: "is_published", Value: true})
	if viewer.Authenticated() {
		shown = clause.Or(shown, clause.Eq{Column: "author_id", Value: viewer.UserID})
	}

	var comments []models.Comment
	err := db.Where("post_id = ?", postID).
		Where(shown).
		Preload("Author").
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("load comments of post %d: %w", postID, err)
	}
	return comments, nil
}

// CreatePost stores a new post authored by viewer.
func (s *Service) CreatePost(ctx context.Context, viewer Viewer, in PostInput) (*models.Post, error) {
	if !viewer.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if in.Title == nil {
		return nil, invalid("title", "is required")
	}
	if in.Text == nil {
		return nil, invalid("text", "is required")
	}

	now := s.clock()
	post := models.Post{
		PubDate:     now,
		IsPublished: true,
		AuthorID:    viewer.UserID,
	}
	if err := applyPostInput(&post, in); err != nil {
		return nil, err
	}

	var created models.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, post.CategoryID, post.LocationID); err != nil {
			return err
		}
		if err := tx.Create(&post).Error; err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		return postsWithRelations(tx).Where("posts.id = ?", post.ID).Take(&created).Error
	})
	if err != nil {
		return nil, err
	}

	if PubliclyVisible(&created, now) {
		s.notifier.PostPublished(&created)
	}
	return &created, nil
}

// UpdatePost applies in to the post if viewer owns it.
func (s *Service) UpdatePost(ctx context.Context, viewer Viewer, id uint, in PostInput) (*models.Post, error) {
	if !viewer.Authenticated() {
		return nil, ErrUnauthenticated
	}

	var updated models.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.authorizedPost(tx, viewer, id)
		if err != nil {
			return err
		}
		if err := applyPostInput(post, in); err != nil {
			return err
		}
		if err := checkReferences(tx, post.CategoryID, post.LocationID); err != nil {
			return err
		}

		err = tx.Model(&models.Post{ID: post.ID}).Updates(map[string]any{
			"title":        post.Title,
			"text":         post.Text,
			"image":        post.Image,
			"pub_date":     post.PubDate.UTC(),
			"is_published": post.IsPublished,
			"category_id":  post.CategoryID,
			"location_id":  post.LocationID,
		}).Error
		if err != nil {
			return fmt.Errorf("update post %d: %w", id, err)
		}
		return postsWithRelations(tx).Where("posts.id = ?", id).Take(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePost removes the post and its comments if viewer owns it.
func (s *Service) DeletePost(ctx context.Context, viewer Viewer, id uint) error {
	if !viewer.Authenticated() {
		return ErrUnauthenticated
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.authorizedPost(tx, viewer, id)
		if err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments of post %d: %w", id, err)
		}
		if err := tx.Delete(&models.Post{}, post.ID).Error; err != nil {
			return fmt.Errorf("delete post %d: %w", id, err)
		}
		return nil
	})
}

// authorizedPost loads a post for mutation. A non-owner who could not
// see the post gets ErrNotFound rather than ErrForbidden.
func (s *Service) authorizedPost(tx *gorm.DB, viewer Viewer, id uint) (*models.Post, error) {
	var post models.Post
	if err := postsWithRelations(tx).Where("posts.id = ?", id).Take(&post).Error; err != nil {
		return nil, notFound(err, "post %d", id)
	}
	if err := AuthorizeMutation(viewer, &post); err != nil {
		if !Visible(&post, viewer, s.clock()) {
			return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &post, nil
}

func applyPostInput(post *models.Post, in PostInput) error {
	if in.Title != nil {
		title, err := requiredTitle("title", *in.Title)
		if err != nil {
			return err
		}
		post.Title = title
	}
	if in.Text != nil {
		text := strings.TrimSpace(*in.Text)
		if text == "" {
			return invalid("text", "must not be empty")
		}
		post.Text = text
	}
	if in.Image != nil {
		post.Image = strings.TrimSpace(*in.Image)
	}
	if in.PubDate != nil {
		post.PubDate = in.PubDate.UTC()
	}
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}
	if in.CategoryID.Set {
		post.CategoryID = in.CategoryID.ID
		post.Category = nil
	}
	if in.LocationID.Set {
		post.LocationID = in.LocationID.ID
		post.Location = nil
	}
	return nil
}

// checkReferences rejects category and location ids that do not exist.
func checkReferences(tx *gorm.DB, categoryID, locationID *uint) error {
	if categoryID != nil {
		if ok, err := exists(tx, &models.Category{}, *categoryID); err != nil {
			return err
		} else if !ok {
			return invalid("categoryId", "unknown category")
		}
	}
	if locationID != nil {
		if ok, err := exists(tx, &models.Location{}, *locationID); err != nil {
			return err
		} else if !ok {
			return invalid("locationId", "unknown location")
		}
	}
	return nil
}

func exists(tx *gorm.DB, model any, id uint) (bool, error) {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check reference %d: %w", id, err)
	}
	return n > 0, nil
}
