package blog

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/sujalbistaa/blogicum/internal/models"
)

// AddComment attaches a comment to the post at postID. The author is
// always viewer and the post is always the resolved one, whatever the
// client sent.
func (s *Service) AddComment(ctx context.Context, viewer Viewer, postID uint, text string) (*models.Comment, error) {
	if !viewer.Authenticated() {
		return nil, ErrUnauthenticated
	}
	text, err := commentText(text)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	var (
		post    models.Post
		comment models.Comment
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := postsWithRelations(tx).
			Where(VisibleTo(viewer, now)).
			Where("posts.id = ?", postID).
			Take(&post).Error
		if err != nil {
			return notFound(err, "post %d", postID)
		}

		comment = models.Comment{
			Text:        text,
			IsPublished: true,
			AuthorID:    viewer.UserID,
			PostID:      post.ID,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return tx.Preload("Author").Take(&comment, comment.ID).Error
	})
	if err != nil {
		return nil, err
	}

	if PubliclyVisible(&post, now) {
		s.notifier.CommentAdded(&post, &comment)
	}
	return &comment, nil
}

// UpdateComment replaces the text of a comment owned by viewer.
func (s *Service) UpdateComment(ctx context.Context, viewer Viewer, postID, commentID uint, text string) (*models.Comment, error) {
	if !viewer.Authenticated() {
		return nil, ErrUnauthenticated
	}
	text, err := commentText(text)
	if err != nil {
		return nil, err
	}

	var comment models.Comment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := ownedComment(tx, viewer, postID, commentID)
		if err != nil {
			return err
		}
		if err := tx.Model(c).Update("text", text).Error; err != nil {
			return fmt.Errorf("update comment %d: %w", commentID, err)
		}
		return tx.Preload("Author").Take(&comment, commentID).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment owned by viewer.
func (s *Service) DeleteComment(ctx context.Context, viewer Viewer, postID, commentID uint) error {
	if !viewer.Authenticated() {
		return ErrUnauthenticated
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := ownedComment(tx, viewer, postID, commentID)
		if err != nil {
			return err
		}
		if err := tx.Delete(c).Error; err != nil {
			return fmt.Errorf("delete comment %d: %w", commentID, err)
		}
		return nil
	})
}

// SetCommentPublished is the moderation switch for a comment.
func (s *Service) SetCommentPublished(ctx context.Context, commentID uint, published bool) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&comment, commentID).Error; err != nil {
			return notFound(err, "comment %d", commentID)
		}
		if err := tx.Model(&comment).Update("is_published", published).Error; err != nil {
			return fmt.Errorf("moderate comment %d: %w", commentID, err)
		}
		comment.IsPublished = published
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ownedComment loads a comment through the post it belongs to, so a
// comment id under the wrong post is not found.
func ownedComment(tx *gorm.DB, viewer Viewer, postID, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	if err := tx.Where("post_id = ?", postID).Take(&comment, commentID).Error; err != nil {
		return nil, notFound(err, "comment %d of post %d", commentID, postID)
	}
	if err := AuthorizeMutation(viewer, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func commentText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", invalid("text", "must not be empty")
	}
	return text, nil
}
