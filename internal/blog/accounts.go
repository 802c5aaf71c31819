package blog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sujalbistaa/blogicum/internal/db"
	"github.com/sujalbistaa/blogicum/internal/models"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]{1,150}$`)
	validate        = validator.New()
)

// ProfileInput holds the editable profile fields; nil means unchanged.
type ProfileInput struct {
	Username  *string
	FirstName *string
	LastName  *string
	Email     *string
}

// CreateUser registers an account. Used by the admin tooling.
func (s *Service) CreateUser(ctx context.Context, in ProfileInput) (*models.User, error) {
	if in.Username == nil {
		return nil, invalid("username", "is required")
	}
	var user models.User
	if err := applyProfileInput(&user, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, storeError(err, "create user %q", user.Username)
	}
	return &user, nil
}

// UpdateProfile edits the viewer's own profile.
func (s *Service) UpdateProfile(ctx context.Context, viewer Viewer, in ProfileInput) (*models.User, error) {
	if !viewer.Authenticated() {
		return nil, ErrUnauthenticated
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&user, viewer.UserID).Error; err != nil {
			return notFound(err, "user %d", viewer.UserID)
		}
		if err := applyProfileInput(&user, in); err != nil {
			return err
		}
		err := tx.Model(&models.User{ID: user.ID}).Updates(map[string]any{
			"username":   user.Username,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
		}).Error
		if err != nil {
			return storeError(err, "update user %q", user.Username)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// IssueToken creates a session for username and returns its token.
func (s *Service) IssueToken(ctx context.Context, username string) (string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error; err != nil {
		return "", notFound(err, "user %q", username)
	}
	session := models.Session{Token: uuid.NewString(), UserID: user.ID}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return session.Token, nil
}

// ViewerForToken resolves a bearer token. Unknown tokens are
// ErrUnauthenticated.
func (s *Service) ViewerForToken(ctx context.Context, token string) (Viewer, error) {
	if _, err := uuid.Parse(token); err != nil {
		return Anonymous, ErrUnauthenticated
	}
	var session models.Session
	err := s.db.WithContext(ctx).Where("token = ?", token).Take(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Anonymous, ErrUnauthenticated
		}
		return Anonymous, fmt.Errorf("resolve session: %w", err)
	}
	return AsUser(session.UserID), nil
}

func applyProfileInput(user *models.User, in ProfileInput) error {
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if !usernamePattern.MatchString(username) {
			return invalid("username", "must be 1-150 letters, digits or @.+-_")
		}
		user.Username = username
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != "" {
			if err := validate.Var(email, "email,max=254"); err != nil {
				return invalid("email", "is not a valid address")
			}
		}
		user.Email = email
	}
	return nil
}

// storeError maps unique violations to ErrConflict.
func storeError(err error, format string, args ...any) error {
	what := fmt.Sprintf(format, args...)
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w", what, ErrConflict)
	}
	return fmt.Errorf("%s: %w", what, err)
}
