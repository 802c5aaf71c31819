package blog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sujalbistaa/blogicum/internal/models"
)

// Notifier hears about content once it is publicly visible.
type Notifier interface {
	PostPublished(post *models.Post)
	CommentAdded(post *models.Post, comment *models.Comment)
}

type nopNotifier struct{}

func (nopNotifier) PostPublished(*models.Post)                {}
func (nopNotifier) CommentAdded(*models.Post, *models.Comment) {}

// Service runs the blog operations against the store. Every call is
// scoped to one request; the service keeps no state between calls.
type Service struct {
	db       *gorm.DB
	now      func() time.Time
	pageSize int
	notifier Notifier
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPageSize sets the listing page size used when a request has none.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithNotifier registers a receiver for public events.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// NewService returns a Service backed by db.
func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:       db,
		now:      func() time.Time { return time.Now().UTC() },
		pageSize: DefaultPageSize,
		notifier: nopNotifier{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// Listing is one page of posts plus the object the page is about.
type Listing struct {
	Posts    []models.Post
	Page     int
	PageSize int
	HasNext  bool
	Category *models.Category
	Author   *models.User
}

// ListIndex returns the site-wide listing of public posts.
func (s *Service) ListIndex(ctx context.Context, viewer Viewer, page int) (*Listing, error) {
	return s.list(ctx, ListingRequest{Viewer: viewer, Context: SiteIndex, Page: page})
}

// ListCategory returns the public posts of a published category. An
// unpublished category is reported as not found.
func (s *Service) ListCategory(ctx context.Context, viewer Viewer, slug string, page int) (*Listing, error) {
	var category models.Category
	err := s.db.WithContext(ctx).
		Where("slug = ? AND is_published = ?", slug, true).
		Take(&category).Error
	if err != nil {
		return nil, notFound(err, "category %q", slug)
	}
	return s.list(ctx, ListingRequest{Viewer: viewer, Context: CategoryPage, Category: &category, Page: page})
}

// ListProfile returns the posts of username. The profile owner also
// sees unpublished and scheduled posts.
func (s *Service) ListProfile(ctx context.Context, viewer Viewer, username string, page int) (*Listing, error) {
	var author models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).Take(&author).Error; err != nil {
		return nil, notFound(err, "user %q", username)
	}
	return s.list(ctx, ListingRequest{Viewer: viewer, Context: AuthorProfile, Author: &author, Page: page})
}

func (s *Service) list(ctx context.Context, req ListingRequest) (*Listing, error) {
	if req.PageSize == 0 {
		req.PageSize = s.pageSize
	}
	req = req.normalized()

	var posts []models.Post
	if err := ComposeQuery(s.db.WithContext(ctx), req, s.clock()).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list %s posts: %w", req.Context, err)
	}

	listing := &Listing{
		Posts:    posts,
		Page:     req.Page,
		PageSize: req.PageSize,
		Category: req.Category,
		Author:   req.Author,
	}
	if len(posts) > req.PageSize {
		listing.Posts = posts[:req.PageSize]
		listing.HasNext = true
	}
	return listing, nil
}

// notFound turns gorm.ErrRecordNotFound into ErrNotFound and wraps
// anything else.
func notFound(err error, format string, args ...any) error {
	what := fmt.Sprintf(format, args...)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("load %s: %w", what, err)
}
