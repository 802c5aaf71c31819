package blog

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sujalbistaa/blogicum/internal/db"
	"github.com/sujalbistaa/blogicum/internal/models"
)

var testNow = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu       sync.Mutex
	posts    []uint
	comments []uint
}

func (n *recordingNotifier) PostPublished(post *models.Post) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.posts = append(n.posts, post.ID)
}

func (n *recordingNotifier) CommentAdded(_ *models.Post, comment *models.Comment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.comments = append(n.comments, comment.ID)
}

type fixture struct {
	t        *testing.T
	db       *gorm.DB
	svc      *Service
	notifier *recordingNotifier
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	database, err := db.Init("sqlite://" + filepath.Join(t.TempDir(), "blog.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})

	notifier := &recordingNotifier{}
	opts = append([]Option{
		WithClock(func() time.Time { return testNow }),
		WithNotifier(notifier),
	}, opts...)
	return &fixture{t: t, db: database, svc: NewService(database, opts...), notifier: notifier}
}

func (f *fixture) user(username string) *models.User {
	f.t.Helper()
	u := &models.User{Username: username}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

func (f *fixture) category(slug string, published bool) *models.Category {
	f.t.Helper()
	c := &models.Category{Title: slug, Slug: slug, IsPublished: published}
	require.NoError(f.t, f.db.Create(c).Error)
	return c
}

func (f *fixture) location(name string, published bool) *models.Location {
	f.t.Helper()
	l := &models.Location{Name: name, IsPublished: published}
	require.NoError(f.t, f.db.Create(l).Error)
	return l
}

type postOption func(*models.Post)

func inCategory(c *models.Category) postOption {
	return func(p *models.Post) { p.CategoryID = &c.ID }
}

func atLocation(l *models.Location) postOption {
	return func(p *models.Post) { p.LocationID = &l.ID }
}

func unpublished() postOption {
	return func(p *models.Post) { p.IsPublished = false }
}

func pubDate(t time.Time) postOption {
	return func(p *models.Post) { p.PubDate = t }
}

func titled(title string) postOption {
	return func(p *models.Post) { p.Title = title }
}

// post stores a published post dated an hour before testNow unless
// opts say otherwise.
func (f *fixture) post(author *models.User, opts ...postOption) *models.Post {
	f.t.Helper()
	p := &models.Post{
		Title:       "post",
		Text:        "text",
		PubDate:     testNow.Add(-time.Hour),
		IsPublished: true,
		AuthorID:    author.ID,
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(f.t, f.db.Create(p).Error)
	return p
}

func (f *fixture) comment(post *models.Post, author *models.User, published bool) *models.Comment {
	f.t.Helper()
	c := &models.Comment{Text: "comment", IsPublished: published, AuthorID: author.ID, PostID: post.ID}
	require.NoError(f.t, f.db.Create(c).Error)
	return c
}

func ids(posts []models.Post) []uint {
	out := make([]uint, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
