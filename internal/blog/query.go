package blog

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sujalbistaa/blogicum/internal/models"
)

const (
	// DefaultPageSize applies when a request does not set one.
	DefaultPageSize = 10
	// MaxPageSize bounds client supplied page sizes.
	MaxPageSize = 100
)

const commentCountSelect = "(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

// ListingContext names the page a listing is built for.
type ListingContext int

const (
	SiteIndex ListingContext = iota
	CategoryPage
	AuthorProfile
)

func (c ListingContext) String() string {
	switch c {
	case SiteIndex:
		return "index"
	case CategoryPage:
		return "category"
	case AuthorProfile:
		return "profile"
	default:
		return fmt.Sprintf("ListingContext(%d)", int(c))
	}
}

// ListingRequest describes one listing. Category must be set for
// CategoryPage and Author for AuthorProfile.
type ListingRequest struct {
	Viewer   Viewer
	Context  ListingContext
	Category *models.Category
	Author   *models.User
	Page     int
	PageSize int
}

func (r ListingRequest) normalized() ListingRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
	return r
}

// postsWithRelations selects posts with their category, location and
// author joined in and a comment_count column.
func postsWithRelations(tx *gorm.DB) *gorm.DB {
	return tx.Model(&models.Post{}).
		Select("posts.*", commentCountSelect).
		Joins("Category").
		Joins("Location").
		Joins("Author")
}

// ComposeQuery builds the listing query for req. The result fetches one
// row past the page so callers can tell whether another page exists.
func ComposeQuery(tx *gorm.DB, req ListingRequest, now time.Time) *gorm.DB {
	req = req.normalized()
	q := applyVisibility(postsWithRelations(tx), req, now)

	switch req.Context {
	case SiteIndex:
	case CategoryPage:
		if req.Category == nil {
			q.AddError(fmt.Errorf("category listing without a category"))
			return q
		}
		q = q.Where("posts.category_id = ?", req.Category.ID)
	case AuthorProfile:
		if req.Author == nil {
			q.AddError(fmt.Errorf("profile listing without an author"))
			return q
		}
		q = q.Where("posts.author_id = ?", req.Author.ID)
	default:
		q.AddError(fmt.Errorf("unknown listing context %s", req.Context))
		return q
	}

	return q.
		Order("posts.pub_date DESC").
		Order("posts.id DESC").
		Offset((req.Page - 1) * req.PageSize).
		Limit(req.PageSize + 1)
}

// applyVisibility runs on every listing path. Only an author looking at
// their own profile sees posts outside the public set.
func applyVisibility(q *gorm.DB, req ListingRequest, now time.Time) *gorm.DB {
	if req.Context == AuthorProfile && req.Author != nil && req.Viewer.Is(req.Author.ID) {
		return q
	}
	return q.Where(publicCondition(now))
}
