package blog

import (
	"time"

	"gorm.io/gorm/clause"

	"github.com/sujalbistaa/blogicum/internal/models"
)

// categoryAlias is the table alias gorm gives the joined Post.Category.
const categoryAlias = "Category"

// PubliclyVisible reports whether anyone may see the post at now.
// A category that is referenced but not loaded counts as hidden.
func PubliclyVisible(p *models.Post, now time.Time) bool {
	if !p.IsPublished || p.PubDate.After(now) {
		return false
	}
	if p.CategoryID == nil {
		return true
	}
	return p.Category != nil && p.Category.IsPublished
}

// Visible reports whether viewer may see the post at now. Authors
// always see their own posts; nobody else gets an override.
func Visible(p *models.Post, viewer Viewer, now time.Time) bool {
	return viewer.Is(p.AuthorID) || PubliclyVisible(p, now)
}

// publicCondition is PubliclyVisible expressed over posts joined with
// their Category.
func publicCondition(now time.Time) clause.Expression {
	return clause.And(
		clause.Eq{Column: postColumn("is_published"), Value: true},
		clause.Lte{Column: postColumn("pub_date"), Value: now.UTC()},
		clause.Or(
			clause.Eq{Column: postColumn("category_id"), Value: nil},
			clause.Eq{Column: clause.Column{Table: categoryAlias, Name: "is_published"}, Value: true},
		),
	)
}

// VisibleTo is Visible expressed as a SQL condition. The query must
// join Category, which ComposeQuery always does.
func VisibleTo(viewer Viewer, now time.Time) clause.Expression {
	if !viewer.Authenticated() {
		return publicCondition(now)
	}
	return clause.Or(
		publicCondition(now),
		clause.Eq{Column: postColumn("author_id"), Value: viewer.UserID},
	)
}

func postColumn(name string) clause.Column {
	return clause.Column{Table: "posts", Name: name}
}
