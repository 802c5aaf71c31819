package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxTitleLength caps titles and names, matching the column size.
const MaxTitleLength = 256

// User is an account known to the platform. Sessions are issued
// outside the HTTP API, so only the profile fields live here.
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Username  string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	FirstName string    `gorm:"size:150" json:"firstName"`
	LastName  string    `gorm:"size:150" json:"lastName"`
	Email     string    `gorm:"size:254" json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session maps an opaque bearer token to a user.
type Session struct {
	Token     string    `gorm:"primarykey;size:64" json:"token"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Category groups posts. Unpublishing a category hides its posts.
type Category struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Slug        string    `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	IsPublished bool      `gorm:"not null" json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Location is an optional place attached to a post.
type Location struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"size:256;not null" json:"name"`
	IsPublished bool      `gorm:"not null" json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Post is a publication. Category and Location are nullable and are
// cleared, not cascaded, when the referenced row goes away.
type Post struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	PubDate     time.Time `gorm:"not null;index" json:"pubDate"`
	Image       string    `gorm:"size:512" json:"-"`
	IsPublished bool      `gorm:"not null" json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`

	AuthorID   uint      `gorm:"not null;index" json:"authorId"`
	Author     *User     `gorm:"constraint:OnDelete:CASCADE;" json:"author,omitempty"`
	LocationID *uint     `gorm:"index" json:"locationId"`
	Location   *Location `gorm:"constraint:OnDelete:SET NULL;" json:"location,omitempty"`
	CategoryID *uint     `gorm:"index" json:"categoryId"`
	Category   *Category `gorm:"constraint:OnDelete:SET NULL;" json:"category,omitempty"`

	// CommentCount is filled by listing queries and never persisted.
	CommentCount int64 `gorm:"->;-:migration" json:"commentCount"`
}

// OwnerID returns the author of the post.
func (p *Post) OwnerID() uint { return p.AuthorID }

// BeforeSave keeps stored timestamps in UTC so that pub_date
// comparisons behave the same on every driver.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	p.PubDate = p.PubDate.UTC()
	return nil
}

// Comment belongs to a post and is removed together with it.
type Comment struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	IsPublished bool      `gorm:"not null" json:"isPublished"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`

	AuthorID uint  `gorm:"not null;index" json:"authorId"`
	Author   *User `gorm:"constraint:OnDelete:CASCADE;" json:"author,omitempty"`
	PostID   uint  `gorm:"not null;index" json:"postId"`
	Post     *Post `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// OwnerID returns the author of the comment.
func (c *Comment) OwnerID() uint { return c.AuthorID }

// All lists every model in dependency order for migrations.
func All() []any {
	return []any{&User{}, &Session{}, &Category{}, &Location{}, &Post{}, &Comment{}}
}
