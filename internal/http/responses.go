package http

import (
	"time"

	"github.com/sujalbistaa/blogicum/internal/blog"
	"github.com/sujalbistaa/blogicum/internal/media"
	"github.com/sujalbistaa/blogicum/internal/models"
)

type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type CategorySummary struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	IsPublished bool   `json:"isPublished"`
}

type LocationSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	IsPublished bool   `json:"isPublished"`
}

type PostResponse struct {
	ID           uint             `json:"id"`
	Title        string           `json:"title"`
	Text         string           `json:"text"`
	PubDate      time.Time        `json:"pubDate"`
	ImageURL     string           `json:"imageUrl,omitempty"`
	IsPublished  bool             `json:"isPublished"`
	CreatedAt    time.Time        `json:"createdAt"`
	Author       *UserSummary     `json:"author,omitempty"`
	Category     *CategorySummary `json:"category,omitempty"`
	Location     *LocationSummary `json:"location,omitempty"`
	CommentCount int64            `json:"commentCount"`
}

type CommentResponse struct {
	ID          uint         `json:"id"`
	PostID      uint         `json:"postId"`
	Text        string       `json:"text"`
	IsPublished bool         `json:"isPublished"`
	CreatedAt   time.Time    `json:"createdAt"`
	Author      *UserSummary `json:"author,omitempty"`
}

type ListingResponse struct {
	Posts    []PostResponse   `json:"posts"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
	HasNext  bool             `json:"hasNext"`
	Category *CategorySummary `json:"category,omitempty"`
	Profile  *UserSummary     `json:"profile,omitempty"`
}

type PostDetailResponse struct {
	Post     PostResponse      `json:"post"`
	Comments []CommentResponse `json:"comments"`
}

func userSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}
}

func categorySummary(c *models.Category) *CategorySummary {
	if c == nil {
		return nil
	}
	return &CategorySummary{ID: c.ID, Title: c.Title, Slug: c.Slug, Description: c.Description, IsPublished: c.IsPublished}
}

func locationSummary(l *models.Location) *LocationSummary {
	if l == nil {
		return nil
	}
	return &LocationSummary{ID: l.ID, Name: l.Name, IsPublished: l.IsPublished}
}

// postResponse renders p for viewer. An unpublished location is only
// shown to the post's author.
func postResponse(p *models.Post, viewer blog.Viewer, resolver *media.Resolver) PostResponse {
	resp := PostResponse{
		ID:           p.ID,
		Title:        p.Title,
		Text:         p.Text,
		PubDate:      p.PubDate,
		ImageURL:     resolver.URL(p.Image),
		IsPublished:  p.IsPublished,
		CreatedAt:    p.CreatedAt,
		Author:       userSummary(p.Author),
		Category:     categorySummary(p.Category),
		CommentCount: p.CommentCount,
	}
	if p.Location != nil && (p.Location.IsPublished || viewer.Is(p.AuthorID)) {
		resp.Location = locationSummary(p.Location)
	}
	return resp
}

func commentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:          c.ID,
		PostID:      c.PostID,
		Text:        c.Text,
		IsPublished: c.IsPublished,
		CreatedAt:   c.CreatedAt,
		Author:      userSummary(c.Author),
	}
}

func listingResponse(l *blog.Listing, viewer blog.Viewer, resolver *media.Resolver) ListingResponse {
	resp := ListingResponse{
		Posts:    make([]PostResponse, 0, len(l.Posts)),
		Page:     l.Page,
		PageSize: l.PageSize,
		HasNext:  l.HasNext,
		Category: categorySummary(l.Category),
		Profile:  userSummary(l.Author),
	}
	for i := range l.Posts {
		resp.Posts = append(resp.Posts, postResponse(&l.Posts[i], viewer, resolver))
	}
	return resp
}
